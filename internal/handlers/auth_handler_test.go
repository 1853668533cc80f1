package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/pkg/jwt"
)

// setupAuthTestHandler wires an auth handler against a sqlmock database.
func setupAuthTestHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	userRepo := database.NewUserRepository(db)
	jwtService := jwt.NewService("test-secret", "test-refresh-secret", time.Hour, 7*24*time.Hour)
	auditService := services.NewAuditService(db, false)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return NewAuthHandler(userRepo, jwtService, auditService, 4, 3600, logger), mock
}

func userRows(id uuid.UUID, email, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "agency_name", "email", "password_hash", "phone",
		"role", "locale", "is_active", "balance", "created_at",
	}).AddRow(id, "Sunrise Travel", email, "$2a$04$hash", nil, role, "en", true, 150.0, time.Now())
}

func getMe(t *testing.T, handler *AuthHandler, userID uuid.UUID, role string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/api/auth/me", nil)
	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID:     userID,
		Email:      "agency@example.com",
		Role:       role,
		AgencyName: "Sunrise Travel",
	})

	handler.Me(c)
	return w
}

func TestMe_AdminPermissions(t *testing.T) {
	handler, mock := setupAuthTestHandler(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(userID).
		WillReturnRows(userRows(userID, "admin@example.com", "admin"))

	w := getMe(t, handler, userID, "admin")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		User struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "admin", resp.User.Role)
	assert.Contains(t, resp.Permissions, "manage_tourists")
	assert.Contains(t, resp.Permissions, "manage_users")
	assert.Len(t, resp.Permissions, 10)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_SubAgencyPermissions(t *testing.T) {
	handler, mock := setupAuthTestHandler(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(userID).
		WillReturnRows(userRows(userID, "agency@example.com", "sub_agency"))

	w := getMe(t, handler, userID, "sub_agency")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Permissions)

	// The password hash must never leak through the profile endpoint.
	assert.NotContains(t, w.Body.String(), "$2a$04$hash")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMe_UserNotFound(t *testing.T) {
	handler, mock := setupAuthTestHandler(t)

	userID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := getMe(t, handler, userID, "sub_agency")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
