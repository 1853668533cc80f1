package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fourtravels/b2b-backend/internal/config"
	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
)

// setupRequestTestHandler wires a request handler against a sqlmock database.
func setupRequestTestHandler(t *testing.T) (*RequestHandler, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	repo := database.NewRequestRepository(db)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	uploads := config.UploadsConfig{Dir: t.TempDir(), MaxSizeMB: 20, AllowedExts: []string{".pdf"}}
	return NewRequestHandler(repo, uploads, logger), mock
}

// postRequestCreate runs Create with an authenticated sub-agency context.
func postRequestCreate(t *testing.T, handler *RequestHandler, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	c.Request = httptest.NewRequest("POST", "/api/requests", bytes.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	c.Set(middleware.UserContextKey, middleware.UserContext{
		UserID:     uuid.New(),
		Email:      "agency@example.com",
		Role:       "sub_agency",
		AgencyName: "Sunrise Travel",
	})

	handler.Create(c)
	return w
}

func validCreateBody() map[string]interface{} {
	return map[string]interface{}{
		"check_in":  "2025-06-01",
		"check_out": "2025-06-08",
		"adults":    2,
		"children":  1,
		"child_ages": []int64{6},
		"country":   "Turkey",
		"location":  "Antalya",
	}
}

func TestRequestCreate_Success(t *testing.T) {
	handler, mock := setupRequestTestHandler(t)

	mock.ExpectExec(`INSERT INTO requests`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := postRequestCreate(t, handler, validCreateBody())

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Sunrise Travel", resp["agency_name"])
	assert.Equal(t, float64(3), resp["total_pax"])
	assert.Equal(t, "in_progress", resp["reservation_status"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCreate_PaxValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(map[string]interface{})
		errorMsg string
	}{
		{
			"zero adults rejected",
			func(b map[string]interface{}) { b["adults"] = 0 },
			"At least one adult is required",
		},
		{
			"adults omitted rejected",
			func(b map[string]interface{}) { delete(b, "adults") },
			"At least one adult is required",
		},
		{
			"negative adults rejected",
			func(b map[string]interface{}) { b["adults"] = -1 },
			"At least one adult is required",
		},
		{
			"negative children rejected",
			func(b map[string]interface{}) { b["children"] = -1 },
			"Pax counts must not be negative",
		},
		{
			"negative infants rejected",
			func(b map[string]interface{}) { b["infants"] = -2 },
			"Pax counts must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, mock := setupRequestTestHandler(t)

			body := validCreateBody()
			tt.mutate(body)

			w := postRequestCreate(t, handler, body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.errorMsg)

			// Nothing may reach the database on a validation failure.
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRequestCreate_InvalidFlightClass(t *testing.T) {
	handler, mock := setupRequestTestHandler(t)

	body := validCreateBody()
	body["flight_class"] = "premium"

	w := postRequestCreate(t, handler, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid flight class")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestCreate_InvalidHotelCategory(t *testing.T) {
	handler, mock := setupRequestTestHandler(t)

	body := validCreateBody()
	body["hotel_category"] = 6

	w := postRequestCreate(t, handler, body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Hotel category")
	assert.NoError(t, mock.ExpectationsWereMet())
}
