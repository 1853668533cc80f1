package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/internal/utils"
	"github.com/fourtravels/b2b-backend/pkg/validator"
)

// UserHandler handles sub-agency account management HTTP requests.
// All routes are admin only.
type UserHandler struct {
	userRepo     *database.UserRepository
	topupRepo    *database.TopUpRepository
	auditService *services.AuditService
	credentials  *validator.CredentialsValidator
	bcryptCost   int
	logger       *logrus.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	userRepo *database.UserRepository,
	topupRepo *database.TopUpRepository,
	auditService *services.AuditService,
	bcryptCost int,
	logger *logrus.Logger,
) *UserHandler {
	return &UserHandler{
		userRepo:     userRepo,
		topupRepo:    topupRepo,
		auditService: auditService,
		credentials:  validator.NewCredentialsValidator(),
		bcryptCost:   bcryptCost,
		logger:       logger,
	}
}

// List returns all accounts
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userRepo.ListUsers()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Get returns one account by ID
func (h *UserHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.userRepo.GetUserByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}

	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// userUpdateRequest carries the editable account fields. Balance is not
// among them; it moves only through top-ups.
type userUpdateRequest struct {
	AgencyName *string `json:"agency_name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	Phone      *string `json:"phone"`
	Locale     *string `json:"locale"`
	IsActive   *bool   `json:"is_active"`
}

// Update applies a partial update to an account
func (h *UserHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	upd := database.UserUpdate{
		AgencyName: req.AgencyName,
		Phone:      req.Phone,
		Locale:     req.Locale,
		IsActive:   req.IsActive,
	}

	if req.Email != nil {
		email, err := h.credentials.ValidateEmail(*req.Email)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		upd.Email = &email
	}

	if req.Password != nil {
		if err := h.credentials.ValidatePassword(*req.Password); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), h.bcryptCost)
		if err != nil {
			h.logger.WithError(err).Error("Failed to hash password")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}
		hashStr := string(hash)
		upd.PasswordHash = &hashStr
	}

	if err := h.userRepo.UpdateUser(id, upd); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	user, err := h.userRepo.GetUserByID(id)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// Delete removes an account. The last admin cannot be deleted.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := h.userRepo.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if user.IsAdmin() {
		count, err := h.userRepo.CountAdmins()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
			return
		}
		if count <= 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "Cannot delete the last admin account"})
			return
		}
	}

	if err := h.userRepo.DeleteUser(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":     id,
		"agency_name": user.AgencyName,
	}).Info("Account deleted")

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// topUpBalanceRequest credits a sub-agency balance
type topUpBalanceRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Type   string  `json:"type"`
	Date   string  `json:"date"`
}

// TopUpBalance credits a sub-agency's balance and records a ledger entry.
// The response reports the ledger entry and the resulting balance.
func (h *UserHandler) TopUpBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req topUpBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	topupType := req.Type
	if topupType == "" {
		topupType = models.TopUpCash
	}
	if !models.ValidTopUpType(topupType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top-up type"})
		return
	}

	user, err := h.userRepo.GetUserByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up balance"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	topup := &models.TopUp{
		AgencyID:   user.ID,
		AgencyName: user.AgencyName,
		Amount:     req.Amount,
		Type:       topupType,
		Date:       req.Date,
	}

	newBalance, err := h.topupRepo.Create(topup)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create top-up")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to top up balance"})
		return
	}

	userCtx := middleware.MustGetUserContext(c)
	_ = h.auditService.LogBalanceChange(userCtx.UserID, user.ID, "topup_create", topup.Amount, newBalance, utils.GetRealIP(c), utils.GetUserAgent(c))

	h.logger.WithFields(logrus.Fields{
		"agency_id":   user.ID,
		"amount":      topup.Amount,
		"new_balance": newBalance,
	}).Info("Balance topped up")

	c.JSON(http.StatusOK, gin.H{
		"topup_id":     topup.ID,
		"topup_amount": topup.Amount,
		"new_balance":  newBalance,
	})
}
