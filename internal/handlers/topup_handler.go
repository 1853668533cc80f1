package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/internal/utils"
)

// TopUpHandler handles top-up ledger HTTP requests. Admin only.
type TopUpHandler struct {
	topupRepo    *database.TopUpRepository
	userRepo     *database.UserRepository
	auditService *services.AuditService
	logger       *logrus.Logger
}

// NewTopUpHandler creates a new top-up handler
func NewTopUpHandler(
	topupRepo *database.TopUpRepository,
	userRepo *database.UserRepository,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *TopUpHandler {
	return &TopUpHandler{
		topupRepo:    topupRepo,
		userRepo:     userRepo,
		auditService: auditService,
		logger:       logger,
	}
}

// List returns the full top-up ledger, most recent first
func (h *TopUpHandler) List(c *gin.Context) {
	topups, err := h.topupRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list top-ups")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list top-ups"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"topups": topups})
}

// topUpUpdateRequest edits a ledger entry
type topUpUpdateRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Type   string  `json:"type" binding:"required"`
}

// Update edits a ledger entry; the agency balance is adjusted by the
// amount delta.
func (h *TopUpHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top-up ID"})
		return
	}

	var req topUpUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	if !models.ValidTopUpType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top-up type"})
		return
	}

	if err := h.topupRepo.Update(id, req.Amount, req.Type); err != nil {
		h.logger.WithError(err).Error("Failed to update top-up")
		c.JSON(http.StatusNotFound, gin.H{"error": "Top-up not found"})
		return
	}

	topup, err := h.topupRepo.GetByID(id)
	if err != nil || topup == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated top-up"})
		return
	}

	userCtx := middleware.MustGetUserContext(c)
	agency, _ := h.userRepo.GetUserByID(topup.AgencyID)
	if agency != nil {
		_ = h.auditService.LogBalanceChange(userCtx.UserID, topup.AgencyID, "topup_update", topup.Amount, agency.Balance, utils.GetRealIP(c), utils.GetUserAgent(c))
	}

	c.JSON(http.StatusOK, topup)
}

// Delete removes a ledger entry and reverses its balance effect
func (h *TopUpHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid top-up ID"})
		return
	}

	topup, err := h.topupRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete top-up"})
		return
	}
	if topup == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Top-up not found"})
		return
	}

	if err := h.topupRepo.Delete(id); err != nil {
		h.logger.WithError(err).Error("Failed to delete top-up")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete top-up"})
		return
	}

	userCtx := middleware.MustGetUserContext(c)
	agency, _ := h.userRepo.GetUserByID(topup.AgencyID)
	if agency != nil {
		_ = h.auditService.LogBalanceChange(userCtx.UserID, topup.AgencyID, "topup_delete", -topup.Amount, agency.Balance, utils.GetRealIP(c), utils.GetUserAgent(c))
	}

	h.logger.WithFields(logrus.Fields{
		"topup_id":  id,
		"agency_id": topup.AgencyID,
		"amount":    topup.Amount,
	}).Info("Top-up deleted")

	c.JSON(http.StatusOK, gin.H{"message": "Top-up deleted successfully"})
}
