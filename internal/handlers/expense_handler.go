package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// ExpenseHandler handles expense HTTP requests
type ExpenseHandler struct {
	expenseRepo *database.ExpenseRepository
	userRepo    *database.UserRepository
	logger      *logrus.Logger
}

// NewExpenseHandler creates a new expense handler
func NewExpenseHandler(expenseRepo *database.ExpenseRepository, userRepo *database.UserRepository, logger *logrus.Logger) *ExpenseHandler {
	return &ExpenseHandler{
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// List returns expenses. Sub-agency callers see only their own.
func (h *ExpenseHandler) List(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var agencyID uuid.NullUUID
	if userCtx.Role != models.RoleAdmin {
		agencyID = uuid.NullUUID{UUID: userCtx.UserID, Valid: true}
	}

	expenses, err := h.expenseRepo.List(agencyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list expenses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

// expenseCreateRequest books an expense against an agency
type expenseCreateRequest struct {
	AgencyID    uuid.UUID `json:"agency_id" binding:"required"`
	Amount      float64   `json:"amount" binding:"required"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
}

// Create inserts an expense. Admin only.
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req expenseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}

	agency, err := h.userRepo.GetUserByID(req.AgencyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}
	if agency == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown agency"})
		return
	}

	expense := &models.Expense{
		AgencyID:    agency.ID,
		AgencyName:  agency.AgencyName,
		Amount:      req.Amount,
		Date:        req.Date,
		Description: req.Description,
	}

	if err := h.expenseRepo.Create(expense); err != nil {
		h.logger.WithError(err).Error("Failed to create expense")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Delete removes an expense. Admin only.
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense ID"})
		return
	}

	if err := h.expenseRepo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}
