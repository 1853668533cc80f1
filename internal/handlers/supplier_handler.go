package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
)

// SupplierHandler handles supplier registry HTTP requests. Admin only.
type SupplierHandler struct {
	supplierRepo *database.SupplierRepository
	logger       *logrus.Logger
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierRepo *database.SupplierRepository, logger *logrus.Logger) *SupplierHandler {
	return &SupplierHandler{
		supplierRepo: supplierRepo,
		logger:       logger,
	}
}

// List returns all suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	suppliers, err := h.supplierRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list suppliers")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list suppliers"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

type supplierCreateRequest struct {
	Name string `json:"name" binding:"required"`
}

// Create inserts a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	supplier, err := h.supplierRepo.Create(req.Name)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create supplier")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier"})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// Delete removes a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := h.supplierRepo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
