package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// TouristHandler handles tourist registry HTTP requests. The registry
// itself is admin only; the names endpoint feeds form autocomplete.
type TouristHandler struct {
	touristRepo *database.TouristRepository
	logger      *logrus.Logger
}

// NewTouristHandler creates a new tourist handler
func NewTouristHandler(touristRepo *database.TouristRepository, logger *logrus.Logger) *TouristHandler {
	return &TouristHandler{
		touristRepo: touristRepo,
		logger:      logger,
	}
}

// List returns all tourists
func (h *TouristHandler) List(c *gin.Context) {
	tourists, err := h.touristRepo.List()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tourists")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tourists"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tourists": tourists})
}

// touristRequest carries a tourist create or full update
type touristRequest struct {
	FirstName          string `json:"first_name" binding:"required"`
	LastName           string `json:"last_name" binding:"required"`
	DateOfBirth        string `json:"date_of_birth"`
	Gender             string `json:"gender"`
	Citizenship        string `json:"citizenship"`
	DocumentType       string `json:"document_type"`
	DocumentNumber     string `json:"document_number"`
	DocumentExpiration string `json:"document_expiration"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
}

func (req *touristRequest) toModel() *models.Tourist {
	return &models.Tourist{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		DateOfBirth:        models.NewNullString(req.DateOfBirth),
		Gender:             models.NewNullString(req.Gender),
		Citizenship:        models.NewNullString(req.Citizenship),
		DocumentType:       models.NewNullString(req.DocumentType),
		DocumentNumber:     models.NewNullString(req.DocumentNumber),
		DocumentExpiration: models.NewNullString(req.DocumentExpiration),
		Phone:              models.NewNullString(req.Phone),
		Email:              models.NewNullString(req.Email),
	}
}

// Create inserts a tourist
func (h *TouristHandler) Create(c *gin.Context) {
	var req touristRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tourist := req.toModel()
	if err := h.touristRepo.Create(tourist); err != nil {
		h.logger.WithError(err).Error("Failed to create tourist")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tourist"})
		return
	}

	c.JSON(http.StatusCreated, tourist)
}

// Update replaces a tourist's fields
func (h *TouristHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tourist ID"})
		return
	}

	var req touristRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tourist := req.toModel()
	if err := h.touristRepo.Update(id, tourist); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tourist not found"})
		return
	}

	updated, err := h.touristRepo.GetByID(id)
	if err != nil || updated == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated tourist"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete removes a tourist
func (h *TouristHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tourist ID"})
		return
	}

	if err := h.touristRepo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tourist not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tourist deleted successfully"})
}

// Names returns distinct full names for reservation form autocomplete
func (h *TouristHandler) Names(c *gin.Context) {
	names, err := h.touristRepo.ListNames()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list tourist names")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tourist names"})
		return
	}

	if names == nil {
		names = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"names": names})
}
