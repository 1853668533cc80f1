package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// SettingsHandler serves the portal-wide settings
type SettingsHandler struct {
	settingRepo *database.SettingRepository
	logger      *logrus.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingRepo *database.SettingRepository, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingRepo: settingRepo,
		logger:      logger,
	}
}

// Get returns the current settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingRepo.Get()
	if err != nil {
		h.logger.WithError(err).Error("Failed to get settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

// Update replaces the settings. Admin only.
func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if settings.UpcomingDueThresholdDays < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Threshold must not be negative"})
		return
	}

	if err := h.settingRepo.Update(&settings); err != nil {
		h.logger.WithError(err).Error("Failed to update settings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	h.logger.WithField("upcoming_due_threshold_days", settings.UpcomingDueThresholdDays).Info("Settings updated")
	c.JSON(http.StatusOK, &settings)
}
