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

// StatisticsHandler serves reservation aggregates for the dashboard
type StatisticsHandler struct {
	reservationRepo *database.ReservationRepository
	logger          *logrus.Logger
}

// NewStatisticsHandler creates a new statistics handler
func NewStatisticsHandler(reservationRepo *database.ReservationRepository, logger *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// Get returns reservation totals. Sub-agency callers see their own slice
// and no revenue figure.
func (h *StatisticsHandler) Get(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	isAdmin := userCtx.Role == models.RoleAdmin

	var agencyID uuid.NullUUID
	if !isAdmin {
		agencyID = uuid.NullUUID{UUID: userCtx.UserID, Valid: true}
	}

	stats, err := h.reservationRepo.GetStatistics(agencyID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get statistics")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get statistics"})
		return
	}

	if !isAdmin {
		stats.TotalRevenue = 0
	}

	c.JSON(http.StatusOK, stats)
}
