package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/services"
	"github.com/fourtravels/b2b-backend/internal/status"
)

// ReservationHandler handles reservation HTTP requests
type ReservationHandler struct {
	reservationRepo *database.ReservationRepository
	userRepo        *database.UserRepository
	supplierRepo    *database.SupplierRepository
	settingRepo     *database.SettingRepository
	exportService   *services.ExportService
	logger          *logrus.Logger
}

// NewReservationHandler creates a new reservation handler
func NewReservationHandler(
	reservationRepo *database.ReservationRepository,
	userRepo *database.UserRepository,
	supplierRepo *database.SupplierRepository,
	settingRepo *database.SettingRepository,
	exportService *services.ExportService,
	logger *logrus.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		supplierRepo:    supplierRepo,
		settingRepo:     settingRepo,
		exportService:   exportService,
		logger:          logger,
	}
}

// reservationResponse decorates a reservation with its derived payment badge
type reservationResponse struct {
	*models.Reservation
	PaymentBadge status.PaymentBadge `json:"payment_badge"`
}

// thresholdDays loads the upcoming-due threshold, falling back to the
// default when settings cannot be read.
func (h *ReservationHandler) thresholdDays() int {
	settings, err := h.settingRepo.Get()
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load settings, using default threshold")
		return models.DefaultUpcomingDueThresholdDays
	}
	return settings.UpcomingDueThresholdDays
}

// decorate builds the response shape for one reservation, stripping the
// supplier fields for non-admin callers.
func decorate(r *models.Reservation, isAdmin bool, threshold int, now time.Time) reservationResponse {
	if !isAdmin {
		r.StripSupplierFields()
	}
	badge := status.PaymentFor(r.RestAmountOfPayment, r.PrepaymentAmount, r.LastDateOfPayment.ValueOrEmpty(), threshold, now)
	return reservationResponse{Reservation: r, PaymentBadge: badge}
}

// listFilter builds the SQL-side filter from query params, scoped to the
// caller's agency for sub-agency users.
func listFilter(c *gin.Context, userCtx middleware.UserContext) database.ReservationFilter {
	f := database.ReservationFilter{
		Search:      c.Query("search"),
		ServiceType: c.Query("service_type"),
		DateFrom:    c.Query("date_from"),
		DateTo:      c.Query("date_to"),
	}
	if userCtx.Role != models.RoleAdmin {
		f.AgencyID = uuid.NullUUID{UUID: userCtx.UserID, Valid: true}
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		f.Limit = limit
	}
	return f
}

// List returns a page of reservations with derived payment badges.
//
// The payment_status query param filters on the derived badge. Because the
// badge is computed, not stored, that filter is applied after fetching the
// full matching set and the page is cut from the filtered slice.
func (h *ReservationHandler) List(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	isAdmin := userCtx.Role == models.RoleAdmin

	f := listFilter(c, userCtx)
	threshold := h.thresholdDays()
	now := time.Now()

	paymentStatus := c.Query("payment_status")

	var (
		page  = f.Page
		limit = f.Limit
	)
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 25
	}

	var decorated []reservationResponse
	var total int

	if paymentStatus == "" {
		reservations, count, err := h.reservationRepo.List(f)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list reservations")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
			return
		}
		total = count
		decorated = make([]reservationResponse, 0, len(reservations))
		for _, r := range reservations {
			decorated = append(decorated, decorate(r, isAdmin, threshold, now))
		}
	} else {
		reservations, err := h.reservationRepo.ListAll(f)
		if err != nil {
			h.logger.WithError(err).Error("Failed to list reservations")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list reservations"})
			return
		}

		matched := make([]reservationResponse, 0, len(reservations))
		for _, r := range reservations {
			resp := decorate(r, isAdmin, threshold, now)
			if string(resp.PaymentBadge.Status) == paymentStatus {
				matched = append(matched, resp)
			}
		}
		total = len(matched)

		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		decorated = matched[start:end]
	}

	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}

	c.JSON(http.StatusOK, gin.H{
		"reservations": decorated,
		"total":        total,
		"page":         page,
		"limit":        limit,
		"pages":        pages,
	})
}

// Get returns one reservation. Sub-agency users can only read their own.
func (h *ReservationHandler) Get(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	reservation, err := h.reservationRepo.GetByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get reservation"})
		return
	}
	if reservation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	isAdmin := userCtx.Role == models.RoleAdmin
	if !isAdmin && reservation.AgencyID != userCtx.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	c.JSON(http.StatusOK, decorate(reservation, isAdmin, h.thresholdDays(), time.Now()))
}

// reservationCreateRequest carries a new reservation. Create is admin only,
// so the supplier fields are accepted directly.
type reservationCreateRequest struct {
	AgencyID                uuid.UUID  `json:"agency_id" binding:"required"`
	DateOfIssue             string     `json:"date_of_issue" binding:"required"`
	ServiceType             string     `json:"service_type" binding:"required"`
	DateOfService           string     `json:"date_of_service" binding:"required"`
	Description             string     `json:"description"`
	TouristNames            string     `json:"tourist_names"`
	Price                   float64    `json:"price"`
	PrepaymentAmount        float64    `json:"prepayment_amount"`
	LastDateOfPayment       string     `json:"last_date_of_payment"`
	ActualDateOfPrepayment  string     `json:"actual_date_of_prepayment"`
	ActualDateOfFullPayment string     `json:"actual_date_of_full_payment"`
	SupplierID              *uuid.UUID `json:"supplier_id"`
	SupplierPrice           *float64   `json:"supplier_price"`
	SupplierPrepayment      *float64   `json:"supplier_prepayment_amount"`
	Revenue                 *float64   `json:"revenue"`
	RevenuePercentage       *float64   `json:"revenue_percentage"`
}

// Create inserts a reservation. Admin only.
func (h *ReservationHandler) Create(c *gin.Context) {
	var req reservationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !models.ValidServiceType(req.ServiceType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service type"})
		return
	}

	agency, err := h.userRepo.GetUserByID(req.AgencyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}
	if agency == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown agency"})
		return
	}

	reservation := &models.Reservation{
		AgencyID:                agency.ID,
		AgencyName:              agency.AgencyName,
		DateOfIssue:             req.DateOfIssue,
		ServiceType:             req.ServiceType,
		DateOfService:           req.DateOfService,
		Description:             req.Description,
		TouristNames:            req.TouristNames,
		Price:                   req.Price,
		PrepaymentAmount:        req.PrepaymentAmount,
		LastDateOfPayment:       models.NewNullString(req.LastDateOfPayment),
		ActualDateOfPrepayment:  models.NewNullString(req.ActualDateOfPrepayment),
		ActualDateOfFullPayment: models.NewNullString(req.ActualDateOfFullPayment),
	}

	if req.SupplierID != nil {
		supplier, err := h.supplierRepo.GetByID(*req.SupplierID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
			return
		}
		if supplier == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown supplier"})
			return
		}
		reservation.SupplierID = uuid.NullUUID{UUID: supplier.ID, Valid: true}
		reservation.SupplierName = models.NewNullString(supplier.Name)
	}
	if req.SupplierPrice != nil {
		reservation.SupplierPrice = models.NewNullFloat(*req.SupplierPrice)
	}
	if req.SupplierPrepayment != nil {
		reservation.SupplierPrepayment = models.NewNullFloat(*req.SupplierPrepayment)
	}
	if req.Revenue != nil {
		reservation.Revenue = models.NewNullFloat(*req.Revenue)
	}
	if req.RevenuePercentage != nil {
		reservation.RevenuePercentage = models.NewNullFloat(*req.RevenuePercentage)
	}

	if err := h.reservationRepo.Create(reservation); err != nil {
		h.logger.WithError(err).Error("Failed to create reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reservation"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"agency_id":      reservation.AgencyID,
		"service_type":   reservation.ServiceType,
	}).Info("Reservation created")

	c.JSON(http.StatusCreated, decorate(reservation, true, h.thresholdDays(), time.Now()))
}

// reservationUpdateRequest carries a partial reservation update
type reservationUpdateRequest struct {
	AgencyID                *uuid.UUID `json:"agency_id"`
	DateOfIssue             *string    `json:"date_of_issue"`
	ServiceType             *string    `json:"service_type"`
	DateOfService           *string    `json:"date_of_service"`
	Description             *string    `json:"description"`
	TouristNames            *string    `json:"tourist_names"`
	Price                   *float64   `json:"price"`
	PrepaymentAmount        *float64   `json:"prepayment_amount"`
	LastDateOfPayment       *string    `json:"last_date_of_payment"`
	ActualDateOfPrepayment  *string    `json:"actual_date_of_prepayment"`
	ActualDateOfFullPayment *string    `json:"actual_date_of_full_payment"`
	SupplierID              *uuid.UUID `json:"supplier_id"`
	SupplierPrice           *float64   `json:"supplier_price"`
	SupplierPrepayment      *float64   `json:"supplier_prepayment_amount"`
	Revenue                 *float64   `json:"revenue"`
	RevenuePercentage       *float64   `json:"revenue_percentage"`
}

// Update applies a partial update. Admin only. The rest amount is always
// recomputed server-side.
func (h *ReservationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req reservationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.ServiceType != nil && !models.ValidServiceType(*req.ServiceType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service type"})
		return
	}

	upd := database.ReservationUpdate{
		DateOfIssue:             req.DateOfIssue,
		ServiceType:             req.ServiceType,
		DateOfService:           req.DateOfService,
		Description:             req.Description,
		TouristNames:            req.TouristNames,
		Price:                   req.Price,
		PrepaymentAmount:        req.PrepaymentAmount,
		LastDateOfPayment:       req.LastDateOfPayment,
		ActualDateOfPrepayment:  req.ActualDateOfPrepayment,
		ActualDateOfFullPayment: req.ActualDateOfFullPayment,
		SupplierPrice:           req.SupplierPrice,
		SupplierPrepayment:      req.SupplierPrepayment,
		Revenue:                 req.Revenue,
		RevenuePercentage:       req.RevenuePercentage,
	}

	if req.AgencyID != nil {
		agency, err := h.userRepo.GetUserByID(*req.AgencyID)
		if err != nil || agency == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown agency"})
			return
		}
		upd.AgencyID = &agency.ID
		upd.AgencyName = &agency.AgencyName
	}

	if req.SupplierID != nil {
		supplier, err := h.supplierRepo.GetByID(*req.SupplierID)
		if err != nil || supplier == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown supplier"})
			return
		}
		upd.SupplierID = &supplier.ID
		upd.SupplierName = &supplier.Name
	}

	reservation, err := h.reservationRepo.Update(id, upd)
	if err != nil {
		h.logger.WithError(err).Error("Failed to update reservation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update reservation"})
		return
	}
	if reservation == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	c.JSON(http.StatusOK, decorate(reservation, true, h.thresholdDays(), time.Now()))
}

// Delete removes a reservation. Admin only.
func (h *ReservationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	if err := h.reservationRepo.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	h.logger.WithField("reservation_id", id).Info("Reservation deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}

// markPaidRequest optionally overrides the full-payment date
type markPaidRequest struct {
	PaidOn string `json:"paid_on"`
}

// MarkPaid settles a reservation: rest drops to zero and the actual
// full-payment date is stamped. Admin only.
func (h *ReservationHandler) MarkPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation ID"})
		return
	}

	var req markPaidRequest
	// Body is optional; an empty body means "paid today"
	_ = c.ShouldBindJSON(&req)

	paidOn := req.PaidOn
	if paidOn == "" {
		paidOn = time.Now().Format(status.DateLayout)
	}

	if err := h.reservationRepo.MarkPaid(id, paidOn); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reservation not found"})
		return
	}

	reservation, err := h.reservationRepo.GetByID(id)
	if err != nil || reservation == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated reservation"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"paid_on":        paidOn,
	}).Info("Reservation marked paid")

	c.JSON(http.StatusOK, decorate(reservation, true, h.thresholdDays(), time.Now()))
}

// Export streams the filtered reservation list as an xlsx workbook. The
// supplier and revenue columns appear for admin callers only.
func (h *ReservationHandler) Export(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)
	isAdmin := userCtx.Role == models.RoleAdmin

	f := listFilter(c, userCtx)
	threshold := h.thresholdDays()
	now := time.Now()

	reservations, err := h.reservationRepo.ListAll(f)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load reservations for export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reservations"})
		return
	}

	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		matched := make([]*models.Reservation, 0, len(reservations))
		for _, r := range reservations {
			badge := status.PaymentFor(r.RestAmountOfPayment, r.PrepaymentAmount, r.LastDateOfPayment.ValueOrEmpty(), threshold, now)
			if string(badge.Status) == paymentStatus {
				matched = append(matched, r)
			}
		}
		reservations = matched
	}

	data, err := h.exportService.ExportReservations(reservations, isAdmin, threshold, now)
	if err != nil {
		h.logger.WithError(err).Error("Failed to render export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export reservations"})
		return
	}

	filename := h.exportService.ExportFilename(now)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
