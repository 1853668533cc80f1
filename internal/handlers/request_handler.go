package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fourtravels/b2b-backend/internal/config"
	"github.com/fourtravels/b2b-backend/internal/database"
	"github.com/fourtravels/b2b-backend/internal/middleware"
	"github.com/fourtravels/b2b-backend/internal/models"
	"github.com/fourtravels/b2b-backend/internal/status"
)

// RequestHandler handles quote-request HTTP requests: the request records
// themselves, their comment threads, and their document attachments.
type RequestHandler struct {
	requestRepo *database.RequestRepository
	uploads     config.UploadsConfig
	logger      *logrus.Logger
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestRepo *database.RequestRepository, uploads config.UploadsConfig, logger *logrus.Logger) *RequestHandler {
	return &RequestHandler{
		requestRepo: requestRepo,
		uploads:     uploads,
		logger:      logger,
	}
}

// requestResponse decorates a request with icons for its three status axes
type requestResponse struct {
	*models.Request
	StatusIcons status.Icons `json:"status_icons"`
	TotalPax    int          `json:"total_pax"`
}

func decorateRequest(r *models.Request) requestResponse {
	return requestResponse{
		Request:     r,
		StatusIcons: status.IconsFor(r.ReservationStatus, r.PaymentStatus, r.DocumentStatus),
		TotalPax:    r.TotalPax(),
	}
}

// List returns requests with status icons. Sub-agency callers see only
// their own; country and status filters are applied in SQL.
func (h *RequestHandler) List(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	f := database.RequestFilter{
		Country:           c.Query("country"),
		ReservationStatus: c.Query("reservation_status"),
		PaymentStatus:     c.Query("payment_status"),
	}
	if userCtx.Role != models.RoleAdmin {
		f.AgencyID = uuid.NullUUID{UUID: userCtx.UserID, Valid: true}
	}

	requests, err := h.requestRepo.List(f)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	decorated := make([]requestResponse, 0, len(requests))
	for _, r := range requests {
		decorated = append(decorated, decorateRequest(r))
	}

	c.JSON(http.StatusOK, gin.H{"requests": decorated})
}

// getOwned loads a request and enforces the sub-agency ownership rule.
// Writes the error response itself and returns nil when access is denied.
func (h *RequestHandler) getOwned(c *gin.Context, userCtx middleware.UserContext) *models.Request {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return nil
	}

	request, err := h.requestRepo.GetByID(id)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get request"})
		return nil
	}

	if request == nil || (userCtx.Role != models.RoleAdmin && request.AgencyID != userCtx.UserID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return nil
	}

	return request
}

// Get returns one request
func (h *RequestHandler) Get(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	request := h.getOwned(c, userCtx)
	if request == nil {
		return
	}

	c.JSON(http.StatusOK, decorateRequest(request))
}

// requestCreateRequest carries a new quote request
type requestCreateRequest struct {
	CheckIn        string   `json:"check_in" binding:"required"`
	CheckOut       string   `json:"check_out" binding:"required"`
	Adults         int      `json:"adults"`
	Children       int      `json:"children"`
	ChildAges      []int64  `json:"child_ages"`
	Infants        int      `json:"infants"`
	FlightNeeded   bool     `json:"flight_needed"`
	FlightClass    string   `json:"flight_class"`
	TransferNeeded bool     `json:"transfer_needed"`
	Country        string   `json:"country" binding:"required"`
	Location       string   `json:"location"`
	Hotel          string   `json:"hotel"`
	HotelCategory  int      `json:"hotel_category"`
	Meal           string   `json:"meal"`
	Description    string   `json:"description"`
	TargetPrice    *float64 `json:"target_price"`
}

// Create submits a new quote request for the caller's agency
func (h *RequestHandler) Create(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req requestCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if req.Adults < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one adult is required"})
		return
	}
	if req.Children < 0 || req.Infants < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pax counts must not be negative"})
		return
	}

	if req.FlightClass != "" && !models.ValidFlightClass(req.FlightClass) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flight class"})
		return
	}

	if req.Meal != "" && !models.ValidMealPlan(req.Meal) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid meal plan"})
		return
	}

	if req.HotelCategory != 0 && (req.HotelCategory < 1 || req.HotelCategory > 5) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hotel category must be between 1 and 5"})
		return
	}

	request := &models.Request{
		AgencyID:       userCtx.UserID,
		AgencyName:     userCtx.AgencyName,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		Adults:         req.Adults,
		Children:       req.Children,
		ChildAges:      req.ChildAges,
		Infants:        req.Infants,
		FlightNeeded:   req.FlightNeeded,
		FlightClass:    req.FlightClass,
		TransferNeeded: req.TransferNeeded,
		Country:        req.Country,
		Location:       req.Location,
		Hotel:          models.NewNullString(req.Hotel),
		HotelCategory:  req.HotelCategory,
		Meal:           req.Meal,
		Description:    req.Description,
	}
	if req.TargetPrice != nil {
		request.TargetPrice = models.NewNullFloat(*req.TargetPrice)
	}

	if err := h.requestRepo.Create(request); err != nil {
		h.logger.WithError(err).Error("Failed to create request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create request"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id": request.ID,
		"agency_id":  request.AgencyID,
		"country":    request.Country,
	}).Info("Request created")

	c.JSON(http.StatusCreated, decorateRequest(request))
}

// statusUpdateRequest moves the reservation/payment axes. The document
// axis is deliberately absent: it changes only through document upload.
type statusUpdateRequest struct {
	ReservationStatus string `json:"reservation_status" binding:"required"`
	PaymentStatus     string `json:"payment_status" binding:"required"`
}

// UpdateStatuses moves a request along its reservation and payment axes.
// Admin only.
func (h *RequestHandler) UpdateStatuses(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	if !models.ValidReservationStatus(req.ReservationStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation status"})
		return
	}
	if !models.ValidPaymentStatus(req.PaymentStatus) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment status"})
		return
	}

	if err := h.requestRepo.UpdateStatuses(id, req.ReservationStatus, req.PaymentStatus); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	request, err := h.requestRepo.GetByID(id)
	if err != nil || request == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load updated request"})
		return
	}

	c.JSON(http.StatusOK, decorateRequest(request))
}

// ListComments returns a request's conversation thread
func (h *RequestHandler) ListComments(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	request := h.getOwned(c, userCtx)
	if request == nil {
		return
	}

	comments, err := h.requestRepo.ListComments(request.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

type commentCreateRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateComment appends a comment to a request's thread. Both sides of the
// conversation use this; the author is stamped from the token.
func (h *RequestHandler) CreateComment(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	request := h.getOwned(c, userCtx)
	if request == nil {
		return
	}

	var req commentCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	comment := &models.Comment{
		RequestID: request.ID,
		UserID:    userCtx.UserID,
		UserName:  userCtx.AgencyName,
		UserRole:  userCtx.Role,
		Text:      req.Text,
	}

	if err := h.requestRepo.CreateComment(comment); err != nil {
		h.logger.WithError(err).Error("Failed to create comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// ListDocuments returns a request's document attachments
func (h *RequestHandler) ListDocuments(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	request := h.getOwned(c, userCtx)
	if request == nil {
		return
	}

	documents, err := h.requestRepo.ListDocuments(request.ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list documents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list documents"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// allowedExtension checks the upload whitelist
func (h *RequestHandler) allowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range h.uploads.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// UploadDocument attaches a file to a request and flips its document
// status to ready. Admin only.
func (h *RequestHandler) UploadDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	request, err := h.requestRepo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}
	if request == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}

	if file.Size > int64(h.uploads.MaxSizeMB)*1024*1024 {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File exceeds the %d MB limit", h.uploads.MaxSizeMB)})
		return
	}

	if !h.allowedExtension(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type is not allowed"})
		return
	}

	if err := os.MkdirAll(h.uploads.Dir, 0o755); err != nil {
		h.logger.WithError(err).Error("Failed to create uploads directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	// Stored under a random name so client filenames never touch the disk
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploads.Dir, storedName)); err != nil {
		h.logger.WithError(err).Error("Failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	document := &models.Document{
		RequestID:   request.ID,
		Filename:    filepath.Base(file.Filename),
		StoredName:  storedName,
		ContentType: contentType,
		Size:        file.Size,
	}

	if err := h.requestRepo.CreateDocument(document); err != nil {
		h.logger.WithError(err).Error("Failed to record document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload document"})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"request_id":  request.ID,
		"document_id": document.ID,
		"filename":    document.Filename,
		"size":        document.Size,
	}).Info("Document uploaded")

	c.JSON(http.StatusCreated, document)
}

// DownloadDocument streams a document back under its original filename
func (h *RequestHandler) DownloadDocument(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	request := h.getOwned(c, userCtx)
	if request == nil {
		return
	}

	docID, err := uuid.Parse(c.Param("docId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	document, err := h.requestRepo.GetDocumentByID(docID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to download document"})
		return
	}
	if document == nil || document.RequestID != request.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	path := filepath.Join(h.uploads.Dir, document.StoredName)
	if _, err := os.Stat(path); err != nil {
		h.logger.WithField("document_id", document.ID).Error("Document file missing on disk")
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+document.Filename+`"`)
	c.Header("Content-Type", document.ContentType)
	c.File(path)
}
