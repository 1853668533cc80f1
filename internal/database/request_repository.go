package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// RequestRepository handles quote-request database operations
type RequestRepository struct {
	db DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db DB) *RequestRepository {
	return &RequestRepository{
		db: db,
	}
}

// RequestFilter narrows List queries. Zero values mean "no filter".
type RequestFilter struct {
	AgencyID          uuid.NullUUID // scope for sub-agency users
	Country           string
	ReservationStatus string
	PaymentStatus     string
}

const requestColumns = `
	id, agency_id, agency_name, check_in, check_out, adults, children,
	child_ages, infants, flight_needed, flight_class, transfer_needed,
	country, location, hotel, hotel_category, meal, description, target_price,
	reservation_status, payment_status, document_status, created_at, updated_at
`

// List retrieves requests matching f, newest first.
func (r *RequestRepository) List(f RequestFilter) ([]*models.Request, error) {
	clauses := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AgencyID.Valid {
		clauses = append(clauses, "agency_id = "+arg(f.AgencyID.UUID))
	}
	if f.Country != "" {
		clauses = append(clauses, "country = "+arg(f.Country))
	}
	if f.ReservationStatus != "" {
		clauses = append(clauses, "reservation_status = "+arg(f.ReservationStatus))
	}
	if f.PaymentStatus != "" {
		clauses = append(clauses, "payment_status = "+arg(f.PaymentStatus))
	}

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM requests%s ORDER BY created_at DESC", requestColumns, where)

	var requests []*models.Request
	if err := r.db.Select(&requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}

// GetByID retrieves a request by ID
func (r *RequestRepository) GetByID(id uuid.UUID) (*models.Request, error) {
	var request models.Request

	query := fmt.Sprintf("SELECT %s FROM requests WHERE id = $1", requestColumns)

	err := r.db.Get(&request, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return &request, nil
}

// Create inserts a request. Child ages are normalized to the children
// count before the write; the three status axes start at their defaults.
func (r *RequestRepository) Create(request *models.Request) error {
	now := time.Now()
	request.ID = uuid.New()
	request.ChildAges = models.NormalizeChildAges(request.ChildAges, request.Children)
	request.ReservationStatus = models.ReservationInProgress
	request.PaymentStatus = models.PaymentAwaiting
	request.DocumentStatus = models.DocumentsNotReady
	request.CreatedAt = now
	request.UpdatedAt = now

	query := `
		INSERT INTO requests (
			id, agency_id, agency_name, check_in, check_out, adults, children,
			child_ages, infants, flight_needed, flight_class, transfer_needed,
			country, location, hotel, hotel_category, meal, description, target_price,
			reservation_status, payment_status, document_status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	_, err := r.db.Exec(
		query,
		request.ID,
		request.AgencyID,
		request.AgencyName,
		request.CheckIn,
		request.CheckOut,
		request.Adults,
		request.Children,
		request.ChildAges,
		request.Infants,
		request.FlightNeeded,
		request.FlightClass,
		request.TransferNeeded,
		request.Country,
		request.Location,
		request.Hotel,
		request.HotelCategory,
		request.Meal,
		request.Description,
		request.TargetPrice,
		request.ReservationStatus,
		request.PaymentStatus,
		request.DocumentStatus,
		request.CreatedAt,
		request.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

// UpdateStatuses sets the reservation and payment status axes. The
// document status axis is excluded: it moves only through document upload.
func (r *RequestRepository) UpdateStatuses(id uuid.UUID, reservationStatus, paymentStatus string) error {
	query := `
		UPDATE requests
		SET reservation_status = $1,
		    payment_status = $2,
		    updated_at = $3
		WHERE id = $4
	`

	result, err := r.db.Exec(query, reservationStatus, paymentStatus, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update request statuses: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("request not found")
	}

	return nil
}

// SetDocumentStatus sets the document axis. Called by the document upload
// path, never from a direct client edit.
func (r *RequestRepository) SetDocumentStatus(id uuid.UUID, status string) error {
	query := `UPDATE requests SET document_status = $1, updated_at = $2 WHERE id = $3`

	_, err := r.db.Exec(query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set document status: %w", err)
	}

	return nil
}

// ListComments retrieves a request's conversation thread in chronological order.
func (r *RequestRepository) ListComments(requestID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment

	query := `
		SELECT id, request_id, user_id, user_name, user_role, text, created_at
		FROM request_comments
		WHERE request_id = $1
		ORDER BY created_at ASC
	`

	if err := r.db.Select(&comments, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	return comments, nil
}

// CreateComment appends a comment to a request's thread.
func (r *RequestRepository) CreateComment(comment *models.Comment) error {
	comment.ID = uuid.New()
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO request_comments (id, request_id, user_id, user_name, user_role, text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		comment.ID,
		comment.RequestID,
		comment.UserID,
		comment.UserName,
		comment.UserRole,
		comment.Text,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// ListDocuments retrieves a request's documents, newest first.
func (r *RequestRepository) ListDocuments(requestID uuid.UUID) ([]*models.Document, error) {
	var documents []*models.Document

	query := `
		SELECT id, request_id, filename, stored_name, content_type, size, uploaded_at
		FROM request_documents
		WHERE request_id = $1
		ORDER BY uploaded_at DESC
	`

	if err := r.db.Select(&documents, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return documents, nil
}

// GetDocumentByID retrieves a single document record.
func (r *RequestRepository) GetDocumentByID(id uuid.UUID) (*models.Document, error) {
	var document models.Document

	query := `
		SELECT id, request_id, filename, stored_name, content_type, size, uploaded_at
		FROM request_documents
		WHERE id = $1
	`

	err := r.db.Get(&document, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return &document, nil
}

// CreateDocument records an uploaded file and flips the parent request's
// document status to ready.
func (r *RequestRepository) CreateDocument(document *models.Document) error {
	document.ID = uuid.New()
	document.UploadedAt = time.Now()

	query := `
		INSERT INTO request_documents (id, request_id, filename, stored_name, content_type, size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		document.ID,
		document.RequestID,
		document.Filename,
		document.StoredName,
		document.ContentType,
		document.Size,
		document.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	if err := r.SetDocumentStatus(document.RequestID, models.DocumentsReady); err != nil {
		return err
	}

	return nil
}
