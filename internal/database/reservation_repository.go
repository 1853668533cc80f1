package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/fourtravels/b2b-backend/internal/models"
)

// ReservationRepository handles reservation database operations
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new reservation repository
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{
		db: db,
	}
}

// ReservationFilter narrows List queries. Zero values mean "no filter".
type ReservationFilter struct {
	AgencyID    uuid.NullUUID // scope for sub-agency users
	Search      string        // matches agency name, description, tourist names
	ServiceType string
	DateFrom    string // date_of_service lower bound, yyyy-mm-dd
	DateTo      string // date_of_service upper bound, yyyy-mm-dd
	Page        int
	Limit       int
}

const reservationColumns = `
	id, agency_id, agency_name, date_of_issue, service_type, date_of_service,
	description, tourist_names, price, prepayment_amount, rest_amount_of_payment,
	last_date_of_payment, actual_date_of_prepayment, actual_date_of_full_payment,
	supplier_id, supplier_name, supplier_price, supplier_prepayment_amount,
	revenue, revenue_percentage, created_at, updated_at
`

// buildFilter renders the WHERE clause and arguments for f.
func buildFilter(f ReservationFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.AgencyID.Valid {
		clauses = append(clauses, "agency_id = "+arg(f.AgencyID.UUID))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		clauses = append(clauses, fmt.Sprintf(
			"(agency_name ILIKE %s OR description ILIKE %s OR tourist_names ILIKE %s)", p, p, p))
	}
	if f.ServiceType != "" {
		clauses = append(clauses, "service_type = "+arg(f.ServiceType))
	}
	if f.DateFrom != "" {
		clauses = append(clauses, "date_of_service >= "+arg(f.DateFrom))
	}
	if f.DateTo != "" {
		clauses = append(clauses, "date_of_service <= "+arg(f.DateTo))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// List retrieves a page of reservations matching f, newest issue first,
// together with the total number of matching rows.
func (r *ReservationRepository) List(f ReservationFilter) ([]*models.Reservation, int, error) {
	where, args := buildFilter(f)

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM reservations"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 25
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	query := fmt.Sprintf(
		"SELECT %s FROM reservations%s ORDER BY date_of_issue DESC, created_at DESC LIMIT $%d OFFSET $%d",
		reservationColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, offset)

	var reservations []*models.Reservation
	if err := r.db.Select(&reservations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}

	return reservations, total, nil
}

// ListAll retrieves every reservation matching f without pagination, for
// the spreadsheet export.
func (r *ReservationRepository) ListAll(f ReservationFilter) ([]*models.Reservation, error) {
	where, args := buildFilter(f)

	query := fmt.Sprintf(
		"SELECT %s FROM reservations%s ORDER BY date_of_issue DESC, created_at DESC",
		reservationColumns, where)

	var reservations []*models.Reservation
	if err := r.db.Select(&reservations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list reservations for export: %w", err)
	}

	return reservations, nil
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(id uuid.UUID) (*models.Reservation, error) {
	var reservation models.Reservation

	query := fmt.Sprintf("SELECT %s FROM reservations WHERE id = $1", reservationColumns)

	err := r.db.Get(&reservation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}

	return &reservation, nil
}

// Create inserts a reservation. The rest amount is always recomputed from
// price and prepayment; any caller-supplied value is discarded.
func (r *ReservationRepository) Create(reservation *models.Reservation) error {
	now := time.Now()
	reservation.ID = uuid.New()
	reservation.Price = models.RoundCurrency(reservation.Price)
	reservation.PrepaymentAmount = models.RoundCurrency(reservation.PrepaymentAmount)
	reservation.RestAmountOfPayment = models.RestAmount(reservation.Price, reservation.PrepaymentAmount)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	query := `
		INSERT INTO reservations (
			id, agency_id, agency_name, date_of_issue, service_type, date_of_service,
			description, tourist_names, price, prepayment_amount, rest_amount_of_payment,
			last_date_of_payment, actual_date_of_prepayment, actual_date_of_full_payment,
			supplier_id, supplier_name, supplier_price, supplier_prepayment_amount,
			revenue, revenue_percentage, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			$12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22
		)
	`

	_, err := r.db.Exec(
		query,
		reservation.ID,
		reservation.AgencyID,
		reservation.AgencyName,
		reservation.DateOfIssue,
		reservation.ServiceType,
		reservation.DateOfService,
		reservation.Description,
		reservation.TouristNames,
		reservation.Price,
		reservation.PrepaymentAmount,
		reservation.RestAmountOfPayment,
		reservation.LastDateOfPayment,
		reservation.ActualDateOfPrepayment,
		reservation.ActualDateOfFullPayment,
		reservation.SupplierID,
		reservation.SupplierName,
		reservation.SupplierPrice,
		reservation.SupplierPrepayment,
		reservation.Revenue,
		reservation.RevenuePercentage,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

// ReservationUpdate carries the optional fields of a reservation update.
// Nil fields are left untouched. There is no RestAmount field: the rest
// amount is recomputed whenever Price or PrepaymentAmount changes.
type ReservationUpdate struct {
	AgencyID                *uuid.UUID
	AgencyName              *string
	DateOfIssue             *string
	ServiceType             *string
	DateOfService           *string
	Description             *string
	TouristNames            *string
	Price                   *float64
	PrepaymentAmount        *float64
	LastDateOfPayment       *string
	ActualDateOfPrepayment  *string
	ActualDateOfFullPayment *string
	SupplierID              *uuid.UUID
	SupplierName            *string
	SupplierPrice           *float64
	SupplierPrepayment      *float64
	Revenue                 *float64
	RevenuePercentage       *float64
}

// Update applies the non-nil fields of upd to the reservation and
// recomputes the rest amount from the merged price and prepayment.
// Returns the updated reservation, or nil when the row does not exist.
func (r *ReservationRepository) Update(id uuid.UUID, upd ReservationUpdate) (*models.Reservation, error) {
	existing, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	applyReservationUpdate(existing, upd)
	existing.RestAmountOfPayment = models.RestAmount(existing.Price, existing.PrepaymentAmount)
	existing.UpdatedAt = time.Now()

	query := `
		UPDATE reservations SET
			agency_id = $1, agency_name = $2, date_of_issue = $3, service_type = $4,
			date_of_service = $5, description = $6, tourist_names = $7,
			price = $8, prepayment_amount = $9, rest_amount_of_payment = $10,
			last_date_of_payment = $11, actual_date_of_prepayment = $12,
			actual_date_of_full_payment = $13, supplier_id = $14, supplier_name = $15,
			supplier_price = $16, supplier_prepayment_amount = $17,
			revenue = $18, revenue_percentage = $19, updated_at = $20
		WHERE id = $21
	`

	_, err = r.db.Exec(
		query,
		existing.AgencyID,
		existing.AgencyName,
		existing.DateOfIssue,
		existing.ServiceType,
		existing.DateOfService,
		existing.Description,
		existing.TouristNames,
		existing.Price,
		existing.PrepaymentAmount,
		existing.RestAmountOfPayment,
		existing.LastDateOfPayment,
		existing.ActualDateOfPrepayment,
		existing.ActualDateOfFullPayment,
		existing.SupplierID,
		existing.SupplierName,
		existing.SupplierPrice,
		existing.SupplierPrepayment,
		existing.Revenue,
		existing.RevenuePercentage,
		existing.UpdatedAt,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	return existing, nil
}

func applyReservationUpdate(res *models.Reservation, upd ReservationUpdate) {
	if upd.AgencyID != nil {
		res.AgencyID = *upd.AgencyID
	}
	if upd.AgencyName != nil {
		res.AgencyName = *upd.AgencyName
	}
	if upd.DateOfIssue != nil {
		res.DateOfIssue = *upd.DateOfIssue
	}
	if upd.ServiceType != nil {
		res.ServiceType = *upd.ServiceType
	}
	if upd.DateOfService != nil {
		res.DateOfService = *upd.DateOfService
	}
	if upd.Description != nil {
		res.Description = *upd.Description
	}
	if upd.TouristNames != nil {
		res.TouristNames = *upd.TouristNames
	}
	if upd.Price != nil {
		res.Price = models.RoundCurrency(*upd.Price)
	}
	if upd.PrepaymentAmount != nil {
		res.PrepaymentAmount = models.RoundCurrency(*upd.PrepaymentAmount)
	}
	if upd.LastDateOfPayment != nil {
		res.LastDateOfPayment = models.NewNullString(*upd.LastDateOfPayment)
	}
	if upd.ActualDateOfPrepayment != nil {
		res.ActualDateOfPrepayment = models.NewNullString(*upd.ActualDateOfPrepayment)
	}
	if upd.ActualDateOfFullPayment != nil {
		res.ActualDateOfFullPayment = models.NewNullString(*upd.ActualDateOfFullPayment)
	}
	if upd.SupplierID != nil {
		res.SupplierID = uuid.NullUUID{UUID: *upd.SupplierID, Valid: true}
	}
	if upd.SupplierName != nil {
		res.SupplierName = models.NewNullString(*upd.SupplierName)
	}
	if upd.SupplierPrice != nil {
		res.SupplierPrice = models.NullFloat{NullFloat64: sql.NullFloat64{Float64: *upd.SupplierPrice, Valid: true}}
	}
	if upd.SupplierPrepayment != nil {
		res.SupplierPrepayment = models.NullFloat{NullFloat64: sql.NullFloat64{Float64: *upd.SupplierPrepayment, Valid: true}}
	}
	if upd.Revenue != nil {
		res.Revenue = models.NullFloat{NullFloat64: sql.NullFloat64{Float64: *upd.Revenue, Valid: true}}
	}
	if upd.RevenuePercentage != nil {
		res.RevenuePercentage = models.NullFloat{NullFloat64: sql.NullFloat64{Float64: *upd.RevenuePercentage, Valid: true}}
	}
}

// MarkPaid zeroes the rest amount and stamps the actual full-payment date.
func (r *ReservationRepository) MarkPaid(id uuid.UUID, paidOn string) error {
	query := `
		UPDATE reservations
		SET rest_amount_of_payment = 0,
		    actual_date_of_full_payment = $1,
		    updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, paidOn, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reservation paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reservation not found")
	}

	return nil
}

// Delete removes a reservation
func (r *ReservationRepository) Delete(id uuid.UUID) error {
	result, err := r.db.Exec(`DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("reservation not found")
	}

	return nil
}

// Statistics holds reservation aggregates. Revenue is populated for
// admin queries only.
type Statistics struct {
	TotalReservations int     `json:"total_reservations" db:"total_reservations"`
	TotalPrice        float64 `json:"total_price" db:"total_price"`
	TotalPrepayment   float64 `json:"total_prepayment" db:"total_prepayment"`
	TotalRest         float64 `json:"total_rest" db:"total_rest"`
	TotalRevenue      float64 `json:"total_revenue,omitempty" db:"total_revenue"`
}

// GetStatistics aggregates reservations, optionally scoped to one agency.
func (r *ReservationRepository) GetStatistics(agencyID uuid.NullUUID) (*Statistics, error) {
	query := `
		SELECT COUNT(*)                                    AS total_reservations,
		       COALESCE(SUM(price), 0)                     AS total_price,
		       COALESCE(SUM(prepayment_amount), 0)         AS total_prepayment,
		       COALESCE(SUM(rest_amount_of_payment), 0)    AS total_rest,
		       COALESCE(SUM(revenue), 0)                   AS total_revenue
		FROM reservations
	`
	args := []interface{}{}
	if agencyID.Valid {
		query += " WHERE agency_id = $1"
		args = append(args, agencyID.UUID)
	}

	var stats Statistics
	if err := r.db.Get(&stats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	stats.TotalPrice = models.RoundCurrency(stats.TotalPrice)
	stats.TotalPrepayment = models.RoundCurrency(stats.TotalPrepayment)
	stats.TotalRest = models.RoundCurrency(stats.TotalRest)
	stats.TotalRevenue = models.RoundCurrency(stats.TotalRevenue)

	return &stats, nil
}
