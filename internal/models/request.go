package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Reservation status values for a request (quote workflow).
const (
	ReservationInProgress = "in_progress"
	ReservationBooked     = "booked"
	ReservationConfirmed  = "confirmed"
	ReservationCancelled  = "cancelled"
)

// Payment status values for a request.
const (
	PaymentAwaiting      = "awaiting_payment"
	PaymentPaid          = "paid"
	PaymentPartiallyPaid = "partially_paid"
	PaymentNotPaid       = "not_paid"
)

// Document status values. Set exclusively by the backend as a side effect
// of document upload, never by direct client edit.
const (
	DocumentsReady    = "documents_ready"
	DocumentsNotReady = "documents_not_ready"
)

// Flight class values.
const (
	FlightEconomy  = "economy"
	FlightBusiness = "business"
	FlightFirst    = "first"
)

// MealPlans enumerates the accepted hotel meal-plan codes.
var MealPlans = []string{"BB", "HB", "FB", "AI", "UAI"}

// Request is a travel quote/inquiry submitted by an agency, tracked
// through three independent status axes until resolved.
type Request struct {
	ID                uuid.UUID     `json:"id" db:"id"`
	AgencyID          uuid.UUID     `json:"agency_id" db:"agency_id"`
	AgencyName        string        `json:"agency_name" db:"agency_name"`
	CheckIn           string        `json:"check_in" db:"check_in"`
	CheckOut          string        `json:"check_out" db:"check_out"`
	Adults            int           `json:"adults" db:"adults"`
	Children          int           `json:"children" db:"children"`
	ChildAges         pq.Int64Array `json:"child_ages" db:"child_ages"`
	Infants           int           `json:"infants" db:"infants"`
	FlightNeeded      bool          `json:"flight_needed" db:"flight_needed"`
	FlightClass       string        `json:"flight_class" db:"flight_class"`
	TransferNeeded    bool          `json:"transfer_needed" db:"transfer_needed"`
	Country           string        `json:"country" db:"country"`
	Location          string        `json:"location" db:"location"`
	Hotel             NullString    `json:"hotel,omitempty" db:"hotel"`
	HotelCategory     int           `json:"hotel_category" db:"hotel_category"`
	Meal              string        `json:"meal" db:"meal"`
	Description       string        `json:"description" db:"description"`
	TargetPrice       NullFloat     `json:"target_price" db:"target_price"`
	ReservationStatus string        `json:"reservation_status" db:"reservation_status"`
	PaymentStatus     string        `json:"payment_status" db:"payment_status"`
	DocumentStatus    string        `json:"document_status" db:"document_status"`
	CreatedAt         time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at" db:"updated_at"`
}

// TotalPax returns the party size, used for display only.
func (r *Request) TotalPax() int {
	return r.Adults + r.Children + r.Infants
}

// NormalizeChildAges resizes ages to match count: the first min(len, count)
// entries are preserved, new slots are zero-filled, excess entries dropped.
func NormalizeChildAges(ages []int64, count int) []int64 {
	if count < 0 {
		count = 0
	}
	normalized := make([]int64, count)
	copy(normalized, ages)
	return normalized
}

// ValidReservationStatus reports whether s is an enumerated reservation status.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationInProgress, ReservationBooked, ReservationConfirmed, ReservationCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s is an enumerated payment status.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentAwaiting, PaymentPaid, PaymentPartiallyPaid, PaymentNotPaid:
		return true
	}
	return false
}

// ValidFlightClass reports whether s is an enumerated flight class.
func ValidFlightClass(s string) bool {
	switch s {
	case FlightEconomy, FlightBusiness, FlightFirst:
		return true
	}
	return false
}

// ValidMealPlan reports whether s is an accepted meal-plan code.
func ValidMealPlan(s string) bool {
	for _, m := range MealPlans {
		if m == s {
			return true
		}
	}
	return false
}

// Comment belongs to a request's conversation thread. Append-only.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	RequestID uuid.UUID `json:"request_id" db:"request_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	UserName  string    `json:"user_name" db:"user_name"`
	UserRole  string    `json:"user_role" db:"user_role"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Document is a file attached to a request. Bytes live on disk under the
// configured uploads directory; the row stores the original filename.
type Document struct {
	ID          uuid.UUID `json:"id" db:"id"`
	RequestID   uuid.UUID `json:"request_id" db:"request_id"`
	Filename    string    `json:"filename" db:"filename"`
	StoredName  string    `json:"-" db:"stored_name"`
	ContentType string    `json:"content_type" db:"content_type"`
	Size        int64     `json:"size" db:"size"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}
