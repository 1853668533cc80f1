package models

import (
	"time"

	"github.com/google/uuid"
)

// Top-up types
const (
	TopUpCash  = "cash"
	TopUpOther = "other"
)

// ValidTopUpType reports whether t is an enumerated top-up type.
func ValidTopUpType(t string) bool {
	return t == TopUpCash || t == TopUpOther
}

// TopUp is a balance-increasing ledger entry for a sub-agency. Editing or
// deleting a top-up adjusts the agency balance by the corresponding delta.
type TopUp struct {
	ID         uuid.UUID `json:"id" db:"id"`
	AgencyID   uuid.UUID `json:"agency_id" db:"agency_id"`
	AgencyName string    `json:"agency_name" db:"agency_name"`
	Amount     float64   `json:"amount" db:"amount"`
	Type       string    `json:"type" db:"type"`
	Date       string    `json:"date" db:"date"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Supplier is referenced by reservations through supplier_id/supplier_name.
type Supplier struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Tourist is a traveller record in the registry, used among other things
// to feed the tourist-name autocomplete on reservation forms.
type Tourist struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	FirstName          string     `json:"first_name" db:"first_name"`
	LastName           string     `json:"last_name" db:"last_name"`
	DateOfBirth        NullString `json:"date_of_birth" db:"date_of_birth"`
	Gender             NullString `json:"gender" db:"gender"`
	Citizenship        NullString `json:"citizenship" db:"citizenship"`
	DocumentType       NullString `json:"document_type" db:"document_type"`
	DocumentNumber     NullString `json:"document_number" db:"document_number"`
	DocumentExpiration NullString `json:"document_expiration" db:"document_expiration"`
	Phone              NullString `json:"phone" db:"phone"`
	Email              NullString `json:"email" db:"email"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
}

// Expense is an operating expense booked against an agency.
type Expense struct {
	ID          uuid.UUID `json:"id" db:"id"`
	AgencyID    uuid.UUID `json:"agency_id" db:"agency_id"`
	AgencyName  string    `json:"agency_name" db:"agency_name"`
	Amount      float64   `json:"amount" db:"amount"`
	Date        string    `json:"date" db:"date"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// DefaultUpcomingDueThresholdDays is used until an admin changes it.
const DefaultUpcomingDueThresholdDays = 7

// Settings holds the portal-wide configuration row.
type Settings struct {
	UpcomingDueThresholdDays int `json:"upcoming_due_threshold_days" db:"upcoming_due_threshold_days"`
}
