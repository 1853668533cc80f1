package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ServiceTypes enumerates the bookable service types. The values are
// stored verbatim and rendered by the client's translation layer.
var ServiceTypes = []string{
	"Flight",
	"Hotel",
	"Transfer",
	"Train ticket",
	"Additional flight service",
	"Airport VIP Services",
	"eSIM",
}

// ValidServiceType reports whether t is one of the enumerated service types.
func ValidServiceType(t string) bool {
	for _, s := range ServiceTypes {
		if s == t {
			return true
		}
	}
	return false
}

// Reservation is a booked service sold to a sub-agency. Supplier and
// revenue fields are visible to admins only and stripped from responses
// for sub-agency users.
//
// Date fields use the yyyy-mm-dd wire format; created/updated stamps are
// full timestamps.
type Reservation struct {
	ID                      uuid.UUID     `json:"id" db:"id"`
	AgencyID                uuid.UUID     `json:"agency_id" db:"agency_id"`
	AgencyName              string        `json:"agency_name" db:"agency_name"`
	DateOfIssue             string        `json:"date_of_issue" db:"date_of_issue"`
	ServiceType             string        `json:"service_type" db:"service_type"`
	DateOfService           string        `json:"date_of_service" db:"date_of_service"`
	Description             string        `json:"description" db:"description"`
	TouristNames            string        `json:"tourist_names" db:"tourist_names"`
	Price                   float64       `json:"price" db:"price"`
	PrepaymentAmount        float64       `json:"prepayment_amount" db:"prepayment_amount"`
	RestAmountOfPayment     float64       `json:"rest_amount_of_payment" db:"rest_amount_of_payment"`
	LastDateOfPayment       NullString    `json:"last_date_of_payment" db:"last_date_of_payment"`
	ActualDateOfPrepayment  NullString    `json:"actual_date_of_prepayment" db:"actual_date_of_prepayment"`
	ActualDateOfFullPayment NullString    `json:"actual_date_of_full_payment" db:"actual_date_of_full_payment"`
	SupplierID              uuid.NullUUID `json:"supplier_id,omitempty" db:"supplier_id"`
	SupplierName            NullString    `json:"supplier_name,omitempty" db:"supplier_name"`
	SupplierPrice           NullFloat     `json:"supplier_price,omitempty" db:"supplier_price"`
	SupplierPrepayment      NullFloat     `json:"supplier_prepayment_amount,omitempty" db:"supplier_prepayment_amount"`
	Revenue                 NullFloat     `json:"revenue,omitempty" db:"revenue"`
	RevenuePercentage       NullFloat     `json:"revenue_percentage,omitempty" db:"revenue_percentage"`
	CreatedAt               time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at" db:"updated_at"`
}

// StripSupplierFields blanks the admin-only financial fields before the
// reservation is returned to a sub-agency user.
func (r *Reservation) StripSupplierFields() {
	r.SupplierID = uuid.NullUUID{}
	r.SupplierName = NullString{}
	r.SupplierPrice = NullFloat{}
	r.SupplierPrepayment = NullFloat{}
	r.Revenue = NullFloat{}
	r.RevenuePercentage = NullFloat{}
}

// RoundCurrency rounds an amount to 2 decimal places.
func RoundCurrency(v float64) float64 {
	return math.Round(v*100) / 100
}

// RestAmount derives the remaining balance due from price and prepayment.
// The stored rest amount is always recomputed from these two fields; a
// client-supplied value is never trusted.
func RestAmount(price, prepayment float64) float64 {
	return RoundCurrency(price - prepayment)
}
