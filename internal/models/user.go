package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RoleAdmin     = "admin"
	RoleSubAgency = "sub_agency"
)

// User represents an account on the portal: the admin agency or a
// sub-agency reseller. Sub-agency balances are mutated only through
// top-up operations, never by direct edits.
type User struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	AgencyName   string     `json:"agency_name" db:"agency_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose in JSON
	Phone        NullString `json:"phone,omitempty" db:"phone"`
	Role         string     `json:"role" db:"role"`
	Locale       string     `json:"locale" db:"locale"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	Balance      float64    `json:"balance" db:"balance"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
