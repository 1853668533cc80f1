package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyEmail indicates email is empty
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidEmail indicates email does not look like an address
	ErrInvalidEmail = errors.New("email is not a valid address")

	// ErrEmptyPassword indicates password is empty
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordTooShort indicates password is below the minimum length
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

// emailRegex is deliberately permissive: local@domain.tld
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// CredentialsValidator handles login credential validation
type CredentialsValidator struct{}

// NewCredentialsValidator creates a new credentials validator instance
func NewCredentialsValidator() *CredentialsValidator {
	return &CredentialsValidator{}
}

// ValidateEmail validates and normalizes an email address.
// Returns the lowercased, trimmed address and an error if invalid.
func (v *CredentialsValidator) ValidateEmail(email string) (string, error) {
	sanitized := v.SanitizeEmail(email)

	if sanitized == "" {
		return "", ErrEmptyEmail
	}

	if !emailRegex.MatchString(sanitized) {
		return "", ErrInvalidEmail
	}

	return sanitized, nil
}

// SanitizeEmail trims whitespace and lowercases an email address
func (v *CredentialsValidator) SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePassword checks a password against the minimum requirements
func (v *CredentialsValidator) ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}

	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	return nil
}

// IsValidEmail is a convenience method that returns true if email is valid
func (v *CredentialsValidator) IsValidEmail(email string) bool {
	_, err := v.ValidateEmail(email)
	return err == nil
}
