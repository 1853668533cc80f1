package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCredentialsValidator(t *testing.T) {
	validator := NewCredentialsValidator()
	assert.NotNil(t, validator)
}

func TestValidateEmail_ValidAddresses(t *testing.T) {
	validator := NewCredentialsValidator()

	validEmails := []struct {
		input    string
		expected string
		name     string
	}{
		{"agency@example.com", "agency@example.com", "Standard address"},
		{"Agency@Example.COM", "agency@example.com", "Mixed case"},
		{"  agency@example.com  ", "agency@example.com", "Surrounding whitespace"},
		{"first.last@sub.example.co", "first.last@sub.example.co", "Dots and subdomain"},
		{"info+bookings@travel.io", "info+bookings@travel.io", "Plus tag"},
	}

	for _, tc := range validEmails {
		t.Run(tc.name, func(t *testing.T) {
			sanitized, err := validator.ValidateEmail(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, sanitized)
		})
	}
}

func TestValidateEmail_InvalidAddresses(t *testing.T) {
	validator := NewCredentialsValidator()

	invalidEmails := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"", ErrEmptyEmail, "Empty string"},
		{"   ", ErrEmptyEmail, "Whitespace only"},
		{"agency", ErrInvalidEmail, "No at sign"},
		{"agency@", ErrInvalidEmail, "No domain"},
		{"@example.com", ErrInvalidEmail, "No local part"},
		{"agency@example", ErrInvalidEmail, "No TLD"},
		{"age ncy@example.com", ErrInvalidEmail, "Embedded space"},
	}

	for _, tc := range invalidEmails {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.ValidateEmail(tc.input)
			assert.Error(t, err)
			assert.Equal(t, tc.expectedErr, err)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	validator := NewCredentialsValidator()

	tests := []struct {
		input       string
		expectedErr error
		name        string
	}{
		{"longenough", nil, "Valid password"},
		{"exactly8", nil, "Exactly minimum length"},
		{"", ErrEmptyPassword, "Empty password"},
		{"short", ErrPasswordTooShort, "Below minimum"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := validator.ValidatePassword(tc.input)
			if tc.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tc.expectedErr, err)
			}
		})
	}
}

func TestIsValidEmail(t *testing.T) {
	validator := NewCredentialsValidator()

	assert.True(t, validator.IsValidEmail("agency@example.com"))
	assert.False(t, validator.IsValidEmail("not-an-email"))
}
