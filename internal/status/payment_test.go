package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Fixed reference date so day arithmetic is deterministic.
var testNow = time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)

func TestPaymentFor_Paid(t *testing.T) {
	t.Run("zero rest wins over everything", func(t *testing.T) {
		badge := PaymentFor(0, 500, "2025-01-01", 7, testNow)
		assert.Equal(t, PaymentPaid, badge.Status)
	})

	t.Run("zero rest with no due date", func(t *testing.T) {
		badge := PaymentFor(0, 0, "", 7, testNow)
		assert.Equal(t, PaymentPaid, badge.Status)
	})
}

func TestPaymentFor_Overdue(t *testing.T) {
	t.Run("due date in the past", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-14", 7, testNow)
		assert.Equal(t, PaymentOverdue, badge.Status)
	})

	t.Run("overdue beats prepaid", func(t *testing.T) {
		badge := PaymentFor(100, 50, "2025-03-01", 7, testNow)
		assert.Equal(t, PaymentOverdue, badge.Status)
	})
}

func TestPaymentFor_Upcoming(t *testing.T) {
	t.Run("due today counts as upcoming with zero days left", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-15", 7, testNow)
		assert.Equal(t, PaymentUpcoming, badge.Status)
		assert.Equal(t, 0, badge.DaysLeft)
	})

	t.Run("due inside threshold", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-18", 7, testNow)
		assert.Equal(t, PaymentUpcoming, badge.Status)
		assert.Equal(t, 3, badge.DaysLeft)
	})

	t.Run("due exactly at threshold", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-22", 7, testNow)
		assert.Equal(t, PaymentUpcoming, badge.Status)
		assert.Equal(t, 7, badge.DaysLeft)
	})

	t.Run("day diff ignores time of day", func(t *testing.T) {
		lateEvening := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)
		badge := PaymentFor(100, 0, "2025-03-16", 7, lateEvening)
		assert.Equal(t, PaymentUpcoming, badge.Status)
		assert.Equal(t, 1, badge.DaysLeft)
	})
}

func TestPaymentFor_Prepaid(t *testing.T) {
	t.Run("due beyond threshold with prepayment", func(t *testing.T) {
		badge := PaymentFor(100, 50, "2025-03-30", 7, testNow)
		assert.Equal(t, PaymentPrepaid, badge.Status)
	})

	t.Run("no due date with prepayment", func(t *testing.T) {
		badge := PaymentFor(100, 50, "", 7, testNow)
		assert.Equal(t, PaymentPrepaid, badge.Status)
	})
}

func TestPaymentFor_Unpaid(t *testing.T) {
	t.Run("due beyond threshold without prepayment", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-30", 7, testNow)
		assert.Equal(t, PaymentUnpaid, badge.Status)
	})

	t.Run("no due date and no prepayment", func(t *testing.T) {
		badge := PaymentFor(100, 0, "", 7, testNow)
		assert.Equal(t, PaymentUnpaid, badge.Status)
	})
}

func TestPaymentFor_UnparseableDueDate(t *testing.T) {
	// A malformed due date falls through to the prepaid/unpaid branch
	// instead of producing an error.
	badge := PaymentFor(100, 50, "15/03/2025", 7, testNow)
	assert.Equal(t, PaymentPrepaid, badge.Status)

	badge = PaymentFor(100, 0, "not-a-date", 7, testNow)
	assert.Equal(t, PaymentUnpaid, badge.Status)
}

func TestPaymentFor_ZeroThreshold(t *testing.T) {
	t.Run("due today still upcoming", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-15", 0, testNow)
		assert.Equal(t, PaymentUpcoming, badge.Status)
		assert.Equal(t, 0, badge.DaysLeft)
	})

	t.Run("due tomorrow falls through", func(t *testing.T) {
		badge := PaymentFor(100, 0, "2025-03-16", 0, testNow)
		assert.Equal(t, PaymentUnpaid, badge.Status)
	})
}

func TestPaymentBadgeLabel(t *testing.T) {
	tests := []struct {
		name     string
		badge    PaymentBadge
		expected string
	}{
		{"paid", PaymentBadge{Status: PaymentPaid}, "paid"},
		{"overdue", PaymentBadge{Status: PaymentOverdue}, "overdue"},
		{"upcoming with days", PaymentBadge{Status: PaymentUpcoming, DaysLeft: 3}, "upcoming: 3 days"},
		{"upcoming zero days", PaymentBadge{Status: PaymentUpcoming, DaysLeft: 0}, "upcoming: 0 days"},
		{"prepaid", PaymentBadge{Status: PaymentPrepaid}, "prepaid"},
		{"unpaid", PaymentBadge{Status: PaymentUnpaid}, "unpaid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.badge.Label())
		})
	}
}
