package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChildAges(t *testing.T) {
	tests := []struct {
		name     string
		ages     []int64
		count    int
		expected []int64
	}{
		{"exact match", []int64{3, 7}, 2, []int64{3, 7}},
		{"grow zero-fills", []int64{3}, 3, []int64{3, 0, 0}},
		{"shrink drops tail", []int64{3, 7, 11}, 1, []int64{3}},
		{"zero count empties", []int64{3, 7}, 0, []int64{}},
		{"nil ages", nil, 2, []int64{0, 0}},
		{"negative count treated as zero", []int64{3}, -1, []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeChildAges(tt.ages, tt.count))
		})
	}
}

func TestTotalPax(t *testing.T) {
	r := &Request{Adults: 2, Children: 1, Infants: 1}
	assert.Equal(t, 4, r.TotalPax())

	empty := &Request{}
	assert.Equal(t, 0, empty.TotalPax())
}

func TestValidReservationStatus(t *testing.T) {
	for _, s := range []string{ReservationInProgress, ReservationBooked, ReservationConfirmed, ReservationCancelled} {
		assert.True(t, ValidReservationStatus(s), s)
	}
	assert.False(t, ValidReservationStatus("documents_ready"))
	assert.False(t, ValidReservationStatus(""))
}

func TestValidPaymentStatus(t *testing.T) {
	for _, s := range []string{PaymentAwaiting, PaymentPaid, PaymentPartiallyPaid, PaymentNotPaid} {
		assert.True(t, ValidPaymentStatus(s), s)
	}
	assert.False(t, ValidPaymentStatus("overdue"))
}

func TestValidFlightClass(t *testing.T) {
	assert.True(t, ValidFlightClass(FlightEconomy))
	assert.True(t, ValidFlightClass(FlightBusiness))
	assert.True(t, ValidFlightClass(FlightFirst))
	assert.False(t, ValidFlightClass("premium"))
}

func TestValidMealPlan(t *testing.T) {
	for _, m := range MealPlans {
		assert.True(t, ValidMealPlan(m), m)
	}
	assert.False(t, ValidMealPlan("bb"))
	assert.False(t, ValidMealPlan(""))
}
