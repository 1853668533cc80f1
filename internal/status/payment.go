// Package status holds the pure display-status rules: payment badge
// derivation for reservations and the tri-state icon mapping for requests.
package status

import (
	"fmt"
	"time"
)

// Payment is a derived reservation payment status.
type Payment string

const (
	PaymentPaid     Payment = "paid"
	PaymentOverdue  Payment = "overdue"
	PaymentUpcoming Payment = "upcoming"
	PaymentPrepaid  Payment = "prepaid"
	PaymentUnpaid   Payment = "unpaid"
)

// DateLayout is the wire format for plain dates.
const DateLayout = "2006-01-02"

// PaymentBadge is the result of the derivation. DaysLeft is meaningful
// only when Status is PaymentUpcoming.
type PaymentBadge struct {
	Status   Payment `json:"status"`
	DaysLeft int     `json:"days_left,omitempty"`
}

// Label renders the badge for display, annotating upcoming badges with the
// number of days left.
func (b PaymentBadge) Label() string {
	if b.Status == PaymentUpcoming {
		return fmt.Sprintf("%s: %d days", b.Status, b.DaysLeft)
	}
	return string(b.Status)
}

// PaymentFor derives the payment badge for a reservation. It is total and
// deterministic; precedence is paid > overdue > upcoming > prepaid > unpaid.
//
// The day difference is taken at calendar-day granularity: a due date equal
// to today's date counts as 0 days left, not overdue, until strictly past.
// An unparseable due date is treated as absent.
func PaymentFor(rest, prepayment float64, lastPaymentDue string, thresholdDays int, now time.Time) PaymentBadge {
	if rest == 0 {
		return PaymentBadge{Status: PaymentPaid}
	}

	if lastPaymentDue != "" {
		if due, err := time.Parse(DateLayout, lastPaymentDue); err == nil {
			diffDays := daysBetween(now, due)
			if diffDays < 0 {
				return PaymentBadge{Status: PaymentOverdue}
			}
			if diffDays <= thresholdDays {
				return PaymentBadge{Status: PaymentUpcoming, DaysLeft: diffDays}
			}
		}
	}

	if prepayment > 0 {
		return PaymentBadge{Status: PaymentPrepaid}
	}
	return PaymentBadge{Status: PaymentUnpaid}
}

// daysBetween returns the number of calendar days from now's date to due's
// date, negative when due is in the past.
func daysBetween(now, due time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}
