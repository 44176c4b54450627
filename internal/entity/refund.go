package entity

import (
	"fmt"
	"time"
)

// RefundPolicy defines the time-tiered cancellation refund.
// Cancellations at least FullRefundWindow before the event refund the
// full price; later cancellations deduct LateDeductionPercent.
type RefundPolicy struct {
	FullRefundWindow     time.Duration
	LateDeductionPercent int
}

func DefaultRefundPolicy() RefundPolicy {
	return RefundPolicy{
		FullRefundWindow:     72 * time.Hour,
		LateDeductionPercent: 40,
	}
}

// RefundBreakdown is the line-item result of a cancellation. Amounts
// are in the smallest currency unit; RefundAmount + DeductionAmount
// always equals TotalPaid.
type RefundBreakdown struct {
	TotalPaid        int64 `json:"total_paid"`
	RefundAmount     int64 `json:"refund_amount"`
	DeductionAmount  int64 `json:"deduction_amount"`
	DeductionPercent int   `json:"deduction_percent"`
}

// Breakdown computes the refund for a booking cancelled at now.
// A zero event date means the refund tier cannot be determined, which
// aborts the cancellation rather than falling back to either tier.
func (p RefundPolicy) Breakdown(totalPaid int64, eventDate, now time.Time) (*RefundBreakdown, error) {
	if eventDate.IsZero() {
		return nil, ErrInvalidEventDate
	}
	if totalPaid < 0 {
		return nil, fmt.Errorf("%w: negative amount paid", ErrInvalidInput)
	}

	if eventDate.Sub(now) >= p.FullRefundWindow {
		return &RefundBreakdown{
			TotalPaid:        totalPaid,
			RefundAmount:     totalPaid,
			DeductionAmount:  0,
			DeductionPercent: 0,
		}, nil
	}

	// Integer division truncates, the remainder stays with the user.
	deduction := totalPaid * int64(p.LateDeductionPercent) / 100
	return &RefundBreakdown{
		TotalPaid:        totalPaid,
		RefundAmount:     totalPaid - deduction,
		DeductionAmount:  deduction,
		DeductionPercent: p.LateDeductionPercent,
	}, nil
}

// FullBreakdown is the operator-initiated cancellation refund: the
// whole price back regardless of how close the event is.
func FullBreakdown(totalPaid int64) *RefundBreakdown {
	return &RefundBreakdown{
		TotalPaid:    totalPaid,
		RefundAmount: totalPaid,
	}
}
