// Package pricing holds the pure money arithmetic for bookings. All amounts
// are non-negative integer cents; floats only appear transiently for the
// down-payment rounding and never touch stored values.
package pricing

import (
	"errors"
	"math"
)

const (
	// DownPaymentPercent is the share of the final price collected at booking time
	DownPaymentPercent = 20

	// DefaultCommissionPercent is applied when no explicit rate is given
	DefaultCommissionPercent = 20
)

var (
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrPercentOutOfRange = errors.New("percentage must be between 0 and 100")
)

// Discount returns floor(originalPrice * percent / 100) in cents.
// Integer division already floors for non-negative inputs.
func Discount(originalPrice int64, percent int) (int64, error) {
	if originalPrice < 0 {
		return 0, ErrNegativeAmount
	}
	if percent < 0 || percent > 100 {
		return 0, ErrPercentOutOfRange
	}
	return originalPrice * int64(percent) / 100, nil
}

// FinalPrice returns the post-discount price. With percent <= 100 the result
// is never negative; a larger discount is rejected.
func FinalPrice(originalPrice, discountAmount int64) (int64, error) {
	if originalPrice < 0 || discountAmount < 0 {
		return 0, ErrNegativeAmount
	}
	final := originalPrice - discountAmount
	if final < 0 {
		return 0, errors.New("discount exceeds original price")
	}
	return final, nil
}

// DownPayment returns 20% of amount rounded half away from zero.
// For any non-negative amount, DownPayment + RemainingPayment == amount.
func DownPayment(amount int64) int64 {
	return int64(math.Round(float64(amount) * float64(DownPaymentPercent) / 100))
}

// RemainingPayment is the balance collected after the down payment
func RemainingPayment(amount int64) int64 {
	return amount - DownPayment(amount)
}

// Commission returns floor(originalPrice * percent / 100). Commission is
// always computed on the original, pre-discount price; passing percent 0
// selects DefaultCommissionPercent.
func Commission(originalPrice int64, percent int) (int64, error) {
	if percent == 0 {
		percent = DefaultCommissionPercent
	}
	return Discount(originalPrice, percent)
}

// Breakdown is the full pricing result for one booking
type Breakdown struct {
	OriginalPrice   int64 `json:"original_price"`
	DiscountPercent int   `json:"discount_percent"`
	DiscountAmount  int64 `json:"discount_amount"`
	FinalPrice      int64 `json:"final_price"`
	DownPayment     int64 `json:"down_payment"`
	RemainingAmount int64 `json:"remaining_amount"`
}

// Quote computes the complete breakdown for a price and discount percent.
// A zero percent means no coupon: final price equals the original.
func Quote(originalPrice int64, discountPercent int) (Breakdown, error) {
	if originalPrice < 0 {
		return Breakdown{}, ErrNegativeAmount
	}
	discount := int64(0)
	if discountPercent != 0 {
		var err error
		discount, err = Discount(originalPrice, discountPercent)
		if err != nil {
			return Breakdown{}, err
		}
	}
	final, err := FinalPrice(originalPrice, discount)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		OriginalPrice:   originalPrice,
		DiscountPercent: discountPercent,
		DiscountAmount:  discount,
		FinalPrice:      final,
		DownPayment:     DownPayment(final),
		RemainingAmount: RemainingPayment(final),
	}, nil
}
