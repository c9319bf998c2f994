package settlement

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"github.com/slotbook/backend/internal/pricing"
	"github.com/slotbook/backend/internal/services/coupon"
	"gorm.io/gorm"

	commissionsvc "github.com/slotbook/backend/internal/services/commission"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPartialSettlement marks a commission failure that happened after the
	// redemption was recorded in the same settlement. The shared transaction
	// rolls the redemption back, but callers still need to tell this apart
	// from an up-front validation failure.
	ErrPartialSettlement = errors.New("settlement failed after redemption was recorded")
)

// Result is the outcome of a finalized settlement
type Result struct {
	Breakdown     pricing.Breakdown `json:"breakdown"`
	AppointmentID uuid.UUID         `json:"appointment_id"`
	CouponID      *uuid.UUID        `json:"coupon_id,omitempty"`
	CommissionID  *uuid.UUID        `json:"commission_id,omitempty"`
}

// SettlementService composes coupon validation, pricing, the appointment
// pricing write, redemption recording and commission creation into one
// logical unit per booking
type SettlementService struct {
	db          *gorm.DB
	coupons     *coupon.CouponService
	commissions *commissionsvc.CommissionService
}

// NewSettlementService creates a new settlement service
func NewSettlementService(db *gorm.DB) *SettlementService {
	return &SettlementService{
		db:          db,
		coupons:     coupon.NewCouponService(db),
		commissions: commissionsvc.NewCommissionService(db),
	}
}

// ValidateAndPrice is the quote path: it validates the coupon (when given)
// and returns the full pricing breakdown without writing anything. Called by
// the booking flow before payment is taken.
func (s *SettlementService) ValidateAndPrice(customerID uuid.UUID, originalPrice int64, code string) (*pricing.Breakdown, error) {
	percent := 0
	if code != "" {
		elig, err := s.coupons.CheckEligibility(code, customerID)
		if err != nil {
			return nil, err
		}
		percent = elig.DiscountPercent
	}
	breakdown, err := pricing.Quote(originalPrice, percent)
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// FinalizeSettlement commits a booking after payment succeeded. Everything
// runs in one transaction: eligibility is re-checked, the appointment gets
// its pricing fields, the redemption is recorded and the commission created
// on the original pre-discount price. Any failure rolls the whole settlement
// back; a failure after the redemption write surfaces as ErrPartialSettlement.
func (s *SettlementService) FinalizeSettlement(customerID, appointmentID uuid.UUID, originalPrice int64, code string) (*Result, error) {
	var result Result

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var appt models.Appointment
		if err := tx.First(&appt, "id = ? AND user_id = ?", appointmentID, customerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAppointmentNotFound
			}
			return fmt.Errorf("error finding appointment: %w", err)
		}

		var elig *coupon.Eligibility
		percent := 0
		if code != "" {
			var err error
			elig, err = s.coupons.CheckEligibilityWithTx(tx, code, customerID)
			if err != nil {
				return err
			}
			percent = elig.DiscountPercent
		}

		breakdown, err := pricing.Quote(originalPrice, percent)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"original_price":   breakdown.OriginalPrice,
			"discount_amount":  breakdown.DiscountAmount,
			"final_price":      breakdown.FinalPrice,
			"down_payment":     breakdown.DownPayment,
			"remaining_amount": breakdown.RemainingAmount,
		}
		if elig != nil {
			updates["coupon_id"] = elig.CouponID
		}
		if err := tx.Model(&models.Appointment{}).Where("id = ?", appt.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("error writing appointment pricing: %w", err)
		}

		result = Result{Breakdown: breakdown, AppointmentID: appt.ID}

		if elig == nil {
			return nil
		}

		if err := s.coupons.RecordUsageWithTx(tx, elig.CouponID, customerID, appt.ID, breakdown.DiscountAmount); err != nil {
			return err
		}

		// Commission is computed on the original price, never the discounted one
		record, err := s.commissions.CreateWithTx(tx, elig.PartnerID, appt.ID, &elig.CouponID, originalPrice, pricing.DefaultCommissionPercent)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrPartialSettlement, err)
		}

		couponID := elig.CouponID
		result.CouponID = &couponID
		result.CommissionID = &record.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
