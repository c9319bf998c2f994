package coupon

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCustomerNotFound           = errors.New("customer not found")
	ErrCouponAlreadyUsed          = errors.New("customer has already used a coupon")
	ErrCouponAlreadyUsedForCoupon = errors.New("customer has already redeemed this coupon")
)

// Eligibility is the token handed to the settlement flow after a successful
// validation. It carries everything pricing and commission creation need so
// the coupon row is not re-read downstream.
type Eligibility struct {
	CouponID        uuid.UUID
	PartnerID       uuid.UUID
	DiscountPercent int
}

// CheckEligibility decides whether a customer may redeem a coupon code.
// The checks here are advisory: the conditional flag update and the unique
// index on coupon_usage are what actually close the race on redemption.
func (s *CouponService) CheckEligibility(code string, customerID uuid.UUID) (*Eligibility, error) {
	return s.CheckEligibilityWithTx(s.db, code, customerID)
}

// CheckEligibilityWithTx runs the eligibility checks on an existing
// transaction so the settlement flow can re-validate right before writing
func (s *CouponService) CheckEligibilityWithTx(tx *gorm.DB, code string, customerID uuid.UUID) (*Eligibility, error) {
	var c models.Coupon
	if err := tx.First(&c, "code = ? AND active = ?", code, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("error finding coupon: %w", err)
	}

	var customer models.User
	if err := tx.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("error finding customer: %w", err)
	}

	// Lifetime rule: one coupon per customer, regardless of which coupon
	if customer.HasUsedCoupon {
		return nil, ErrCouponAlreadyUsed
	}

	// Per-coupon history, independent of the lifetime flag
	var usage models.CouponUsage
	err := tx.First(&usage, "coupon_id = ? AND user_id = ?", c.ID, customerID).Error
	if err == nil {
		return nil, ErrCouponAlreadyUsedForCoupon
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking coupon usage: %w", err)
	}

	return &Eligibility{
		CouponID:        c.ID,
		PartnerID:       c.PartnerID,
		DiscountPercent: c.DiscountPercent,
	}, nil
}
