package coupon

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateRedemption is returned when the (coupon, customer) pair already
// has a usage row. The unique index is the authority here, not the
// eligibility precheck.
var ErrDuplicateRedemption = errors.New("coupon already redeemed by this customer")

// RecordUsage records a redemption in its own transaction
func (s *CouponService) RecordUsage(couponID, customerID, appointmentID uuid.UUID, discountAmount int64) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.RecordUsageWithTx(tx, couponID, customerID, appointmentID, discountAmount)
	})
}

// RecordUsageWithTx flips the customer's lifetime flag and inserts the usage
// row inside the caller's transaction. Both writes commit together or not at
// all; the caller must roll back on error.
//
// The flag flip is a conditional update checked by affected-row count, so two
// concurrent redemptions for the same customer cannot both pass even if both
// saw has_used_coupon=false during validation.
func (s *CouponService) RecordUsageWithTx(tx *gorm.DB, couponID, customerID, appointmentID uuid.UUID, discountAmount int64) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND has_used_coupon = ?", customerID, false).
		Update("has_used_coupon", true)
	if result.Error != nil {
		return fmt.Errorf("error updating coupon flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Either the customer does not exist or the flag is already set;
		// distinguish the two for the caller
		var count int64
		if err := tx.Model(&models.User{}).Where("id = ?", customerID).Count(&count).Error; err != nil {
			return fmt.Errorf("error checking customer: %w", err)
		}
		if count == 0 {
			return ErrCustomerNotFound
		}
		return ErrCouponAlreadyUsed
	}

	usage := models.CouponUsage{
		CouponID:       couponID,
		UserID:         customerID,
		AppointmentID:  appointmentID,
		DiscountAmount: discountAmount,
	}
	if err := tx.Create(&usage).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRedemption
		}
		return fmt.Errorf("error recording coupon usage: %w", err)
	}
	return nil
}
