package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coupon is a partner-owned referral code in the form <word><percent>off,
// e.g. penguin10off. Coupons are deactivated rather than deleted.
type Coupon struct {
	Base
	PartnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"partner_id"`
	Partner         User      `gorm:"foreignKey:PartnerID" json:"-"`
	Code            string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`
	DiscountPercent int       `gorm:"not null" json:"discount_percent"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
}

// CouponUsage is the immutable redemption record. The unique composite index
// on (coupon_id, user_id) backs the one-redemption-per-customer guarantee
// independently of the lifetime flag on the user row.
type CouponUsage struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CouponID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_coupon_user" json:"coupon_id"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_usage_coupon_user" json:"user_id"`
	AppointmentID  uuid.UUID `gorm:"type:uuid;not null" json:"appointment_id"`
	DiscountAmount int64     `gorm:"not null" json:"discount_amount"` // cents
	UsedAt         time.Time `gorm:"not null" json:"used_at"`
}

// BeforeCreate assigns the UUID and stamps the redemption time
func (u *CouponUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.UsedAt.IsZero() {
		u.UsedAt = time.Now()
	}
	return nil
}
