package models

import (
	"time"

	"github.com/google/uuid"
)

// CommissionStatus is the payout state of a commission record
type CommissionStatus string

const (
	CommissionStatusPending CommissionStatus = "pending"
	CommissionStatusPaid    CommissionStatus = "paid"
)

// Valid reports whether the status is one of the known values
func (s CommissionStatus) Valid() bool {
	return s == CommissionStatusPending || s == CommissionStatusPaid
}

// PartnerCommission is a partner's earnings record for one referred
// appointment. Amount is computed on OriginalPrice, the pre-discount service
// price. The unique index on appointment_id enforces exactly one commission
// per appointment at the storage layer.
type PartnerCommission struct {
	Base
	PartnerID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"partner_id"`
	Partner       User             `gorm:"foreignKey:PartnerID" json:"-"`
	AppointmentID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	CouponID      *uuid.UUID       `gorm:"type:uuid" json:"coupon_id,omitempty"`
	OriginalPrice int64            `gorm:"not null" json:"original_price"` // cents, pre-discount
	Amount        int64            `gorm:"not null" json:"amount"`         // cents
	Percent       int              `gorm:"not null;default:20" json:"percent"`
	Status        CommissionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaidAt        *time.Time       `json:"paid_at,omitempty"`
}

// EarningsSummary aggregates a partner's commissions by status.
// Computed fresh on every call, never cached.
type EarningsSummary struct {
	PendingCount  int64 `json:"pending_count"`
	PendingAmount int64 `json:"pending_amount"`
	PaidCount     int64 `json:"paid_count"`
	PaidAmount    int64 `json:"paid_amount"`
	TotalCount    int64 `json:"total_count"`
	TotalAmount   int64 `json:"total_amount"`
}
