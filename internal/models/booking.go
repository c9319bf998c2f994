package models

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus tracks an appointment through its lifecycle
type AppointmentStatus string

const (
	AppointmentStatusBooked    AppointmentStatus = "booked"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// Service is a bookable offering with a fixed price in cents
type Service struct {
	Base
	Name            string `gorm:"type:varchar(150);not null" json:"name"`
	Description     string `gorm:"type:text" json:"description"`
	Price           int64  `gorm:"not null" json:"price"` // cents
	DurationMinutes int    `gorm:"not null;default:60" json:"duration_minutes"`
	Active          bool   `gorm:"not null;default:true" json:"active"`
}

// Appointment is one booked slot. All monetary fields are integer cents.
// OriginalPrice is the service price before any coupon; the settlement flow
// fills DiscountAmount, FinalPrice and the down-payment split, and sets
// CouponID when a coupon was applied.
type Appointment struct {
	Base
	UserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	User            User              `gorm:"foreignKey:UserID" json:"-"`
	ServiceID       uuid.UUID         `gorm:"type:uuid;not null" json:"service_id"`
	Service         Service           `gorm:"foreignKey:ServiceID" json:"-"`
	StartsAt        time.Time         `gorm:"not null;index" json:"starts_at"`
	Status          AppointmentStatus `gorm:"type:varchar(20);not null;default:'booked'" json:"status"`
	OriginalPrice   int64             `gorm:"not null" json:"original_price"`
	DiscountAmount  int64             `gorm:"not null;default:0" json:"discount_amount"`
	FinalPrice      int64             `gorm:"not null" json:"final_price"`
	DownPayment     int64             `gorm:"not null;default:0" json:"down_payment"`
	RemainingAmount int64             `gorm:"not null;default:0" json:"remaining_amount"`
	CouponID        *uuid.UUID        `gorm:"type:uuid" json:"coupon_id,omitempty"`
	PaymentRef      string            `gorm:"type:varchar(64)" json:"payment_ref,omitempty"`
}
