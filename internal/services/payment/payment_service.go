package payment

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

// ErrChargeDeclined is returned when the processor refuses the charge
var ErrChargeDeclined = errors.New("payment declined")

// ChargeRequest is what the processor needs to take a payment
type ChargeRequest struct {
	AppointmentID uuid.UUID
	CustomerEmail string
	Amount        int64 // cents
	Description   string
}

// ChargeResult reports the processor's decision and its transaction reference
type ChargeResult struct {
	Reference string
	Succeeded bool
}

// Processor is the opaque payment gateway: it either takes the money and
// hands back a reference, or it does not. Gateway protocol details live
// behind this interface.
type Processor interface {
	Charge(req ChargeRequest) (*ChargeResult, error)
}

// PaymentService charges down payments through the configured processor and
// records the reference on the appointment
type PaymentService struct {
	db        *gorm.DB
	processor Processor
}

// NewPaymentService creates a new payment service
func NewPaymentService(db *gorm.DB, processor Processor) *PaymentService {
	return &PaymentService{db: db, processor: processor}
}

// CollectDownPayment charges the booking's down payment and stores the
// processor reference. Returns the reference on success.
func (s *PaymentService) CollectDownPayment(appt *models.Appointment, customerEmail string, amount int64) (string, error) {
	result, err := s.processor.Charge(ChargeRequest{
		AppointmentID: appt.ID,
		CustomerEmail: customerEmail,
		Amount:        amount,
		Description:   "booking down payment",
	})
	if err != nil {
		return "", fmt.Errorf("error charging down payment: %w", err)
	}
	if !result.Succeeded {
		return "", ErrChargeDeclined
	}

	if err := s.db.Model(&models.Appointment{}).
		Where("id = ?", appt.ID).
		Update("payment_ref", result.Reference).Error; err != nil {
		return "", fmt.Errorf("error storing payment reference: %w", err)
	}
	return result.Reference, nil
}
