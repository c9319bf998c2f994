package appointment

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrServiceNotFound     = errors.New("service not found")
	ErrCustomerNotFound    = errors.New("customer not found")
)

// AppointmentService owns the appointment aggregate. The settlement flow
// treats it as an external collaborator: it creates the row and later writes
// the derived pricing fields into it.
type AppointmentService struct {
	db *gorm.DB
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

// Create books a slot for a customer at the service's list price. Pricing
// fields start undiscounted; settlement overwrites them when a coupon applies.
func (s *AppointmentService) Create(customerID, serviceID uuid.UUID, startsAt time.Time) (*models.Appointment, error) {
	var customer models.User
	if err := s.db.First(&customer, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("error finding customer: %w", err)
	}

	svc, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}

	appt := models.Appointment{
		UserID:          customerID,
		ServiceID:       serviceID,
		StartsAt:        startsAt,
		Status:          models.AppointmentStatusBooked,
		OriginalPrice:   svc.Price,
		FinalPrice:      svc.Price,
		DownPayment:     0,
		RemainingAmount: svc.Price,
	}
	if err := s.db.Create(&appt).Error; err != nil {
		return nil, fmt.Errorf("error creating appointment: %w", err)
	}
	return &appt, nil
}

// Get returns an appointment by id
func (s *AppointmentService) Get(id uuid.UUID) (*models.Appointment, error) {
	var appt models.Appointment
	if err := s.db.First(&appt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("error finding appointment: %w", err)
	}
	return &appt, nil
}

// GetService returns an active service by id
func (s *AppointmentService) GetService(id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, "id = ? AND active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("error finding service: %w", err)
	}
	return &svc, nil
}

// ListServices returns the bookable services
func (s *AppointmentService) ListServices() ([]models.Service, error) {
	var services []models.Service
	if err := s.db.Where("active = ?", true).Order("name").Find(&services).Error; err != nil {
		return nil, fmt.Errorf("error listing services: %w", err)
	}
	return services, nil
}

// ListByCustomer returns a customer's appointments, newest first
func (s *AppointmentService) ListByCustomer(customerID uuid.UUID) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.db.Where("user_id = ?", customerID).
		Order("starts_at DESC").
		Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("error listing appointments: %w", err)
	}
	return appts, nil
}
