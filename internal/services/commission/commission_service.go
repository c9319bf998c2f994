package commission

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"github.com/slotbook/backend/internal/pricing"
	"gorm.io/gorm"
)

var (
	ErrCommissionNotFound      = errors.New("commission not found")
	ErrCommissionAlreadyExists = errors.New("commission already exists for this appointment")
	ErrPartnerNotFound         = errors.New("partner not found")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrInvalidStatus           = errors.New("invalid commission status")
	ErrInvalidStatusTransition = errors.New("paid commissions cannot go back to pending")
)

// CommissionService manages partner commission records: one per referred
// appointment, pending until an admin marks the payout done
type CommissionService struct {
	db *gorm.DB
}

// NewCommissionService creates a new commission service
func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

// Create creates a pending commission for an appointment. The amount is
// computed on originalPrice, the pre-discount service price; percent 0
// selects the default rate. The existence precheck gives a clean error in
// the common case, the unique index on appointment_id is the real guard.
func (s *CommissionService) Create(partnerID, appointmentID uuid.UUID, couponID *uuid.UUID, originalPrice int64, percent int) (*models.PartnerCommission, error) {
	return s.CreateWithTx(s.db, partnerID, appointmentID, couponID, originalPrice, percent)
}

// CreateWithTx creates the commission inside the caller's transaction
func (s *CommissionService) CreateWithTx(tx *gorm.DB, partnerID, appointmentID uuid.UUID, couponID *uuid.UUID, originalPrice int64, percent int) (*models.PartnerCommission, error) {
	if percent == 0 {
		percent = pricing.DefaultCommissionPercent
	}

	var partner models.User
	if err := tx.First(&partner, "id = ?", partnerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, fmt.Errorf("error finding partner: %w", err)
	}
	if !partner.IsPartner() {
		return nil, ErrPartnerNotFound
	}

	var count int64
	if err := tx.Model(&models.Appointment{}).Where("id = ?", appointmentID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("error checking appointment: %w", err)
	}
	if count == 0 {
		return nil, ErrAppointmentNotFound
	}

	var existing models.PartnerCommission
	err := tx.First(&existing, "appointment_id = ?", appointmentID).Error
	if err == nil {
		return nil, ErrCommissionAlreadyExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing commission: %w", err)
	}

	amount, err := pricing.Commission(originalPrice, percent)
	if err != nil {
		return nil, err
	}

	record := models.PartnerCommission{
		PartnerID:     partnerID,
		AppointmentID: appointmentID,
		CouponID:      couponID,
		OriginalPrice: originalPrice,
		Amount:        amount,
		Percent:       percent,
		Status:        models.CommissionStatusPending,
	}
	if err := tx.Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCommissionAlreadyExists
		}
		return nil, fmt.Errorf("error creating commission: %w", err)
	}
	return &record, nil
}

// UpdateStatus moves a commission between payout states. pending->paid stamps
// PaidAt; no-op transitions are allowed; paid->pending is rejected because
// reversing a payout is an accounting correction, not a status flip.
func (s *CommissionService) UpdateStatus(commissionID uuid.UUID, status models.CommissionStatus) (*models.PartnerCommission, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	var record models.PartnerCommission
	if err := s.db.First(&record, "id = ?", commissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("error finding commission: %w", err)
	}

	if record.Status == status {
		return &record, nil
	}
	if record.Status == models.CommissionStatusPaid && status == models.CommissionStatusPending {
		return nil, ErrInvalidStatusTransition
	}

	record.Status = status
	if status == models.CommissionStatusPaid {
		now := time.Now()
		record.PaidAt = &now
	}
	if err := s.db.Save(&record).Error; err != nil {
		return nil, fmt.Errorf("error updating commission: %w", err)
	}
	return &record, nil
}

// GetByAppointment returns the commission tied to an appointment, if any
func (s *CommissionService) GetByAppointment(appointmentID uuid.UUID) (*models.PartnerCommission, error) {
	var record models.PartnerCommission
	if err := s.db.First(&record, "appointment_id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("error finding commission: %w", err)
	}
	return &record, nil
}

// ListByPartner returns a partner's commissions, newest first
func (s *CommissionService) ListByPartner(partnerID uuid.UUID) ([]models.PartnerCommission, error) {
	var records []models.PartnerCommission
	if err := s.db.Where("partner_id = ?", partnerID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("error listing commissions: %w", err)
	}
	return records, nil
}

// GetPartnerEarnings aggregates a partner's commissions by status. The
// numbers are computed fresh on every call so they always reflect the latest
// committed state.
func (s *CommissionService) GetPartnerEarnings(partnerID uuid.UUID) (*models.EarningsSummary, error) {
	var rows []struct {
		Status models.CommissionStatus
		Count  int64
		Total  int64
	}
	err := s.db.Model(&models.PartnerCommission{}).
		Select("status, COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("partner_id = ?", partnerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("error aggregating earnings: %w", err)
	}

	summary := models.EarningsSummary{}
	for _, row := range rows {
		switch row.Status {
		case models.CommissionStatusPending:
			summary.PendingCount = row.Count
			summary.PendingAmount = row.Total
		case models.CommissionStatusPaid:
			summary.PaidCount = row.Count
			summary.PaidAmount = row.Total
		}
		summary.TotalCount += row.Count
		summary.TotalAmount += row.Total
	}
	return &summary, nil
}
