package commission

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slotbook/backend/internal/database"
	"github.com/slotbook/backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()
	user := &models.User{
		Email:        fmt.Sprintf("%s-%d@users.test", role, time.Now().UnixNano()),
		PasswordHash: "x",
		FirstName:    "Alex",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createAppointment(t *testing.T, db *gorm.DB, customerID uuid.UUID, price int64) *models.Appointment {
	t.Helper()
	svc := &models.Service{Name: "Consultation", Price: price, DurationMinutes: 60, Active: true}
	require.NoError(t, db.Create(svc).Error)

	appt := &models.Appointment{
		UserID:          customerID,
		ServiceID:       svc.ID,
		StartsAt:        time.Now().Add(24 * time.Hour),
		Status:          models.AppointmentStatusBooked,
		OriginalPrice:   price,
		FinalPrice:      price,
		RemainingAmount: price,
	}
	require.NoError(t, db.Create(appt).Error)
	return appt
}

func TestCreateCommission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 35000)

	record, err := svc.Create(partner.ID, appt.ID, nil, 35000, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(7000), record.Amount)
	assert.Equal(t, 20, record.Percent)
	assert.Equal(t, models.CommissionStatusPending, record.Status)
	assert.Nil(t, record.PaidAt)
}

func TestCreateCommissionDefaultsPercent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 15000)

	record, err := svc.Create(partner.ID, appt.ID, nil, 15000, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, record.Percent)
	assert.Equal(t, int64(3000), record.Amount)
}

func TestCreateCommissionDuplicateLeavesOriginal(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	other := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 35000)

	original, err := svc.Create(partner.ID, appt.ID, nil, 35000, 20)
	require.NoError(t, err)

	_, err = svc.Create(other.ID, appt.ID, nil, 35000, 20)
	assert.ErrorIs(t, err, ErrCommissionAlreadyExists)

	var reloaded models.PartnerCommission
	require.NoError(t, db.First(&reloaded, "appointment_id = ?", appt.ID).Error)
	assert.Equal(t, original.ID, reloaded.ID)
	assert.Equal(t, partner.ID, reloaded.PartnerID)
	assert.Equal(t, int64(7000), reloaded.Amount)
}

func TestCreateCommissionRejectsNonPartner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 35000)

	_, err := svc.Create(customer.ID, appt.ID, nil, 35000, 20)
	assert.ErrorIs(t, err, ErrPartnerNotFound)

	_, err = svc.Create(uuid.New(), appt.ID, nil, 35000, 20)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestCreateCommissionRejectsUnknownAppointment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)

	_, err := svc.Create(partner.ID, uuid.New(), nil, 35000, 20)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUpdateStatusPendingToPaid(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 35000)

	record, err := svc.Create(partner.ID, appt.ID, nil, 35000, 20)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(record.ID, models.CommissionStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)

	// no-op transition is allowed
	again, err := svc.UpdateStatus(record.ID, models.CommissionStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusPaid, again.Status)
}

func TestUpdateStatusRejectsPaidToPending(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)
	appt := createAppointment(t, db, customer.ID, 35000)

	record, err := svc.Create(partner.ID, appt.ID, nil, 35000, 20)
	require.NoError(t, err)
	_, err = svc.UpdateStatus(record.ID, models.CommissionStatusPaid)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(record.ID, models.CommissionStatusPending)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
}

func TestUpdateStatusValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)

	_, err := svc.UpdateStatus(uuid.New(), models.CommissionStatus("cancelled"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(uuid.New(), models.CommissionStatusPaid)
	assert.ErrorIs(t, err, ErrCommissionNotFound)
}

func TestGetPartnerEarnings(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)

	amounts := []int64{35000, 15000, 20000}
	var records []*models.PartnerCommission
	for _, price := range amounts {
		appt := createAppointment(t, db, customer.ID, price)
		record, err := svc.Create(partner.ID, appt.ID, nil, price, 20)
		require.NoError(t, err)
		records = append(records, record)
	}

	// pay out the first one
	_, err := svc.UpdateStatus(records[0].ID, models.CommissionStatusPaid)
	require.NoError(t, err)

	summary, err := svc.GetPartnerEarnings(partner.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.PaidCount)
	assert.Equal(t, int64(7000), summary.PaidAmount)
	assert.Equal(t, int64(2), summary.PendingCount)
	assert.Equal(t, int64(3000+4000), summary.PendingAmount)
	assert.Equal(t, int64(3), summary.TotalCount)
	assert.Equal(t, int64(14000), summary.TotalAmount)
}

func TestGetPartnerEarningsEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)

	summary, err := svc.GetPartnerEarnings(partner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalCount)
	assert.Equal(t, int64(0), summary.TotalAmount)
}

func TestListByPartnerNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCommissionService(db)
	partner := createUser(t, db, models.RolePartner)
	customer := createUser(t, db, models.RoleCustomer)

	base := time.Now().Add(-time.Hour)
	for i, price := range []int64{10000, 20000, 30000} {
		appt := createAppointment(t, db, customer.ID, price)
		record := models.PartnerCommission{
			PartnerID:     partner.ID,
			AppointmentID: appt.ID,
			OriginalPrice: price,
			Amount:        price / 5,
			Percent:       20,
			Status:        models.CommissionStatusPending,
		}
		record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&record).Error)
	}

	records, err := svc.ListByPartner(partner.ID)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, int64(30000), records[0].OriginalPrice)
	assert.Equal(t, int64(10000), records[2].OriginalPrice)
}
