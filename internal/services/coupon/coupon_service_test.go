package coupon

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slotbook/backend/internal/database"
	"github.com/slotbook/backend/internal/models"
)

// setupTestDB creates an in-memory database with the full schema
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

func createPartner(t *testing.T, db *gorm.DB, businessName string) *models.User {
	t.Helper()
	partner := &models.User{
		Email:        fmt.Sprintf("%s-%d@partners.test", businessName, time.Now().UnixNano()),
		PasswordHash: "x",
		FirstName:    "Pat",
		Role:         models.RolePartner,
		BusinessName: businessName,
	}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func createCustomer(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	customer := &models.User{
		Email:        fmt.Sprintf("customer-%d@users.test", time.Now().UnixNano()),
		PasswordHash: "x",
		FirstName:    "Casey",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func TestCreateCouponGeneratesCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")

	coupon, err := svc.CreateCoupon(partner.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, "penguin10off", coupon.Code)
	assert.Equal(t, 10, coupon.DiscountPercent)
	assert.True(t, coupon.Active)
	assert.Equal(t, partner.ID, coupon.PartnerID)
	assert.NoError(t, ValidateFormat(coupon.Code))
}

func TestCreateCouponFallsBackToFirstName(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "")

	coupon, err := svc.CreateCoupon(partner.ID, 25)
	require.NoError(t, err)
	assert.Equal(t, "pat25off", coupon.Code)
}

func TestCreateCouponRejectsBadPercent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")

	for _, percent := range []int{0, -5, 101} {
		_, err := svc.CreateCoupon(partner.ID, percent)
		assert.ErrorIs(t, err, ErrInvalidDiscountRange, "percent %d", percent)
	}
}

func TestCreateCouponRejectsUnknownPartner(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	customer := createCustomer(t, db)

	// a customer cannot own coupons
	_, err := svc.CreateCoupon(customer.ID, 10)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestCreateCouponResolvesCollisionWithSuffix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")

	first, err := svc.CreateCoupon(partner.ID, 10)
	require.NoError(t, err)

	second, err := svc.CreateCoupon(partner.ID, 10)
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
	assert.NoError(t, ValidateFormat(second.Code))
}

func TestGetByCode(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")

	created, err := svc.CreateCoupon(partner.ID, 10)
	require.NoError(t, err)

	found, err := svc.GetByCode(created.Code)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.GetByCode("nosuchcode10off")
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestListByPartnerNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")
	other := createPartner(t, db, "Walrus")

	base := time.Now().Add(-time.Hour)
	for i, percent := range []int{5, 10, 15} {
		coupon := models.Coupon{
			PartnerID:       partner.ID,
			Code:            fmt.Sprintf("penguin%doff", percent),
			DiscountPercent: percent,
			Active:          true,
		}
		coupon.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&coupon).Error)
	}
	_, err := svc.CreateCoupon(other.ID, 50)
	require.NoError(t, err)

	coupons, err := svc.ListByPartner(partner.ID)
	require.NoError(t, err)
	require.Len(t, coupons, 3)
	assert.Equal(t, 15, coupons[0].DiscountPercent)
	assert.Equal(t, 10, coupons[1].DiscountPercent)
	assert.Equal(t, 5, coupons[2].DiscountPercent)
}

func TestSetActive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCouponService(db)
	partner := createPartner(t, db, "Penguin")

	created, err := svc.CreateCoupon(partner.ID, 10)
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(created.ID, false))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, "id = ?", created.ID).Error)
	assert.False(t, reloaded.Active)

	err = svc.SetActive(createCustomer(t, db).ID, true)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"penguin10off", nil},
		{"walrus100off", nil},
		{"a1off", nil},
		{"", ErrEmptyCode},
		{"penguin10", ErrMalformedCode},
		{"10off", ErrMalformedCode},
		{"Penguin10off", ErrMalformedCode},
		{"penguin off", ErrMalformedCode},
		{"penguin0off", ErrCodePercentInvalid},
		{"penguin101off", ErrCodePercentInvalid},
		{"penguin999off", ErrCodePercentInvalid},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.code)
		if tt.want == nil {
			assert.NoError(t, err, "code %q", tt.code)
		} else {
			assert.ErrorIs(t, err, tt.want, "code %q", tt.code)
		}
	}
}
