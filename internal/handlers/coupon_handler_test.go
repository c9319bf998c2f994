package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
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

// testRouter registers the handler behind a stub auth middleware that
// injects the given identity
func testRouter(db *gorm.DB, userID uuid.UUID, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("role", string(role))
		c.Next()
	})

	h := NewCouponHandler(db)
	router.POST("/partner/coupons", h.CreateCoupon)
	router.GET("/partner/coupons", h.ListCoupons)
	router.POST("/coupons/validate", h.ValidateCode)
	return router
}

func createPartner(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	partner := &models.User{
		Email:        fmt.Sprintf("p-%d@partners.test", time.Now().UnixNano()),
		PasswordHash: "x",
		FirstName:    "Pat",
		Role:         models.RolePartner,
		BusinessName: "Penguin",
	}
	require.NoError(t, db.Create(partner).Error)
	return partner
}

func TestCreateCouponEndpoint(t *testing.T) {
	db := setupTestDB(t)
	partner := createPartner(t, db)
	router := testRouter(db, partner.ID, models.RolePartner)

	body, _ := json.Marshal(gin.H{"discount_percent": 10})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/partner/coupons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Coupon
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "penguin10off", created.Code)
	assert.Equal(t, 10, created.DiscountPercent)
}

func TestCreateCouponEndpointRejectsBadPercent(t *testing.T) {
	db := setupTestDB(t)
	partner := createPartner(t, db)
	router := testRouter(db, partner.ID, models.RolePartner)

	body, _ := json.Marshal(gin.H{"discount_percent": 150})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/partner/coupons", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCodeEndpointReportsExactReason(t *testing.T) {
	db := setupTestDB(t)
	partner := createPartner(t, db)

	customer := &models.User{
		Email:         "c@users.test",
		PasswordHash:  "x",
		Role:          models.RoleCustomer,
		HasUsedCoupon: true,
	}
	require.NoError(t, db.Create(customer).Error)

	coupon := &models.Coupon{PartnerID: partner.ID, Code: "penguin10off", DiscountPercent: 10, Active: true}
	require.NoError(t, db.Create(coupon).Error)

	router := testRouter(db, customer.ID, models.RoleCustomer)

	body, _ := json.Marshal(gin.H{"code": "penguin10off"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "customer has already used a coupon", resp["error"])
}

func TestValidateCodeEndpointBadFormat(t *testing.T) {
	db := setupTestDB(t)
	customer := &models.User{Email: "c2@users.test", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(customer).Error)
	router := testRouter(db, customer.ID, models.RoleCustomer)

	body, _ := json.Marshal(gin.H{"code": "NOTVALID"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/coupons/validate", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
