package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/services/coupon"
	"gorm.io/gorm"
)

// CouponHandler handles partner coupon management and admin activation
type CouponHandler struct {
	db            *gorm.DB
	couponService *coupon.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *gorm.DB) *CouponHandler {
	return &CouponHandler{
		db:            db,
		couponService: coupon.NewCouponService(db),
	}
}

// CreateCouponRequest is the payload for coupon creation
type CreateCouponRequest struct {
	DiscountPercent int `json:"discount_percent" binding:"required"`
}

// CreateCoupon creates a coupon for the authenticated partner
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.couponService.CreateCoupon(partnerID, req.DiscountPercent)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateCouponForPartner creates a coupon on a partner's behalf (admin only)
func (h *CouponHandler) CreateCouponForPartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid partner ID"})
		return
	}

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.couponService.CreateCoupon(partnerID, req.DiscountPercent)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListCoupons lists the authenticated partner's coupons, newest first
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		return
	}

	coupons, err := h.couponService.ListByPartner(partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list coupons"})
		return
	}
	c.JSON(http.StatusOK, coupons)
}

// SetActiveRequest is the payload for coupon activation toggling
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive toggles a coupon's active flag (admin only)
func (h *CouponHandler) SetActive(c *gin.Context) {
	couponID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coupon ID"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.couponService.SetActive(couponID, *req.Active); err != nil {
		respondCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "coupon updated"})
}

// ValidateCodeRequest is the payload for coupon validation
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCode checks a code's format and the current customer's eligibility.
// The response carries the exact rejection reason so the booking flow can
// show it verbatim.
func (h *CouponHandler) ValidateCode(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := coupon.ValidateFormat(req.Code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}

	elig, err := h.couponService.CheckEligibility(req.Code, customerID)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":            true,
		"discount_percent": elig.DiscountPercent,
	})
}

// currentUserID reads the authenticated user's id set by the auth middleware
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.GetString("user_id")
	if idStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return uuid.Nil, false
	}
	return id, true
}

// respondCouponError maps coupon service errors to HTTP statuses, keeping
// the business reason in the response body
func respondCouponError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, coupon.ErrCouponNotFound),
		errors.Is(err, coupon.ErrPartnerNotFound),
		errors.Is(err, coupon.ErrCustomerNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, coupon.ErrInvalidDiscountRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, coupon.ErrCouponAlreadyUsed),
		errors.Is(err, coupon.ErrCouponAlreadyUsedForCoupon),
		errors.Is(err, coupon.ErrDuplicateRedemption),
		errors.Is(err, coupon.ErrCodeCollision):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
