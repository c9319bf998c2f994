package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/services/appointment"
	"github.com/slotbook/backend/internal/services/payment"
	"github.com/slotbook/backend/internal/services/settlement"
	"gorm.io/gorm"
)

// BookingHandler drives the booking flow: quote, pay the down payment,
// finalize the settlement
type BookingHandler struct {
	db                 *gorm.DB
	appointmentService *appointment.AppointmentService
	settlementService  *settlement.SettlementService
	paymentService     *payment.PaymentService
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(db *gorm.DB, paymentService *payment.PaymentService) *BookingHandler {
	return &BookingHandler{
		db:                 db,
		appointmentService: appointment.NewAppointmentService(db),
		settlementService:  settlement.NewSettlementService(db),
		paymentService:     paymentService,
	}
}

// QuoteRequest asks for a pricing breakdown before booking
type QuoteRequest struct {
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	CouponCode string    `json:"coupon_code"`
}

// Quote validates the optional coupon and returns the full pricing breakdown
// without creating anything
func (h *BookingHandler) Quote(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := h.appointmentService.GetService(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	breakdown, err := h.settlementService.ValidateAndPrice(customerID, svc.Price, req.CouponCode)
	if err != nil {
		respondCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

// BookRequest creates an appointment and settles it
type BookRequest struct {
	ServiceID  uuid.UUID `json:"service_id" binding:"required"`
	StartsAt   time.Time `json:"starts_at" binding:"required"`
	CouponCode string    `json:"coupon_code"`
}

// Book runs the whole flow: validate and price, create the appointment,
// charge the down payment, then finalize redemption and commission in one
// settlement transaction
func (h *BookingHandler) Book(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	svc, err := h.appointmentService.GetService(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	// Validate up front so an ineligible coupon never reaches payment
	breakdown, err := h.settlementService.ValidateAndPrice(customerID, svc.Price, req.CouponCode)
	if err != nil {
		respondCouponError(c, err)
		return
	}

	appt, err := h.appointmentService.Create(customerID, req.ServiceID, req.StartsAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create appointment"})
		return
	}

	paymentRef, err := h.paymentService.CollectDownPayment(appt, c.GetString("email"), breakdown.DownPayment)
	if err != nil {
		if errors.Is(err, payment.ErrChargeDeclined) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment declined"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment failed"})
		return
	}

	result, err := h.settlementService.FinalizeSettlement(customerID, appt.ID, svc.Price, req.CouponCode)
	if err != nil {
		if errors.Is(err, settlement.ErrPartialSettlement) {
			// Payment was taken but the settlement rolled back; this needs an
			// operator, not a silent retry
			log.Printf("partial settlement for appointment %s: %v", appt.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed, contact support"})
			return
		}
		respondCouponError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment_id": result.AppointmentID,
		"payment_ref":    paymentRef,
		"breakdown":      result.Breakdown,
		"commission_id":  result.CommissionID,
	})
}

// ListBookings returns the authenticated customer's appointments
func (h *BookingHandler) ListBookings(c *gin.Context) {
	customerID, ok := currentUserID(c)
	if !ok {
		return
	}

	appts, err := h.appointmentService.ListByCustomer(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, appts)
}

// ListServices returns the bookable services
func (h *BookingHandler) ListServices(c *gin.Context) {
	services, err := h.appointmentService.ListServices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, services)
}
