package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"

	commissionsvc "github.com/slotbook/backend/internal/services/commission"
)

// CommissionHandler exposes partner earnings and admin payout management
type CommissionHandler struct {
	db                *gorm.DB
	commissionService *commissionsvc.CommissionService
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(db *gorm.DB) *CommissionHandler {
	return &CommissionHandler{
		db:                db,
		commissionService: commissionsvc.NewCommissionService(db),
	}
}

// GetEarnings returns the authenticated partner's earnings summary
func (h *CommissionHandler) GetEarnings(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.commissionService.GetPartnerEarnings(partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute earnings"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListCommissions returns the authenticated partner's commissions, newest first
func (h *CommissionHandler) ListCommissions(c *gin.Context) {
	partnerID, ok := currentUserID(c)
	if !ok {
		return
	}

	records, err := h.commissionService.ListByPartner(partnerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list commissions"})
		return
	}
	c.JSON(http.StatusOK, records)
}

// UpdateStatusRequest is the payload for commission status changes
type UpdateStatusRequest struct {
	Status models.CommissionStatus `json:"status" binding:"required"`
}

// UpdateStatus moves a commission to a new payout state (admin only)
func (h *CommissionHandler) UpdateStatus(c *gin.Context) {
	commissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid commission ID"})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.commissionService.UpdateStatus(commissionID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, commissionsvc.ErrCommissionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, commissionsvc.ErrInvalidStatus),
			errors.Is(err, commissionsvc.ErrInvalidStatusTransition):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusOK, record)
}
