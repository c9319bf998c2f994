package jobs

import (
	"log"

	"github.com/go-co-op/gocron"
	"github.com/slotbook/backend/internal/models"
	"gorm.io/gorm"
)

// CommissionSummaryJob logs a daily snapshot of outstanding partner payouts.
// Read-only: it never touches commission state.
type CommissionSummaryJob struct {
	db *gorm.DB
}

// NewCommissionSummaryJob creates a new commission summary job
func NewCommissionSummaryJob(db *gorm.DB) *CommissionSummaryJob {
	return &CommissionSummaryJob{db: db}
}

// Register schedules the job on the shared scheduler
func (j *CommissionSummaryJob) Register(scheduler *gocron.Scheduler) error {
	_, err := scheduler.Every(1).Day().At("06:00").Do(j.Run)
	return err
}

// Run computes and logs the pending payout totals
func (j *CommissionSummaryJob) Run() {
	var row struct {
		Count int64
		Total int64
	}
	err := j.db.Model(&models.PartnerCommission{}).
		Select("COUNT(*) as count, COALESCE(SUM(amount), 0) as total").
		Where("status = ?", models.CommissionStatusPending).
		Scan(&row).Error
	if err != nil {
		log.Printf("commission summary failed: %v", err)
		return
	}
	log.Printf("pending partner commissions: %d records, %d cents outstanding", row.Count, row.Total)
}
