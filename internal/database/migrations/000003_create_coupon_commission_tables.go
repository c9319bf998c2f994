package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateCouponCommissionTables creates the coupon, usage and commission
// tables. The unique indexes here are the correctness boundary for
// double-redemption and duplicate commissions, not the application prechecks.
func CreateCouponCommissionTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000003_create_coupon_commission_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS coupons (
					id UUID PRIMARY KEY,
					partner_id UUID NOT NULL REFERENCES users(id),
					code VARCHAR(64) NOT NULL UNIQUE,
					discount_percent INTEGER NOT NULL CHECK (discount_percent BETWEEN 1 AND 100),
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_coupons_partner_id ON coupons(partner_id);
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS coupon_usages (
					id UUID PRIMARY KEY,
					coupon_id UUID NOT NULL REFERENCES coupons(id),
					user_id UUID NOT NULL REFERENCES users(id),
					appointment_id UUID NOT NULL REFERENCES appointments(id),
					discount_amount BIGINT NOT NULL,
					used_at TIMESTAMP WITH TIME ZONE NOT NULL,
					CONSTRAINT idx_coupon_usage_coupon_user UNIQUE (coupon_id, user_id)
				);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS partner_commissions (
					id UUID PRIMARY KEY,
					partner_id UUID NOT NULL REFERENCES users(id),
					appointment_id UUID NOT NULL UNIQUE REFERENCES appointments(id),
					coupon_id UUID REFERENCES coupons(id),
					original_price BIGINT NOT NULL,
					amount BIGINT NOT NULL,
					percent INTEGER NOT NULL DEFAULT 20,
					status VARCHAR(20) NOT NULL DEFAULT 'pending',
					paid_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_partner_commissions_partner_id ON partner_commissions(partner_id);
				CREATE INDEX idx_partner_commissions_status ON partner_commissions(status);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS partner_commissions;
				DROP TABLE IF EXISTS coupon_usages;
				DROP TABLE IF EXISTS coupons;
			`).Error
		},
	}
}
