package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateBookingTables creates the services and appointments tables. All
// monetary columns are integer cents.
func CreateBookingTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000002_create_booking_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS services (
					id UUID PRIMARY KEY,
					name VARCHAR(150) NOT NULL,
					description TEXT,
					price BIGINT NOT NULL,
					duration_minutes INTEGER NOT NULL DEFAULT 60,
					active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS appointments (
					id UUID PRIMARY KEY,
					user_id UUID NOT NULL REFERENCES users(id),
					service_id UUID NOT NULL REFERENCES services(id),
					starts_at TIMESTAMP WITH TIME ZONE NOT NULL,
					status VARCHAR(20) NOT NULL DEFAULT 'booked',
					original_price BIGINT NOT NULL,
					discount_amount BIGINT NOT NULL DEFAULT 0,
					final_price BIGINT NOT NULL,
					down_payment BIGINT NOT NULL DEFAULT 0,
					remaining_amount BIGINT NOT NULL DEFAULT 0,
					coupon_id UUID,
					payment_ref VARCHAR(64),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_appointments_user_id ON appointments(user_id);
				CREATE INDEX idx_appointments_starts_at ON appointments(starts_at);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS appointments;
				DROP TABLE IF EXISTS services;
			`).Error
		},
	}
}
