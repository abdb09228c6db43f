package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meinhoongagan/hospital-app/models"
)

// slotIndex stops two live appointments from holding the same doctor slot.
const slotIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_live_slot
	ON appointments (doctor_id, date, time)
	WHERE status <> 'cancelled'`

// emailIndex makes account emails unique regardless of case.
const emailIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_lower
	ON users (lower(email))`

// Migrate creates or updates the account and appointment schema.
func Migrate(gdb *gorm.DB, log *zap.Logger) error {
	if err := gdb.AutoMigrate(&models.User{}, &models.Appointment{}); err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}
	if err := gdb.Exec(emailIndex).Error; err != nil {
		return fmt.Errorf("creating email index: %w", err)
	}
	if err := gdb.Exec(slotIndex).Error; err != nil {
		return fmt.Errorf("creating slot index: %w", err)
	}
	log.Info("migrations applied successfully")
	return nil
}
