package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/service-scheduler/internal/config"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Migrate creates the schema, including the indexes gorm tags cannot
// express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Professional{},
		&models.Service{},
		&models.Availability{},
		&models.Appointment{},
		&models.Holiday{},
		&models.QueueTicket{},
		&models.QueueCounter{},
		&models.DeskAssignment{},
		&models.AuditLog{},
		&models.OutboxEvent{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// Um único ticket "waiting" por documento, local e dia.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_ticket_waiting_dni
		ON queue_tickets (date_key, location_id, dni)
		WHERE status = 'waiting'
	`).Error; err != nil {
		return fmt.Errorf("create waiting ticket index: %w", err)
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_outbox_pending
		ON outbox_events (id)
		WHERE published_at IS NULL
	`).Error; err != nil {
		return fmt.Errorf("create outbox index: %w", err)
	}

	return nil
}
