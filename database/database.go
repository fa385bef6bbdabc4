package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fms-tools/calendly-insights/config"
	"github.com/fms-tools/calendly-insights/internal/event"
	"github.com/fms-tools/calendly-insights/internal/synclog"
)

// Connect opens the single-file SQLite store. Safe to call on every
// startup; schema migration is handled separately by Migrate.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.DBPath, err)
	}

	// Single-process, single-writer tool. One connection keeps SQLite
	// from returning SQLITE_BUSY on interleaved reads and writes.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema. Idempotent, runs on every startup.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&event.Event{}, &event.Invitee{}, &synclog.Entry{})
}
