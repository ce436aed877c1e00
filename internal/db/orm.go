package db

import (
	"fmt"

	"steel-ledger/mtrledger/internal/config"
	"steel-ledger/mtrledger/internal/logging"
	gormModels "steel-ledger/mtrledger/internal/models/gorm"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitORM opens the configured datastore through GORM.
func InitORM(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want postgres or sqlite)", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "sqlite" {
		// sqlite allows one writer; a single connection keeps transactions from tripping over each other
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	logging.Info("Connected to datastore via GORM", "driver", cfg.DBDriver)
	return db, nil
}

// Migrate creates or updates the mtr_data and inventory tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&gormModels.MtrRecord{}, &gormModels.InventoryRecord{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
