package infra

import (
	"errors"
	"fmt"
	"log/slog"

	"contractflow/internal/config"
	"contractflow/internal/models/db_models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitPostgresql(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is empty, set database.dsn or POSTGRES_URL")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		// Surfaces unique violations as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	slog.Info("postgres connection established", "auto_migrate", cfg.AutoMigrate)
	return db, nil
}

// Migrate creates the contracts table with its unique token index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&db_models.Contract{}); err != nil {
		return fmt.Errorf("migrate contracts: %w", err)
	}
	return nil
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("error getting database instance", "error", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		slog.Error("error closing database connection", "error", err)
	} else {
		slog.Info("postgres connection closed")
	}
}
