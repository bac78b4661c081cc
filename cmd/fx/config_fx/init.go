package config_fx

import (
	"log/slog"

	"contractflow/internal/config"
	"contractflow/pkg/logger"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideConfig)

func provideConfig() (*config.Config, error) {
	path := config.PathFromEnv()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	slog.Info("configuration loaded",
		"path", path,
		"database", cfg.Database.Driver,
		"payment_provider", cfg.Payment.Provider,
		"mail", cfg.Mail.Enabled,
		"uploads", cfg.Minio.Enabled,
	)
	return cfg, nil
}
