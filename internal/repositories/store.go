package repositories

import (
	"log/slog"

	"contractflow/internal/config"
	"contractflow/internal/infra"
)

// Open builds the repositories for the configured driver. The returned
// close func is never nil.
func Open(cfg config.DatabaseConfig) (ContractRepository, DashboardRepository, func(), error) {
	if cfg.Driver == "memory" {
		slog.Warn("using in-memory contract store, data is lost on restart")
		store := NewMemoryContractRepository()
		return store, store, func() {}, nil
	}

	db, err := infra.InitPostgresql(cfg)
	if err != nil {
		return nil, nil, func() {}, err
	}
	return NewContractRepository(db), NewDashboardRepository(db), func() { infra.ClosePostgresql(db) }, nil
}
