package db_fx

import (
	"context"

	"contractflow/internal/config"
	"contractflow/internal/repositories"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideRepositories)

func provideRepositories(lc fx.Lifecycle, cfg *config.Config) (repositories.ContractRepository, repositories.DashboardRepository, error) {
	contracts, dashboard, closeFn, err := repositories.Open(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			closeFn()
			return nil
		},
	})
	return contracts, dashboard, nil
}
