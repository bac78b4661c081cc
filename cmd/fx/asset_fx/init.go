package asset_fx

import (
	"context"
	"log/slog"

	"contractflow/internal/config"
	"contractflow/internal/services"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideAssetStore)

func provideAssetStore(lc fx.Lifecycle, cfg *config.Config) (services.AssetStore, error) {
	if !cfg.Minio.Enabled {
		slog.Info("object storage disabled, logo and receipt uploads will be refused")
		return services.NewDisabledAssetStore(), nil
	}

	store, err := services.NewMinioAssetStore(cfg.Minio)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return store.EnsureBucket(ctx)
		},
	})
	return store, nil
}
