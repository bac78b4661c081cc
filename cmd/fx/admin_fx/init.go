package admin_fx

import (
	"contractflow/internal/config"
	"contractflow/internal/services"
	"contractflow/pkg/memcache"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideAdminService)

func provideAdminService(cfg *config.Config, attempts memcache.AttemptStore) services.AdminServiceInterface {
	return services.NewAdminService(cfg, attempts)
}
