package memcache_fx

import (
	"contractflow/internal/config"
	"contractflow/pkg/memcache"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideLoginAttempts)

func provideLoginAttempts(cfg *config.Config) memcache.AttemptStore {
	return memcache.NewLoginAttempts(cfg.Auth.MaxLoginAttempts, cfg.LoginLockout())
}
