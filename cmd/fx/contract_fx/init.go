package contract_fx

import (
	"contractflow/internal/config"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	provideClock,
	provideTokenGenerator,
	providePackageCatalog,
	services.NewContractService,
)

func provideClock() utils.Clock {
	return utils.SystemClock
}

func provideTokenGenerator(cfg *config.Config) (services.TokenGenerator, error) {
	return services.NewTokenGenerator(cfg.Contract.TokenLength)
}

func providePackageCatalog(cfg *config.Config) (*services.PackageCatalog, error) {
	return services.NewPackageCatalog(cfg.Contract.PackagePrices)
}
