package dashboard_fx

import (
	"contractflow/internal/config"
	"contractflow/internal/repositories"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideDashboardService)

func provideDashboardService(dashboardRepo repositories.DashboardRepository, cfg *config.Config, clock utils.Clock) services.DashboardService {
	return services.NewDashboardService(dashboardRepo, cfg.Payment.Currency, cfg.Contract.DocumentTimezone, clock)
}
