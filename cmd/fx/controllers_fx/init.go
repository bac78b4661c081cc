package controllers_fx

import (
	"contractflow/internal/api"
	"contractflow/internal/api/controllers"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(controllers.NewContractController),
	fx.Provide(controllers.NewPaymentController),
	fx.Provide(controllers.NewAdminController),
	fx.Provide(controllers.NewDashboardController),
	fx.Provide(provideHandlers),
)

func provideHandlers(
	contract *controllers.ContractController,
	payment *controllers.PaymentController,
	admin *controllers.AdminController,
	dashboard *controllers.DashboardController,
) api.Handlers {
	return api.Handlers{Contract: contract, Payment: payment, Admin: admin, Dashboard: dashboard}
}
