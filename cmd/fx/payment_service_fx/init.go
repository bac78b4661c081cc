package payment_service_fx

import (
	"log/slog"

	"contractflow/internal/config"
	"contractflow/internal/payment"
	"contractflow/internal/services"
	"go.uber.org/fx"
)

var Module = fx.Provide(
	providePaymentProvider, services.NewPaymentService,
)

func providePaymentProvider(cfg *config.Config) payment.Provider {
	if cfg.Payment.SecretKey == "" {
		slog.Warn("payment.secret_key is not set, card payments will fail until it is configured")
	}
	return payment.NewHostedCheckoutGateway(cfg.Payment)
}
