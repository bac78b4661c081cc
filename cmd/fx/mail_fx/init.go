package mail_fx

import (
	"log/slog"

	"contractflow/internal/config"
	"contractflow/internal/services"
	"contractflow/pkg/utils"
	"go.uber.org/fx"
)

var Module = fx.Provide(provideNotifier)

func provideNotifier(cfg *config.Config) (services.Notifier, error) {
	if !cfg.Mail.Enabled {
		slog.Info("mail disabled, payment confirmations are only logged")
		return services.NewLogNotifier(), nil
	}

	appName := cfg.Mail.FromName
	if appName == "" {
		appName = cfg.Contract.BusinessName
	}

	mailService, err := services.NewSMTPMailService(cfg.Mail, appName)
	if err != nil {
		return nil, err
	}

	return services.NewMailNotifier(mailService, services.MailNotifierConfig{
		OwnerAddress: cfg.Mail.OwnerAddress,
		BusinessName: cfg.Contract.BusinessName,
		FrontendURL:  cfg.Server.FrontendURL,
		Location:     utils.LoadLocation(cfg.Contract.DocumentTimezone, 0),
	}), nil
}
