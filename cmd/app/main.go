package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"contractflow/cmd/fx/admin_fx"
	"contractflow/cmd/fx/asset_fx"
	"contractflow/cmd/fx/config_fx"
	"contractflow/cmd/fx/contract_fx"
	"contractflow/cmd/fx/controllers_fx"
	"contractflow/cmd/fx/dashboard_fx"
	"contractflow/cmd/fx/db_fx"
	"contractflow/cmd/fx/mail_fx"
	"contractflow/cmd/fx/memcache_fx"
	"contractflow/cmd/fx/payment_service_fx"
	"contractflow/internal/api"
	"contractflow/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title Contract Flow API
// @version 1.0
// @description Contract links, onboarding steps and deposit payments.
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app := fx.New(
		config_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		mail_fx.Module,
		asset_fx.Module,
		contract_fx.Module,
		payment_service_fx.Module,
		admin_fx.Module,
		dashboard_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func ProvideRouter(cfg *config.Config, h api.Handlers) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	return api.NewRouter(cfg, h)
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				slog.Info("starting HTTP server", "addr", srv.Addr, "base_url", cfg.Server.BaseURL)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("HTTP server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
