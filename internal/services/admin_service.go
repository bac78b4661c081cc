package services

import (
	"context"
	"strings"

	"contractflow/internal/config"
	"contractflow/internal/models/request_models"
	"contractflow/internal/models/response_models"
	"contractflow/pkg/logger"
	"contractflow/pkg/memcache"
	"contractflow/pkg/utils"
)

const RoleAdmin = "admin"

type AdminServiceInterface interface {
	Login(ctx context.Context, request request_models.AdminLoginRequest) (*response_models.AdminLoginResponse, error)
}

type AdminService struct {
	cfg      *config.Config
	attempts memcache.AttemptStore
}

func NewAdminService(cfg *config.Config, attempts memcache.AttemptStore) AdminServiceInterface {
	return &AdminService{cfg: cfg, attempts: attempts}
}

func (a *AdminService) Login(ctx context.Context, request request_models.AdminLoginRequest) (*response_models.AdminLoginResponse, error) {
	username := strings.TrimSpace(request.Username)

	if a.cfg.Auth.JWTSecret == "" {
		logger.Warn(ctx, "admin login attempted but auth.jwt_secret is not set")
		return nil, utils.ErrInvalidCredentials
	}

	key := strings.ToLower(username)
	if a.attempts.Blocked(key) {
		logger.Warn(ctx, "admin login blocked", "username", username)
		return nil, utils.ErrTooManyAttempts
	}

	admin := a.cfg.FindAdmin(username)
	if admin == nil {
		a.attempts.Fail(key)
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(admin.PasswordHash, request.Password); err != nil {
		failures := a.attempts.Fail(key)
		logger.Info(ctx, "admin login rejected", "username", username, "failures", failures)
		return nil, utils.ErrInvalidCredentials
	}
	a.attempts.Reset(key)

	token, expiresAt, err := utils.CreateToken([]byte(a.cfg.Auth.JWTSecret), admin.Username, RoleAdmin, a.cfg.AdminTokenTTL())
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "admin logged in", "username", admin.Username)
	return &response_models.AdminLoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  admin.Username,
	}, nil
}
