package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Contract  ContractConfig  `yaml:"contract"`
	Payment   PaymentConfig   `yaml:"payment"`
	Mail      MailConfig      `yaml:"mail"`
	Minio     MinioConfig     `yaml:"minio"`
	Auth      AuthConfig      `yaml:"auth"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
	// BaseURL is where this API is reachable; provider redirects land here.
	BaseURL string `yaml:"base_url"`
	// FrontendURL hosts the buyer-facing contract pages.
	FrontendURL         string `yaml:"frontend_url"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type DatabaseConfig struct {
	Driver      string `yaml:"driver"` // postgres, memory
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

type ContractConfig struct {
	DefaultExpiryDays  int              `yaml:"default_expiry_days"`
	MinExpiryDays      int              `yaml:"min_expiry_days"`
	MaxExpiryDays      int              `yaml:"max_expiry_days"`
	TokenLength        int              `yaml:"token_length"`
	BusinessName       string           `yaml:"business_name"`
	DocumentTimezone   string           `yaml:"document_timezone"`
	DefaultCountryCode string           `yaml:"default_country_code"`
	PackagePrices      map[string]int64 `yaml:"package_prices"`
}

type PaymentConfig struct {
	Provider       string `yaml:"provider"`
	BaseURL        string `yaml:"base_url"`
	SecretKey      string `yaml:"secret_key"`
	Currency       string `yaml:"currency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CheckoutTitle  string `yaml:"checkout_title"`
	CheckoutLogo   string `yaml:"checkout_logo"`
}

type MailConfig struct {
	Enabled      bool   `yaml:"enabled"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	From         string `yaml:"from"`
	FromName     string `yaml:"from_name"`
	UseSSL       bool   `yaml:"use_ssl"`
	RequireTLS   bool   `yaml:"require_tls"`
	OwnerAddress string `yaml:"owner_address"`
}

type MinioConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	Bucket        string `yaml:"bucket"`
	UseSSL        bool   `yaml:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxUploadMB   int64  `yaml:"max_upload_mb"`
}

type AuthConfig struct {
	JWTSecret        string      `yaml:"jwt_secret"`
	TokenExpireHours int         `yaml:"token_expire_hours"`
	Admins           []AdminUser `yaml:"admins"`
	// MaxLoginAttempts failures lock a username for LockoutMinutes.
	MaxLoginAttempts int `yaml:"max_login_attempts"`
	LockoutMinutes   int `yaml:"lockout_minutes"`
}

type AdminUser struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"` // bcrypt
}

type RateLimitConfig struct {
	Requests      int `yaml:"requests"`
	WindowSeconds int `yaml:"window_seconds"`
}

const DefaultPath = "config.yaml"

// PathFromEnv returns CONFIG_PATH, else config.yaml when it exists, else ""
// meaning environment variables and defaults only.
func PathFromEnv() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	if _, err := os.Stat(DefaultPath); err == nil {
		return DefaultPath
	}
	return ""
}

// Load reads an optional .env file, the YAML file at path, then environment
// overrides for secrets.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	setString(&c.Database.DSN, "DATABASE_URL", "POSTGRES_URL")
	setString(&c.Payment.SecretKey, "PAYMENT_SECRET_KEY")
	setString(&c.Mail.Password, "SMTP_PASSWORD")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Server.FrontendURL == "" {
		c.Server.FrontendURL = c.Server.BaseURL
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 30
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "postgres"
	}
	if c.Contract.DefaultExpiryDays == 0 {
		c.Contract.DefaultExpiryDays = 7
	}
	if c.Contract.MinExpiryDays == 0 {
		c.Contract.MinExpiryDays = 1
	}
	if c.Contract.MaxExpiryDays == 0 {
		c.Contract.MaxExpiryDays = 30
	}
	if c.Contract.TokenLength == 0 {
		c.Contract.TokenLength = 16
	}
	if c.Contract.DocumentTimezone == "" {
		c.Contract.DocumentTimezone = "UTC"
	}
	if c.Payment.Provider == "" {
		c.Payment.Provider = "flutterwave"
	}
	if c.Payment.BaseURL == "" {
		c.Payment.BaseURL = "https://api.flutterwave.com/v3"
	}
	if c.Payment.Currency == "" {
		c.Payment.Currency = "NGN"
	}
	c.Payment.Currency = strings.ToUpper(c.Payment.Currency)
	if c.Payment.TimeoutSeconds == 0 {
		c.Payment.TimeoutSeconds = 15
	}
	if c.Mail.Port == 0 {
		c.Mail.Port = 587
	}
	if c.Minio.MaxUploadMB == 0 {
		c.Minio.MaxUploadMB = 5
	}
	if c.Auth.TokenExpireHours == 0 {
		c.Auth.TokenExpireHours = 12
	}
	if c.Auth.MaxLoginAttempts == 0 {
		c.Auth.MaxLoginAttempts = 5
	}
	if c.Auth.LockoutMinutes == 0 {
		c.Auth.LockoutMinutes = 15
	}
	if c.RateLimit.Requests == 0 {
		c.RateLimit.Requests = 120
	}
	if c.RateLimit.WindowSeconds == 0 {
		c.RateLimit.WindowSeconds = 60
	}
}

func (c *Config) Validate() error {
	ct := c.Contract
	if ct.TokenLength < 12 {
		return fmt.Errorf("contract.token_length must be at least 12, got %d", ct.TokenLength)
	}
	if ct.MinExpiryDays < 1 || ct.MinExpiryDays > ct.MaxExpiryDays {
		return fmt.Errorf("contract expiry range %d-%d is invalid", ct.MinExpiryDays, ct.MaxExpiryDays)
	}
	if ct.DefaultExpiryDays < ct.MinExpiryDays || ct.DefaultExpiryDays > ct.MaxExpiryDays {
		return fmt.Errorf("contract.default_expiry_days %d outside %d-%d", ct.DefaultExpiryDays, ct.MinExpiryDays, ct.MaxExpiryDays)
	}
	for code, price := range ct.PackagePrices {
		if price < 0 {
			return fmt.Errorf("contract.package_prices.%s must not be negative", code)
		}
	}
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if len(c.Payment.Currency) != 3 {
		return fmt.Errorf("payment.currency must be an ISO 4217 code, got %q", c.Payment.Currency)
	}
	return nil
}

func (c *Config) PaymentTimeout() time.Duration {
	return time.Duration(c.Payment.TimeoutSeconds) * time.Second
}

func (c *Config) AdminTokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenExpireHours) * time.Hour
}

func (c *Config) LoginLockout() time.Duration {
	return time.Duration(c.Auth.LockoutMinutes) * time.Minute
}

func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// FindAdmin finds a back-office user by username.
func (c *Config) FindAdmin(username string) *AdminUser {
	for i := range c.Auth.Admins {
		if c.Auth.Admins[i].Username == username {
			return &c.Auth.Admins[i]
		}
	}
	return nil
}
