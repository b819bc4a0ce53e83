// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port          int    `yaml:"port"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	JWTSecret   string   `yaml:"jwt_secret"`
	AdminEmails []string `yaml:"admin_emails"` // allow-list in addition to role=admin
}

type PayPalConfig struct {
	ClientID           string `yaml:"client_id"`
	ClientSecret       string `yaml:"client_secret"`
	Sandbox            bool   `yaml:"sandbox"`
	SubscriptionPlanID string `yaml:"subscription_plan_id"`
	SuccessURL         string `yaml:"success_url"` // browser redirect after subscription activation
	FailureURL         string `yaml:"failure_url"`
}

type PackageConfig struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Plan         string  `yaml:"plan"` // Basic|Pro|Plus
	OneTimePrice float64 `yaml:"one_time_price"`
}

type CatalogConfig struct {
	Currency   string          `yaml:"currency"`
	ContactFee float64         `yaml:"contact_fee"`
	Packages   []PackageConfig `yaml:"packages"`
}

type LeadsConfig struct {
	RequireGuestToken bool `yaml:"require_guest_token"`
}

type CheckoutConfig struct {
	// DirectEnabled exposes the public direct-purchase endpoints; the lead
	// funnel keeps working when this is off.
	DirectEnabled bool `yaml:"direct_enabled"`
}

type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`
	PostmarkToken  string `yaml:"postmark_token"`
	EmailFrom      string `yaml:"email_from"`
}

type ReconcilerConfig struct {
	Interval   time.Duration `yaml:"interval"`
	StaleAfter time.Duration `yaml:"stale_after"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Auth       AuthConfig       `yaml:"auth"`
	PayPal     PayPalConfig     `yaml:"paypal"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Leads      LeadsConfig      `yaml:"leads"`
	Checkout   CheckoutConfig   `yaml:"checkout"`
	Notify     NotifyConfig     `yaml:"notify"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Catalog.Currency == "" {
		cfg.Catalog.Currency = "USD"
	}
	if cfg.Reconciler.Interval <= 0 {
		cfg.Reconciler.Interval = time.Minute
	}
	if cfg.Reconciler.StaleAfter <= 0 {
		cfg.Reconciler.StaleAfter = 10 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	// Dev runs may use the noop gateway without credentials.
	if !dev && (cfg.PayPal.ClientID == "" || cfg.PayPal.ClientSecret == "") {
		return nil, errors.New("paypal.client_id and paypal.client_secret are required")
	}
	if len(cfg.Catalog.Packages) == 0 {
		return nil, errors.New("catalog.packages must not be empty")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
