// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime value the app reads. The backend pair is
// required outright; the payment keys are only required by the payment layer,
// which refuses to initialize without them while the rest of the app runs.
type Config struct {
	BackendURL     string `envconfig:"BACKEND_URL" required:"true"`
	BackendAnonKey string `envconfig:"BACKEND_ANON_KEY" required:"true"`

	StripePublishableKey string `envconfig:"STRIPE_PUBLISHABLE_KEY"`
	PaymentPageURL       string `envconfig:"PAYMENT_PAGE_URL"`
	MerchantDisplayName  string `envconfig:"MERCHANT_DISPLAY_NAME" default:"Pilates Studio SLRC"`

	DataDir string `envconfig:"PILATES_DATA_DIR"`
	LogFile string `envconfig:"PILATES_LOG_FILE"`
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // absent .env is fine; real env wins either way

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: resolve home dir: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".pilates")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.DataDir, "pilates.log")
	}
	return &cfg, nil
}

// StoragePath is the local key-value store file.
func (c *Config) StoragePath() string {
	return filepath.Join(c.DataDir, "storage.json")
}
