// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ReconcileInline = "inline"
	ReconcileQueue  = "queue"
)

// Config is shared by the api, worker and shopctl binaries.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	RunLocal bool   `env:"RUN_LOCAL"`

	AWSRegion           string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSEndpointOverride string `env:"AWS_ENDPOINT_OVERRIDE"`

	ProductsTable string `env:"PRODUCTS_TABLE" envDefault:"products"`
	CartsTable    string `env:"CARTS_TABLE" envDefault:"carts"`
	AccountsTable string `env:"ACCOUNTS_TABLE" envDefault:"accounts"`

	ReconcileMode     string `env:"RECONCILE_MODE" envDefault:"inline"`
	ReconcileQueueURL string `env:"RECONCILE_QUEUE_URL"`

	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"168h"`
	CookieSecure   bool          `env:"COOKIE_SECURE"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`

	MetricsNamespace string `env:"METRICS_NAMESPACE"`
	OTelEndpoint     string `env:"OTEL_ENDPOINT"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"storefront-api"`
}

// Load reads an optional .env file, parses the environment and validates
// the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings every binary depends on.
func (c Config) Validate() error {
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	switch c.ReconcileMode {
	case ReconcileInline:
	case ReconcileQueue:
		if c.ReconcileQueueURL == "" {
			return errors.New("config: RECONCILE_QUEUE_URL is required when RECONCILE_MODE=queue")
		}
	default:
		return fmt.Errorf("config: unknown RECONCILE_MODE %q", c.ReconcileMode)
	}
	return nil
}

// ValidateAuth checks the settings needed to issue or resolve tokens. The
// worker never touches credentials and skips it.
func (c Config) ValidateAuth() error {
	if c.JWTSecret == "" {
		return errors.New("config: JWT_SECRET is required")
	}
	return nil
}
