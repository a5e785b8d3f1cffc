// Package config loads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// BaseConfig is the service configuration. Every field maps to an
// ACCOUNTS_ prefixed environment variable.
type BaseConfig struct {
	Addr            string        `env:"ADDR"            envDefault:":8080"`
	SecretKey       string        `env:"SECRET_KEY"`
	PasswordSalt    string        `env:"PASSWORD_SALT"   envDefault:"email-confirmation"`
	TokenExpiration time.Duration `env:"TOKEN_TTL"       envDefault:"1h"`
	LinkBaseURL     string        `env:"LINK_BASE_URL"   envDefault:"http://localhost:8080/api"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	Persistence     Persistence   `envPrefix:"DB_"`
	Log             Log           `envPrefix:"LOG_"`
}

// Persistence configures the database
type Persistence struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DSN"    envDefault:"file:data.db?cache=shared"`
	Debug  bool   `env:"DEBUG"  envDefault:"false"`
}

// Log configures the logger
type Log struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses the environment into a BaseConfig and validates it
func Load() (*BaseConfig, error) {
	cfg := &BaseConfig{}
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "ACCOUNTS_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c BaseConfig) Validate() error {
	var errs []error

	if c.SecretKey == "" {
		errs = append(errs, errors.New("ACCOUNTS_SECRET_KEY is required"))
	}

	if c.TokenExpiration <= 0 {
		errs = append(errs, errors.New("ACCOUNTS_TOKEN_TTL must be positive"))
	}

	switch strings.ToLower(c.Persistence.Driver) {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported ACCOUNTS_DB_DRIVER %q", c.Persistence.Driver))
	}

	return errors.Join(errs...)
}

func (c BaseConfig) GetSecretKey() string { return c.SecretKey }

func (c BaseConfig) GetPasswordSalt() string { return c.PasswordSalt }

func (c BaseConfig) GetTokenExpiration() time.Duration { return c.TokenExpiration }

func (c BaseConfig) GetLinkBaseURL() string { return c.LinkBaseURL }

func (c BaseConfig) GetPersistence() Persistence { return c.Persistence }

func (c BaseConfig) GetLog() Log { return c.Log }
