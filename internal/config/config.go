// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for all environment variables.
const EnvPrefix = "LEDGER"

// Environments.
const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Config is the root configuration for the stock ledger service.
type Config struct {
	App  AppConfig
	HTTP HTTPConfig
	DB   DBConfig
	JWT  JWTConfig
	Log  LogConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env     string `envconfig:"LEDGER_APP_ENV" default:"dev"`
	Name    string `envconfig:"LEDGER_APP_NAME" default:"stockledger"`
	Version string `envconfig:"LEDGER_APP_VERSION" default:"0.1.0"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Addr            string        `envconfig:"LEDGER_HTTP_ADDR" default:":8080"`
	ReadTimeout     time.Duration `envconfig:"LEDGER_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"LEDGER_HTTP_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"LEDGER_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	DSN             string        `envconfig:"LEDGER_DB_DSN" required:"true"`
	MaxConns        int32         `envconfig:"LEDGER_DB_MAX_CONNS" default:"25"`
	MinConns        int32         `envconfig:"LEDGER_DB_MIN_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LEDGER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LEDGER_DB_CONN_MAX_IDLE_TIME" default:"30m"`
}

// JWTConfig holds settings for validating bearer tokens issued by the
// external identity service.
type JWTConfig struct {
	Secret string `envconfig:"LEDGER_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"LEDGER_JWT_ISSUER" default:"identity"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level       string `envconfig:"LEDGER_LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LEDGER_LOG_DEVELOPMENT" default:"false"`
}
