// Package config loads the engine and service configuration from
// config/engine.yaml, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/valuation"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// DefaultPath is where the services look for their configuration.
const DefaultPath = "config/engine.yaml"

// EngineConfig is the full configuration tree.
type EngineConfig struct {
	Projection projection.Config    `yaml:"projection"`
	IRR        valuation.IRROptions `yaml:"irr"`
	Server     ServerConfig         `yaml:"server"`
	Database   DatabaseConfig       `yaml:"database"`
	Telemetry  TelemetryConfig      `yaml:"telemetry"`
	Logging    LoggingConfig        `yaml:"logging"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the result store: Postgres when URL is set, SQLite
// when SQLitePath is set, memory otherwise.
type DatabaseConfig struct {
	URL        string `yaml:"url"`
	SQLitePath string `yaml:"sqlite_path"`
}

type TelemetryConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"` // Tracing is off when empty
	ServiceName  string `yaml:"service_name"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the configuration used when no file is present.
func Default() EngineConfig {
	return EngineConfig{
		Projection: projection.DefaultConfig(),
		IRR:        valuation.DefaultIRROptions(),
		Server:     ServerConfig{Addr: ":8080"},
		Telemetry:  TelemetryConfig{ServiceName: "business-planner"},
		Logging:    LoggingConfig{Level: "info", Format: "text"},
	}
}

// LoadEnv loads .env if present. A missing file is not an error.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// Load reads the YAML file at path over the defaults, then applies environment
// overrides. A missing file yields the defaults plus overrides.
func Load(path string) (EngineConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overrides file values with DATABASE_URL and ENGINE_* variables.
func applyEnv(cfg *EngineConfig) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("ENGINE_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ENGINE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("ENGINE_OTLP_ENDPOINT"); v != "" {
		cfg.Telemetry.OTLPEndpoint = v
	}
	if v := os.Getenv("ENGINE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ENGINE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("ENGINE_MAX_PERIODS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ENGINE_MAX_PERIODS: %w", err)
		}
		cfg.Projection.MaxPeriods = n
	}
	if v := os.Getenv("ENGINE_COGS_RATIO"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("ENGINE_COGS_RATIO: %w", err)
		}
		cfg.Projection.COGSRatio = f
	}
	return nil
}
