// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/rl1809/stock-service/internal/core/domain"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr        string        `env:"GRPC_ADDR" envDefault:":50051"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	DBDriver       string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN          string `env:"DB_DSN" envDefault:"project.db"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"50"`

	// RedisAddr is optional, caching and idempotency are disabled without it.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"100"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	OTELEndpoint string `env:"OTEL_ENDPOINT"`
	ServiceName  string `env:"SERVICE_NAME" envDefault:"stock-service"`

	Pricing Pricing `envPrefix:"PRICE_"`
}

type Pricing struct {
	Base           float64 `env:"BASE" envDefault:"10"`
	DemandFactor   float64 `env:"DEMAND_FACTOR" envDefault:"0.5"`
	StockFactor    float64 `env:"STOCK_FACTOR" envDefault:"0.3"`
	StockReference float64 `env:"STOCK_REFERENCE" envDefault:"100"`
	FloorRatio     float64 `env:"FLOOR_RATIO" envDefault:"0.5"`
}

func (p Pricing) Pricer() (domain.Pricer, error) {
	return domain.NewPricer(p.Base, p.DemandFactor, p.StockFactor, p.StockReference, p.FloorRatio)
}

// Load reads envFiles (when given) into the process environment, then parses
// and validates the configuration.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or mysql, got %q", c.DBDriver)
	}
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}
	if _, err := c.Pricing.Pricer(); err != nil {
		return fmt.Errorf("pricing: %w", err)
	}
	return nil
}
