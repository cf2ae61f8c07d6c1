package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "project.db", cfg.DBDSN)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10.0, cfg.Pricing.Base)
	assert.Equal(t, 0.5, cfg.Pricing.DemandFactor)
	assert.Equal(t, 0.3, cfg.Pricing.StockFactor)
	assert.Equal(t, 100.0, cfg.Pricing.StockReference)
	assert.Equal(t, 0.5, cfg.Pricing.FloorRatio)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_DSN", "root:root@tcp(localhost:3306)/stock")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SHUTDOWN_TIMEOUT", "250ms")
	t.Setenv("PRICE_BASE", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.ShutdownTimeout)

	pricer, err := cfg.Pricing.Pricer()
	require.NoError(t, err)
	assert.Equal(t, "20", pricer.Base.String())
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("GRPC_ADDR=:6000\nLOG_LEVEL=debug\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("GRPC_ADDR")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.GRPCAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"driver", "DB_DRIVER", "postgres"},
		{"max conns", "DB_MAX_OPEN_CONNS", "0"},
		{"log format", "LOG_FORMAT", "xml"},
		{"pricing reference", "PRICE_STOCK_REFERENCE", "0"},
		{"not a number", "PRICE_BASE", "ten"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
