package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.Server.StorefrontAddr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "checkout", cfg.Pricing.Schedule)
	assert.Equal(t, "checkout", cfg.Pricing.StepSchedule)
	assert.Equal(t, "USD", cfg.Cart.DefaultCurrency)
	assert.Equal(t, 3*time.Second, cfg.Admin.Timeout)
	assert.Equal(t, 10, cfg.Admin.BulkheadSize)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wigshop.yaml")
	content := `
store:
  driver: postgres
  dsn: postgres://shop@localhost/wigshop?sslmode=disable
  maxOpenConns: 4
pricing:
  schedule: checkout
  step_schedule: option_page
cart:
  processing_delay: 750ms
  default_currency: EUR
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, 4, cfg.Store.MaxOpenConns)
	assert.Equal(t, "option_page", cfg.Pricing.StepSchedule)
	assert.Equal(t, 750*time.Millisecond, cfg.Cart.ProcessingDelay)
	assert.Equal(t, "EUR", cfg.Cart.DefaultCurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.AdminAddr, "unset keys keep defaults")
}

func TestLoadFile_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wigshop.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  driver: mysql\n"), 0o600))

	t.Setenv("WIGSHOP_STORE_DRIVER", "memory")
	t.Setenv("WIGSHOP_PRICING_SCHEDULE", "option_page")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "option_page", cfg.Pricing.Schedule)
	assert.Equal(t, "option_page", cfg.Pricing.StepSchedule)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
