package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Pricing PricingConfig `mapstructure:"pricing"`
	Cart    CartConfig    `mapstructure:"cart"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	StorefrontAddr string `mapstructure:"storefront_addr"`
	AdminAddr      string `mapstructure:"admin_addr"`
}

type StoreConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"maxOpenConns"`
}

type PricingConfig struct {
	// Schedule prices quotes, sessions and cart commits
	Schedule string `mapstructure:"schedule"`
	// StepSchedule prices the per-option deltas shown on step pages
	StepSchedule string `mapstructure:"step_schedule"`
}

type CartConfig struct {
	ProcessingDelay time.Duration `mapstructure:"processing_delay"`
	DefaultCurrency string        `mapstructure:"default_currency"`
}

type AdminConfig struct {
	StorefrontURL string        `mapstructure:"storefront_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	BulkheadSize  int           `mapstructure:"bulkhead_size"`
	BulkheadWait  time.Duration `mapstructure:"bulkhead_wait"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.storefront_addr", ":8081")
	v.SetDefault("server.admin_addr", ":8080")

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "")
	v.SetDefault("store.maxOpenConns", 10)

	v.SetDefault("pricing.schedule", "checkout")
	v.SetDefault("pricing.step_schedule", "")

	v.SetDefault("cart.processing_delay", 0)
	v.SetDefault("cart.default_currency", "USD")

	v.SetDefault("admin.storefront_url", "http://localhost:8081")
	v.SetDefault("admin.timeout", 3*time.Second)
	v.SetDefault("admin.bulkhead_size", 10)
	v.SetDefault("admin.bulkhead_wait", time.Second)

	v.SetDefault("log.level", "info")
}

// LoadConfig loads configuration from an optional config.yaml and environment variables
func LoadConfig() (*Config, error) {
	v := viper.New()

	// Set config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./deploy/")
	v.AddConfigPath("./")
	v.AddConfigPath("$HOME/.wigshop/")
	v.AddConfigPath("/etc/wigshop/")

	return load(v)
}

// LoadFile loads configuration from an explicit file path
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// Enable environment variable override with WIGSHOP_ prefix, e.g. WIGSHOP_STORE_DRIVER
	v.SetEnvPrefix("WIGSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional; defaults and environment are enough to run
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Pricing.StepSchedule == "" {
		config.Pricing.StepSchedule = config.Pricing.Schedule
	}

	return &config, nil
}
