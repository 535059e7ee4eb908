package config

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	// WebServer Configuration
	WebServerPort int `mapstructure:"WEBSERVER_PORT"`

	// Database Configuration
	DatabaseDSN     string `mapstructure:"DATABASE_DSN"`
	DatabaseRetries int    `mapstructure:"DATABASE_RETRIES"`

	// Mux Configuration
	MuxTokenID     string `mapstructure:"MUX_TOKEN_ID"`
	MuxTokenSecret string `mapstructure:"MUX_TOKEN_SECRET"`
	MuxBaseURL     string `mapstructure:"MUX_BASE_URL" validate:"omitempty,url"`
	MuxCORSOrigin  string `mapstructure:"MUX_CORS_ORIGIN"`

	// Asset resolution polling
	AssetPollAttempts   int `mapstructure:"ASSET_POLL_ATTEMPTS" validate:"min=1"`
	AssetPollIntervalMS int `mapstructure:"ASSET_POLL_INTERVAL_MS" validate:"min=1"`
	AssetPeekAttempts   int `mapstructure:"ASSET_PEEK_ATTEMPTS" validate:"min=1"`
	AssetPeekIntervalMS int `mapstructure:"ASSET_PEEK_INTERVAL_MS" validate:"min=1"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	val := reflect.ValueOf(c)
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("mapstructure")
		if tag != "" {
			viper.BindEnv(tag)
		}
	}

	// Legacy fallback names accepted for the database DSN.
	viper.BindEnv("DATABASE_URL")
	viper.BindEnv("SUPABASE_DB_URL")
}

func LoadConfig(ctx context.Context) (*Config, error) {
	bindEnv(Config{})
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("WEBSERVER_PORT", 8080)
	viper.SetDefault("DATABASE_RETRIES", 10)
	viper.SetDefault("MUX_BASE_URL", "https://api.mux.com")
	viper.SetDefault("MUX_CORS_ORIGIN", "*")
	viper.SetDefault("ASSET_POLL_ATTEMPTS", 20)
	viper.SetDefault("ASSET_POLL_INTERVAL_MS", 5000)
	viper.SetDefault("ASSET_PEEK_ATTEMPTS", 5)
	viper.SetDefault("ASSET_PEEK_INTERVAL_MS", 1000)

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = viper.GetString("DATABASE_URL")
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = viper.GetString("SUPABASE_DB_URL")
	}

	slog.Info("Loaded configuration", "port", cfg.WebServerPort, "mux_base_url", cfg.MuxBaseURL)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// MissingVars lists the required environment variables that are not set.
// The API refuses every request with a 500 naming these until all are
// present, so a misconfigured deployment fails visibly instead of
// half-working.
func (c *Config) MissingVars() []string {
	var missing []string
	if c.DatabaseDSN == "" {
		missing = append(missing, "DATABASE_DSN")
	}
	if c.MuxTokenID == "" {
		missing = append(missing, "MUX_TOKEN_ID")
	}
	if c.MuxTokenSecret == "" {
		missing = append(missing, "MUX_TOKEN_SECRET")
	}
	return missing
}

// AssetPollInterval returns the completion poll interval as a duration.
func (c *Config) AssetPollInterval() time.Duration {
	return time.Duration(c.AssetPollIntervalMS) * time.Millisecond
}

// AssetPeekInterval returns the lightweight peek poll interval as a duration.
func (c *Config) AssetPeekInterval() time.Duration {
	return time.Duration(c.AssetPeekIntervalMS) * time.Millisecond
}
