// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration.
type Config struct {
	Withings WithingsConfig
	Strava   StravaConfig

	// DBPath is where the sync history database lives. Empty means
	// ~/.fitconnect/history.db.
	DBPath string `env:"FITCONNECT_DB"`
}

// WithingsConfig holds Withings API credentials and token file location.
type WithingsConfig struct {
	ClientID     string `env:"WITHINGS_CLIENT_ID"`
	ClientSecret string `env:"WITHINGS_CLIENT_SECRET"`
	ConfigFile   string `env:"WITHINGS_CONFIG_FILE" envDefault:"withings_config.json"`
}

// StravaConfig holds Strava API credentials and token file location.
type StravaConfig struct {
	ClientID     string `env:"STRAVA_CLIENT_ID"`
	ClientSecret string `env:"STRAVA_CLIENT_SECRET"`
	ConfigFile   string `env:"STRAVA_CONFIG_FILE" envDefault:"config.json"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".fitconnect", "history.db")
	}

	return cfg, nil
}

// HasWithings returns true if Withings credentials are present.
func (c *Config) HasWithings() bool {
	return c.Withings.ClientID != "" && c.Withings.ClientSecret != ""
}

// HasStrava returns true if Strava credentials are present.
func (c *Config) HasStrava() bool {
	return c.Strava.ClientID != "" && c.Strava.ClientSecret != ""
}

// RequireWithings errors unless Withings credentials are configured.
func (c *Config) RequireWithings() error {
	if !c.HasWithings() {
		return fmt.Errorf("WITHINGS_CLIENT_ID and WITHINGS_CLIENT_SECRET must be set")
	}
	return nil
}

// RequireStrava errors unless Strava credentials are configured.
func (c *Config) RequireStrava() error {
	if !c.HasStrava() {
		return fmt.Errorf("STRAVA_CLIENT_ID and STRAVA_CLIENT_SECRET must be set")
	}
	return nil
}
