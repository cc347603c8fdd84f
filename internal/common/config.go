package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/mkarneyeu/ratewatch/internal/models"
)

// Config holds all configuration for RateWatch
type Config struct {
	Environment string              `toml:"environment"`
	Server      ServerConfig        `toml:"server"`
	Database    DatabaseConfig      `toml:"database"`
	NBRB        NBRBConfig          `toml:"nbrb"`
	Auth        AuthConfig          `toml:"auth"`
	Logging     LoggingConfig       `toml:"logging"`
	Instruments []models.Instrument `toml:"instruments"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// DatabaseConfig holds the PostgreSQL connection settings for the users table.
type DatabaseConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Name     string `toml:"name"`
	SSLMode  string `toml:"sslmode"`
}

// DSN builds a lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslmode)
}

// NBRBConfig holds the upstream rates API configuration.
type NBRBConfig struct {
	BaseURL      string `toml:"base_url"`
	Timeout      string `toml:"timeout"`
	RateLimit    int    `toml:"rate_limit"`
	MaxChunkDays int    `toml:"max_chunk_days"` // upstream rejects ranges longer than a year
	LookbackDays int    `toml:"lookback_days"`  // nearest-available search window
}

// GetTimeout parses and returns the per-request timeout duration.
func (c *NBRBConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// AuthConfig holds JWT session configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults. The instrument
// catalog covers the four NBRB bullion series and the three most requested
// currency dynamics series.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:    "localhost",
			Port:    5432,
			User:    "ratewatch",
			Name:    "ratewatch",
			SSLMode: "disable",
		},
		NBRB: NBRBConfig{
			BaseURL:      "https://api.nbrb.by",
			Timeout:      "10s",
			RateLimit:    5,
			MaxChunkDays: 365,
			LookbackDays: 30,
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Instruments: []models.Instrument{
			{ID: "gold", Name: "Gold", Kind: models.KindMetal, Endpoint: "/bankingots/prices/0"},
			{ID: "silver", Name: "Silver", Kind: models.KindMetal, Endpoint: "/bankingots/prices/1"},
			{ID: "platinum", Name: "Platinum", Kind: models.KindMetal, Endpoint: "/bankingots/prices/2"},
			{ID: "palladium", Name: "Palladium", Kind: models.KindMetal, Endpoint: "/bankingots/prices/3"},
			{ID: "usd", Name: "US Dollar", Kind: models.KindCurrency, Endpoint: "/exrates/rates/dynamics/431"},
			{ID: "eur", Name: "Euro", Kind: models.KindCurrency, Endpoint: "/exrates/rates/dynamics/451"},
			{ID: "rub", Name: "Russian Ruble", Kind: models.KindCurrency, Endpoint: "/exrates/rates/dynamics/456"},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// A config file that declares its own instruments replaces the
		// default catalog rather than appending to it.
		staged := *config
		staged.Instruments = nil
		if err := toml.Unmarshal(data, &staged); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		if staged.Instruments == nil {
			staged.Instruments = config.Instruments
		}
		*config = staged
	}

	applyEnvOverrides(config)

	if err := validateInstruments(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("RATEWATCH_ENV"); env != "" {
		config.Environment = env
	}
	if host := os.Getenv("RATEWATCH_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("RATEWATCH_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if level := os.Getenv("RATEWATCH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("RATEWATCH_DB_HOST"); v != "" {
		config.Database.Host = v
	}
	if v := os.Getenv("RATEWATCH_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Database.Port = p
		}
	}
	if v := os.Getenv("RATEWATCH_DB_USER"); v != "" {
		config.Database.User = v
	}
	if v := os.Getenv("RATEWATCH_DB_PASSWORD"); v != "" {
		config.Database.Password = v
	}
	if v := os.Getenv("RATEWATCH_DB_NAME"); v != "" {
		config.Database.Name = v
	}

	if v := os.Getenv("RATEWATCH_NBRB_URL"); v != "" {
		config.NBRB.BaseURL = v
	}
	if v := os.Getenv("RATEWATCH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("RATEWATCH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// validateInstruments rejects a catalog with malformed or duplicate entries.
func validateInstruments(config *Config) error {
	seen := make(map[string]bool, len(config.Instruments))
	for _, inst := range config.Instruments {
		if !inst.IsValid() {
			return fmt.Errorf("invalid instrument %q: id, endpoint and a known kind are required", inst.ID)
		}
		if seen[inst.ID] {
			return fmt.Errorf("duplicate instrument id %q", inst.ID)
		}
		seen[inst.ID] = true
	}
	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// FindInstrument looks up a catalog entry by id.
func (c *Config) FindInstrument(id string) (models.Instrument, bool) {
	for _, inst := range c.Instruments {
		if inst.ID == id {
			return inst, true
		}
	}
	return models.Instrument{}, false
}
