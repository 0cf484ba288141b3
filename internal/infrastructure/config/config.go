package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// ConfigFileEnv names the environment variable holding an optional TOML config path.
const ConfigFileEnv = "STOCKBOOK_CONFIG"

type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	Server     ServerConfig     `toml:"server"`
	Log        LogConfig        `toml:"log"`
	MarketData MarketDataConfig `toml:"market_data"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port string `toml:"port"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// MarketDataConfig leaves target monitoring off when URL is empty.
type MarketDataConfig struct {
	URL                 string        `toml:"url"`
	TargetCheckInterval time.Duration `toml:"target_check_interval"`
}

func Defaults() Config {
	return Config{
		Database: DatabaseConfig{Driver: "postgres"},
		Server:   ServerConfig{Host: "localhost", Port: "8080"},
		Log:      LogConfig{Level: "info"},
		MarketData: MarketDataConfig{
			TargetCheckInterval: 5 * time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// STOCKBOOK_CONFIG when set, then environment variables, and validates the result.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(ConfigFileEnv); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setStr(&cfg.Database.Driver, "DB_DRIVER")
	setStr(&cfg.Database.DSN, "DB_DSN")
	setStr(&cfg.Server.Host, "SERVER_HOST")
	setStr(&cfg.Server.Port, "SERVER_PORT")
	setStr(&cfg.Log.Level, "LOG_LEVEL")
	setStr(&cfg.MarketData.URL, "MARKET_DATA_URL")

	if v := os.Getenv("TARGET_CHECK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TARGET_CHECK_INTERVAL: %w", err)
		}
		cfg.MarketData.TargetCheckInterval = d
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("DB_DSN environment variable is required"))
	}
	switch c.Database.Driver {
	case "postgres", "oracle", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q: must be postgres, oracle or sqlite", c.Database.Driver))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported LOG_LEVEL %q", c.Log.Level))
	}
	if c.MarketData.TargetCheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("TARGET_CHECK_INTERVAL must be positive, got %s", c.MarketData.TargetCheckInterval))
	}
	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// MonitorEnabled reports whether active targets should be checked against live quotes.
func (c *Config) MonitorEnabled() bool {
	return c.MarketData.URL != ""
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
