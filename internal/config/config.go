package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/tonhe/fireline/internal/diag"
)

// Environment overrides, applied after the config file is read.
const (
	EnvTheme     = "FIRELINE_THEME"
	EnvLogLevel  = "FIRELINE_LOG_LEVEL"
	EnvHistoryDB = "FIRELINE_HISTORY_DB"
)

var logLevels = []string{"debug", "info", "warn", "error"}

type PressureBand struct {
	ExpectedLow   float64 `toml:"expected_low"`
	ExpectedHigh  float64 `toml:"expected_high"`
	MarginalFloor float64 `toml:"marginal_floor"`
}

type Thresholds struct {
	CloudPingMillis float64      `toml:"cloud_ping_ms"`
	Manifold        PressureBand `toml:"manifold"`
	Source          PressureBand `toml:"source"`
}

type Config struct {
	Theme           string        `toml:"theme"`
	LogLevel        string        `toml:"log_level"`
	PollInterval    time.Duration `toml:"-"`
	PollIntervalStr string        `toml:"poll_interval"`
	MaxHistory      int           `toml:"max_history"`
	HistoryDB       string        `toml:"history_db"`
	Thresholds      Thresholds    `toml:"thresholds"`
}

func DefaultConfig() *Config {
	th := diag.DefaultThresholds()
	return &Config{
		Theme:           "solarized-dark",
		LogLevel:        "info",
		PollInterval:    10 * time.Second,
		PollIntervalStr: "10s",
		MaxHistory:      360,
		HistoryDB:       "",
		Thresholds: Thresholds{
			CloudPingMillis: th.CloudPingMillis,
			Manifold:        PressureBand(th.Manifold),
			Source:          PressureBand(th.Source),
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error.
// Environment overrides (including any from ./.env) are applied last.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}
	if cfg.PollIntervalStr != "" {
		d, err := time.ParseDuration(cfg.PollIntervalStr)
		if err != nil {
			return nil, fmt.Errorf("poll_interval: %w", err)
		}
		cfg.PollInterval = d
	}
	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func SaveConfig(cfg *Config, path string) error {
	cfg.PollIntervalStr = cfg.PollInterval.String()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Validate rejects settings the engine cannot run with.
func (c *Config) Validate() error {
	if !ValidLogLevel(c.LogLevel) {
		return fmt.Errorf("log_level %q: want one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if c.PollInterval <= 0 {
		return errors.New("poll_interval must be positive")
	}
	if c.MaxHistory <= 0 {
		return errors.New("max_history must be positive")
	}
	return c.DiagThresholds().Validate()
}

// DiagThresholds converts the [thresholds] table for the evaluator.
func (c *Config) DiagThresholds() diag.Thresholds {
	return diag.Thresholds{
		CloudPingMillis: c.Thresholds.CloudPingMillis,
		Manifold:        diag.PressureBand(c.Thresholds.Manifold),
		Source:          diag.PressureBand(c.Thresholds.Source),
	}
}

// HistoryPath returns the history database path, defaulting to the XDG
// data directory when history_db is unset.
func (c *Config) HistoryPath() (string, error) {
	if c.HistoryDB != "" {
		return c.HistoryDB, nil
	}
	return GetHistoryPath()
}

// ValidLogLevel reports whether level is a supported log level.
func ValidLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvTheme); v != "" {
		c.Theme = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv(EnvHistoryDB); v != "" {
		c.HistoryDB = v
	}
}

// loadDotEnv loads ./.env when present. Variables already set in the
// environment win over the file.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err == nil {
		return godotenv.Load(".env")
	}
	return nil
}
