// Package config provides configuration management for the payoff analyzer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	apperrors "option-payoff/internal/errors"
	"option-payoff/internal/logging"
	"option-payoff/internal/payoff"
)

// Config holds all application configuration.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Store    StoreConfig    `mapstructure:"store"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Dir      string         `mapstructure:"-"` // directory the config was loaded from
}

// AnalysisConfig controls payoff curve sampling and money formatting.
type AnalysisConfig struct {
	ChartPoints         int     `mapstructure:"chart_points"`
	RangeMultiplier     float64 `mapstructure:"range_multiplier"`
	SingleStrikeDivisor float64 `mapstructure:"single_strike_divisor"`
	Currency            string  `mapstructure:"currency"`
}

// ChartConfig holds the size of the terminal payoff chart.
type ChartConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// StoreConfig holds the leg book database settings.
type StoreConfig struct {
	Path        string `mapstructure:"path"` // relative paths resolve against the config dir
	DefaultBook string `mapstructure:"default_book"`
	KeepHistory int    `mapstructure:"keep_history"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port    int  `mapstructure:"port"`
	DevMode bool `mapstructure:"dev_mode"`
}

// LoggingConfig mirrors logging.LogConfig in the config file.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/option-payoff"
	}
	return filepath.Join(home, ".config", "option-payoff")
}

// Load loads config.toml from the specified directory.
// If configDir is empty, uses the default config directory. A missing file
// is replaced by a commented template and loading continues with defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{Dir: configDir}
	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default(configDir string) *Config {
	v := viper.New()
	setDefaults(v, configDir)
	cfg := &Config{Dir: configDir}
	// Unmarshalling plain defaults cannot fail.
	_ = v.Unmarshal(cfg)
	cfg.resolvePaths()
	return cfg
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("analysis.chart_points", 1000)
	v.SetDefault("analysis.range_multiplier", 3.0)
	v.SetDefault("analysis.single_strike_divisor", 1.5)
	v.SetDefault("analysis.currency", "$")

	v.SetDefault("chart.width", 72)
	v.SetDefault("chart.height", 20)

	v.SetDefault("store.path", "payoff.db")
	v.SetDefault("store.default_book", "default")
	v.SetDefault("store.keep_history", 200)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.dev_mode", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "payoff.log"))
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 7)
	v.SetDefault("logging.max_age", 30)
}

func loadConfigFile(configDir, name string, target *Config) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Config file not found, create template and fall back to defaults
		if err := createTemplateConfig(configDir, name); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PAYOFF_DB_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("PAYOFF_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("PAYOFF_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("PAYOFF_BOOK"); v != "" {
		cfg.Store.DefaultBook = v
	}
}

func (c *Config) resolvePaths() {
	if c.Store.Path != "" && c.Store.Path != ":memory:" && !filepath.IsAbs(c.Store.Path) {
		c.Store.Path = filepath.Join(c.Dir, c.Store.Path)
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Analysis.ChartPoints < 2 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "analysis.chart_points must be at least 2, got %d", c.Analysis.ChartPoints)
	}
	if c.Analysis.RangeMultiplier <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "analysis.range_multiplier must be positive")
	}
	if c.Analysis.SingleStrikeDivisor <= 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "analysis.single_strike_divisor must be positive")
	}
	if c.Chart.Width < 10 || c.Chart.Height < 5 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "chart must be at least 10x5, got %dx%d", c.Chart.Width, c.Chart.Height)
	}
	if c.Store.Path == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "store.path is required")
	}
	if strings.TrimSpace(c.Store.DefaultBook) == "" {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "store.default_book is required")
	}
	if c.Store.KeepHistory < 0 {
		return apperrors.Wrap(apperrors.ErrConfigInvalid, "store.keep_history must be non-negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "server.port out of range: %d", c.Server.Port)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.Wrapf(apperrors.ErrConfigInvalid, "logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// LogConfig converts the logging section for logging.NewLoggerWithConfig.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    c.Logging.Console,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}

// CurveOptions converts the analysis section for the payoff analyzer.
func (c *Config) CurveOptions() payoff.CurveOptions {
	return payoff.CurveOptions{
		Points:              c.Analysis.ChartPoints,
		RangeMultiplier:     c.Analysis.RangeMultiplier,
		SingleStrikeDivisor: c.Analysis.SingleStrikeDivisor,
	}
}

// Path returns the location of config.toml.
func (c *Config) Path() string {
	return filepath.Join(c.Dir, "config.toml")
}
