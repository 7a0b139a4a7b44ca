// Package config provides configuration management for the simulator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"stf-simulator/internal/errors"
	"stf-simulator/internal/logging"
)

// EnvPrefix is the prefix of environment variable overrides.
const EnvPrefix = "STFSIM"

// Config holds all application configuration.
type Config struct {
	Limits  LimitsConfig  `mapstructure:"limits" json:"limits"`
	Hedge   HedgeConfig   `mapstructure:"hedge" json:"hedge"`
	Profile ProfileConfig `mapstructure:"profile" json:"profile"`
	Server  ServerConfig  `mapstructure:"server" json:"server"`
	Storage StorageConfig `mapstructure:"storage" json:"storage"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
	UI      UIConfig      `mapstructure:"ui" json:"ui"`
}

// LimitsConfig bounds every user-facing input, mirroring the dashboard
// widget ranges.
type LimitsConfig struct {
	NotionalMin       float64 `mapstructure:"notional_min" json:"notional_min"`
	NotionalMax       float64 `mapstructure:"notional_max" json:"notional_max"`
	RateMin           float64 `mapstructure:"rate_min" json:"rate_min"`
	RateMax           float64 `mapstructure:"rate_max" json:"rate_max"`
	DurationMax       int     `mapstructure:"duration_max" json:"duration_max"`
	HorizonMax        int     `mapstructure:"horizon_max" json:"horizon_max"`
	NoiseMax          float64 `mapstructure:"noise_max" json:"noise_max"`
	ShockMin          float64 `mapstructure:"shock_min" json:"shock_min"`
	ShockMax          float64 `mapstructure:"shock_max" json:"shock_max"`
	RiskAversionMax   float64 `mapstructure:"risk_aversion_max" json:"risk_aversion_max"`
	HedgeAmountMax    float64 `mapstructure:"hedge_amount_max" json:"hedge_amount_max"`
	SensitivityPoints int     `mapstructure:"sensitivity_points" json:"sensitivity_points"`
}

// HedgeConfig holds hedge classification settings.
type HedgeConfig struct {
	Tolerance            float64 `mapstructure:"tolerance" json:"tolerance"`
	SpeculationThreshold float64 `mapstructure:"speculation_threshold" json:"speculation_threshold"`
	MinRatio             float64 `mapstructure:"min_ratio" json:"min_ratio"`
	MaxRatio             float64 `mapstructure:"max_ratio" json:"max_ratio"`
	UnderHedged          float64 `mapstructure:"under_hedged" json:"under_hedged"`
	Appropriate          float64 `mapstructure:"appropriate" json:"appropriate"`
	OverHedged           float64 `mapstructure:"over_hedged" json:"over_hedged"`
}

// ProfileConfig controls the loss profile rate grid.
type ProfileConfig struct {
	Points     int     `mapstructure:"points" json:"points"`
	LowFactor  float64 `mapstructure:"low_factor" json:"low_factor"`
	HighFactor float64 `mapstructure:"high_factor" json:"high_factor"`
	RateFloor  float64 `mapstructure:"rate_floor" json:"rate_floor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
	Mode string `mapstructure:"mode" json:"mode"` // debug, release, test
}

// StorageConfig holds preset library settings.
type StorageConfig struct {
	Path string `mapstructure:"path" json:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	File       bool   `mapstructure:"file" json:"file"`
	FilePath   string `mapstructure:"file_path" json:"file_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool `mapstructure:"color_enabled" json:"color_enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			NotionalMin:       0,
			NotionalMax:       5_000_000_000,
			RateMin:           1.0,
			RateMax:           3.0,
			DurationMax:       12,
			HorizonMax:        60,
			NoiseMax:          0.2,
			ShockMin:          -0.5,
			ShockMax:          1.0,
			RiskAversionMax:   100,
			HedgeAmountMax:    50_000_000_000,
			SensitivityPoints: 100,
		},
		Hedge: HedgeConfig{
			Tolerance:            0.1,
			SpeculationThreshold: 0.5,
			MinRatio:             0,
			MaxRatio:             1,
			UnderHedged:          0.8,
			Appropriate:          1.2,
			OverHedged:           2.0,
		},
		Profile: ProfileConfig{
			Points:     100,
			LowFactor:  0.7,
			HighFactor: 1.3,
			RateFloor:  1.0,
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Storage: StorageConfig{},
		Logging: LoggingConfig{
			Level:      "info",
			File:       true,
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		UI: UIConfig{ColorEnabled: true},
	}
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stf-simulator"
	}
	return filepath.Join(home, ".config", "stf-simulator")
}

// ConfigPath returns the config file location inside configDir.
func ConfigPath(configDir string) string {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}
	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing file
// is replaced by the commented template and the defaults are used.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config.toml: %w", err)
	}

	applyEnvOverrides(cfg)
	cfg.fillPaths(configDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("limits.notional_min", d.Limits.NotionalMin)
	v.SetDefault("limits.notional_max", d.Limits.NotionalMax)
	v.SetDefault("limits.rate_min", d.Limits.RateMin)
	v.SetDefault("limits.rate_max", d.Limits.RateMax)
	v.SetDefault("limits.duration_max", d.Limits.DurationMax)
	v.SetDefault("limits.horizon_max", d.Limits.HorizonMax)
	v.SetDefault("limits.noise_max", d.Limits.NoiseMax)
	v.SetDefault("limits.shock_min", d.Limits.ShockMin)
	v.SetDefault("limits.shock_max", d.Limits.ShockMax)
	v.SetDefault("limits.risk_aversion_max", d.Limits.RiskAversionMax)
	v.SetDefault("limits.hedge_amount_max", d.Limits.HedgeAmountMax)
	v.SetDefault("limits.sensitivity_points", d.Limits.SensitivityPoints)

	v.SetDefault("hedge.tolerance", d.Hedge.Tolerance)
	v.SetDefault("hedge.speculation_threshold", d.Hedge.SpeculationThreshold)
	v.SetDefault("hedge.min_ratio", d.Hedge.MinRatio)
	v.SetDefault("hedge.max_ratio", d.Hedge.MaxRatio)
	v.SetDefault("hedge.under_hedged", d.Hedge.UnderHedged)
	v.SetDefault("hedge.appropriate", d.Hedge.Appropriate)
	v.SetDefault("hedge.over_hedged", d.Hedge.OverHedged)

	v.SetDefault("profile.points", d.Profile.Points)
	v.SetDefault("profile.low_factor", d.Profile.LowFactor)
	v.SetDefault("profile.high_factor", d.Profile.HighFactor)
	v.SetDefault("profile.rate_floor", d.Profile.RateFloor)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("storage.path", d.Storage.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.file_path", d.Logging.FilePath)
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)

	v.SetDefault("ui.color_enabled", d.UI.ColorEnabled)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvPrefix + "_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvPrefix + "_DB_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv(EnvPrefix + "_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

func (c *Config) fillPaths(configDir string) {
	if c.Storage.Path == "" {
		c.Storage.Path = filepath.Join(configDir, "presets.db")
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(configDir, "logs", "stfsim.log")
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	l := c.Limits
	if l.NotionalMin < 0 || l.NotionalMax <= l.NotionalMin {
		return errors.NewConfigError("limits.notional", nil, "need 0 <= notional_min < notional_max")
	}
	if l.RateMin <= 0 || l.RateMax <= l.RateMin {
		return errors.NewConfigError("limits.rate", nil, "need 0 < rate_min < rate_max")
	}
	if l.DurationMax < 1 {
		return errors.NewConfigError("limits.duration_max", l.DurationMax, "must be at least 1")
	}
	if l.HorizonMax < 1 {
		return errors.NewConfigError("limits.horizon_max", l.HorizonMax, "must be at least 1")
	}
	if l.NoiseMax < 0 || l.NoiseMax >= 0.5 {
		return errors.NewConfigError("limits.noise_max", l.NoiseMax, "must be in [0, 0.5)")
	}
	if l.ShockMin <= -1 || l.ShockMax < l.ShockMin {
		return errors.NewConfigError("limits.shock", nil, "need -1 < shock_min <= shock_max")
	}
	if l.RiskAversionMax <= 0 {
		return errors.NewConfigError("limits.risk_aversion_max", l.RiskAversionMax, "must be positive")
	}
	if l.HedgeAmountMax <= 0 {
		return errors.NewConfigError("limits.hedge_amount_max", l.HedgeAmountMax, "must be positive")
	}
	if l.SensitivityPoints < 2 {
		return errors.NewConfigError("limits.sensitivity_points", l.SensitivityPoints, "must be at least 2")
	}

	h := c.Hedge
	if h.Tolerance < 0 || h.SpeculationThreshold <= h.Tolerance {
		return errors.NewConfigError("hedge.speculation_threshold", h.SpeculationThreshold, "must exceed the tolerance")
	}
	if h.MaxRatio <= h.MinRatio {
		return errors.NewConfigError("hedge.max_ratio", h.MaxRatio, "must exceed min_ratio")
	}
	if !(h.UnderHedged > 0 && h.UnderHedged < h.Appropriate && h.Appropriate < h.OverHedged) {
		return errors.NewConfigError("hedge.bands", nil, "need 0 < under_hedged < appropriate < over_hedged")
	}

	p := c.Profile
	if p.Points < 2 {
		return errors.NewConfigError("profile.points", p.Points, "must be at least 2")
	}
	if p.LowFactor <= 0 || p.HighFactor <= p.LowFactor {
		return errors.NewConfigError("profile.factors", nil, "need 0 < low_factor < high_factor")
	}
	if p.RateFloor < 0 {
		return errors.NewConfigError("profile.rate_floor", p.RateFloor, "must be non-negative")
	}

	switch strings.ToLower(c.Server.Mode) {
	case "", "debug", "release", "test":
	default:
		return errors.NewConfigError("server.mode", c.Server.Mode, "must be debug, release or test")
	}

	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return errors.NewConfigError("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}

	return nil
}

// LogConfig converts the logging section for the logging package.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.File = c.Logging.File
	if c.Logging.FilePath != "" {
		lc.FilePath = c.Logging.FilePath
	}
	if c.Logging.MaxSizeMB > 0 {
		lc.MaxSize = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		lc.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAgeDays > 0 {
		lc.MaxAge = c.Logging.MaxAgeDays
	}
	return lc
}
