package config

import "time"

// Config holds runtime configuration for the vending machine.
type Config struct {
	AppEnv  string        `mapstructure:"-"`
	Log     LogConfig     `mapstructure:"log"`
	Machine MachineConfig `mapstructure:"machine"`
	Display DisplayConfig `mapstructure:"display"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
}

// LogConfig controls the slog handler and optional rotating log file.
type LogConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

// MachineConfig mirrors the parameters the machine core reads at start.
type MachineConfig struct {
	// InitialStock is "empty" or the number of units every slot starts with.
	InitialStock  string `mapstructure:"initial_stock" validate:"stock_policy"`
	FullLevel     int    `mapstructure:"full_level" validate:"gt=0"`
	Denominations []int  `mapstructure:"denominations" validate:"required,min=1,dive,gt=0"`
	TrackRestock  bool   `mapstructure:"track_restock"`
}

// DisplayConfig controls how outputs are rendered.
type DisplayConfig struct {
	ClearAfter time.Duration `mapstructure:"clear_after" validate:"gt=0"`
	Language   string        `mapstructure:"language" validate:"required,oneof=en ko"`
}

// HTTPConfig configures the metrics and health server. An empty Addr disables it.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// SentryConfig enables error reporting.
type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment"`
}
