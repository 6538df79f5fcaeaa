// Package config provides configuration loading and validation utilities.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	validator "github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Proton-105/vending-machine/internal/machine"
)

const (
	envPrefix     = "VENDING"
	configPathEnv = "VENDING_CONFIG"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("machine.initial_stock", "10")
	v.SetDefault("machine.full_level", 10)
	v.SetDefault("machine.denominations", []int{100, 500, 1000})
	v.SetDefault("machine.track_restock", true)

	v.SetDefault("display.clear_after", time.Second)
	v.SetDefault("display.language", "en")

	v.SetDefault("http.addr", "")
	v.SetDefault("http.shutdown_timeout", 5*time.Second)

	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", "")
}

// Load reads configuration from an optional YAML file and environment variables, validates it,
// and returns the resulting Config with the viper instance backing it.
//
// The file is taken from VENDING_CONFIG, falling back to ./configs/<APP_ENV>.yaml; a missing
// file is not an error. Environment variables use the VENDING_ prefix, e.g. VENDING_MACHINE_FULL_LEVEL.
func Load() (*Config, *viper.Viper, error) {
	if err := godotenv.Load(".env.local", ".env"); err != nil {
		// env files are optional
		_ = err
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := os.Getenv(configPathEnv)
	if path == "" {
		path = fmt.Sprintf("./configs/%s.yaml", env)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, nil, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("stat config %s: %w", path, err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	cfg.AppEnv = env

	return cfg, v, nil
}

// Watch re-reads the config file on change and hands every valid result to apply.
// Invalid updates are logged and dropped. Without a config file Watch does nothing.
func Watch(v *viper.Viper, log *slog.Logger, apply func(*Config)) {
	if v == nil || v.ConfigFileUsed() == "" || apply == nil {
		return
	}
	if log == nil {
		log = slog.Default()
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := decode(v)
		if err != nil {
			log.Warn("config reload rejected", slog.String("file", e.Name), slog.Any("error", err))
			return
		}

		log.Info("config reloaded", slog.String("file", e.Name), slog.String("op", e.Op.String()))
		apply(cfg)
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := newValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("stock_policy", func(fl validator.FieldLevel) bool {
		return ValidStockPolicy(fl.Field().String())
	})
	return validate
}

// ValidStockPolicy reports whether raw parses as a machine stock policy.
func ValidStockPolicy(raw string) bool {
	_, err := machine.ParseStockPolicy(raw)
	return err == nil
}
