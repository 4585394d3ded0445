package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "KOPIO"

// defaults lists every known key; viper only binds environment variables
// for keys it knows about.
var defaults = map[string]interface{}{
	"server.port":               8080,
	"server.log_level":          "info",
	"storage.backend":           BackendMemory,
	"storage.dir":               "./data",
	"database.url":              "",
	"database.migrate_on_start": true,
	"redis.addr":                "",
	"redis.password":            "",
	"redis.db":                  0,
	"redis.key_prefix":          "kopio:",
	"planner.time_zone":         "UTC",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables (KOPIO_SERVER_PORT, KOPIO_STORAGE_BACKEND, ...) take
// precedence over values from config.yaml in the working directory.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path looks for
// an optional config.yaml in the working directory.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and the settings each backend needs.
func Validate(cfg *Config) error {
	validate := validator.New()
	validate.RegisterStructValidation(backendSettings, Config{})

	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// backendSettings requires the settings of the selected storage backend.
func backendSettings(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Storage.Backend {
	case BackendFile:
		if cfg.Storage.Dir == "" {
			sl.ReportError(cfg.Storage.Dir, "Storage.Dir", "Dir", "required_for_backend", BackendFile)
		}
	case BackendPostgres:
		if cfg.Database.URL == "" {
			sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_for_backend", BackendPostgres)
		}
	case BackendRedis:
		if cfg.Redis.Addr == "" {
			sl.ReportError(cfg.Redis.Addr, "Redis.Addr", "Addr", "required_for_backend", BackendRedis)
		}
	}
}
