package config

import (
	"time"
	// Zone data for hosts without a system zoneinfo database.
	_ "time/tzdata"
)

// Storage backends understood by the server.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage"  validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Planner  PlannerConfig  `mapstructure:"planner"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error fatal"`
}

// StorageConfig selects where the planner collections are persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory file postgres redis"`
	// Dir is the directory used by the file backend.
	Dir string `mapstructure:"dir"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL            string `mapstructure:"url"              validate:"omitempty,url"`
	MigrateOnStart bool   `mapstructure:"migrate_on_start"`
}

// RedisConfig contains the settings of the redis backend.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"       validate:"omitempty,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"         validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PlannerConfig holds calendar settings of the planner.
type PlannerConfig struct {
	// TimeZone is the IANA zone revision days are counted in. Stored slot
	// dates written by a browser are local midnights of this zone.
	TimeZone string `mapstructure:"time_zone" validate:"omitempty,timezone"`
}

// Location resolves TimeZone. An empty zone is UTC.
func (c PlannerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}
