package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Supported store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	// Driver selects the store backend: sqlite (default) or postgres.
	Driver string `mapstructure:"DB_DRIVER"`

	// SQLitePath is the database file for the sqlite driver.
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Postgres connection settings, used when Driver is postgres.
	Host     string `mapstructure:"DB_HOST"`
	Port     int    `mapstructure:"DB_PORT"`
	User     string `mapstructure:"DB_USER"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME"`
	SSLMode  string `mapstructure:"DB_SSLMODE"`
	TimeZone string `mapstructure:"DB_TIMEZONE"`

	MaxOpenConns    int `mapstructure:"DB_MAX_OPEN_CONNS"`
	MaxIdleConns    int `mapstructure:"DB_MAX_IDLE_CONNS"`
	ConnMaxLifeTime int `mapstructure:"DB_CONN_MAX_LIFETIME_MIN"` // minutes

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables, with an optional
// .env file. Every key has a default suitable for a local single-writer
// deployment.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "ptrp.db")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "ptrp")
	v.SetDefault("DB_PASSWORD", "ptrp")
	v.SetDefault("DB_NAME", "ptrp_db")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MIN", 30)
	v.SetDefault("LOG_LEVEL", "info")

	for _, key := range []string{
		"DB_DRIVER", "SQLITE_PATH",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
		"DB_SSLMODE", "DB_TIMEZONE",
		"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME_MIN",
		"LOG_LEVEL",
	} {
		_ = v.BindEnv(key)
	}

	// A missing .env file is fine; env vars and defaults still apply.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	switch cfg.Driver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("invalid config: SQLITE_PATH must not be empty")
		}
	case DriverPostgres:
		if cfg.Host == "" || cfg.User == "" || cfg.Name == "" {
			return nil, fmt.Errorf("invalid config: host/user/name must not be empty")
		}
	default:
		return nil, fmt.Errorf("invalid config: unknown driver %q", cfg.Driver)
	}

	return cfg, nil
}
