package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Models   ModelsConfig
	License  LicenseConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
	Logger   LoggerConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
}

type ModelsConfig struct {
	Dir string
}

type LicenseConfig struct {
	// Key is the fallback license key used when a request carries no
	// X-License-Key header.
	Key          string
	MinKeyLength int
	GrantPeriod  time.Duration
	CacheTTL     time.Duration
	Features     []string
}

type DatabaseConfig struct {
	Enabled         bool
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type MetricsConfig struct {
	Enabled bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults. The server binds to loopback only: the license key is the
	// sole access control, so the endpoint must not be reachable remotely.
	v.SetDefault("SERVER_HOST", "127.0.0.1")
	v.SetDefault("SERVER_PORT", 8000)
	v.SetDefault("SERVER_REQUEST_TIMEOUT", "30s")
	v.SetDefault("MODELS_DIR", "./models")
	v.SetDefault("LICENSE_KEY", "")
	v.SetDefault("LICENSE_MIN_KEY_LENGTH", 20)
	v.SetDefault("LICENSE_GRANT_PERIOD", "720h")
	v.SetDefault("LICENSE_CACHE_TTL", "5m")
	v.SetDefault("LICENSE_FEATURES", []string{
		"demand_forecasting",
		"dynamic_pricing",
		"guest_churn",
		"fraud_detection",
		"maintenance_prediction",
	})
	v.SetDefault("DB_ENABLED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "inference")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "inference")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 4)
	v.SetDefault("DB_MAX_IDLE_CONNS", 1)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Host:           v.GetString("SERVER_HOST"),
			Port:           v.GetInt("SERVER_PORT"),
			RequestTimeout: duration(v, "SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Models: ModelsConfig{
			Dir: v.GetString("MODELS_DIR"),
		},
		License: LicenseConfig{
			Key:          v.GetString("LICENSE_KEY"),
			MinKeyLength: v.GetInt("LICENSE_MIN_KEY_LENGTH"),
			GrantPeriod:  duration(v, "LICENSE_GRANT_PERIOD", 720*time.Hour),
			CacheTTL:     duration(v, "LICENSE_CACHE_TTL", 5*time.Minute),
			Features:     v.GetStringSlice("LICENSE_FEATURES"),
		},
		Database: DatabaseConfig{
			Enabled:         v.GetBool("DB_ENABLED"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: duration(v, "DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("METRICS_ENABLED"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return fallback
	}
	return d
}
