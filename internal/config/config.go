// Package config loads quotedesk settings from an optional TOML file, a
// .env file and QUOTEDESK_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. QUOTEDESK_DATABASE_DSN.
const EnvPrefix = "QUOTEDESK"

// Session backends.
const (
	SessionJWT    = "jwt"
	SessionRedis  = "redis"
	SessionMemory = "memory"
)

// Config is the full runtime configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AMQP     AMQPConfig     `mapstructure:"amqp"`
	Quotes   QuotesConfig   `mapstructure:"quotes"`
	Orders   OrdersConfig   `mapstructure:"orders"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite3 or pgx
	DSN    string `mapstructure:"dsn"`    // empty means the default SQLite file
}

type SessionConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

// AMQPConfig enables event publishing when URL is set.
type AMQPConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type QuotesConfig struct {
	ValidityDays int `mapstructure:"validity_days"`
}

type OrdersConfig struct {
	// ForwardOnly rejects order status moves back through the sequence.
	ForwardOnly bool `mapstructure:"forward_only"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "")
	v.SetDefault("session.backend", SessionJWT)
	v.SetDefault("session.ttl", 12*time.Hour)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("redis.url", "")
	v.SetDefault("amqp.url", "")
	v.SetDefault("amqp.exchange", "quotedesk.events")
	v.SetDefault("quotes.validity_days", 30)
	v.SetDefault("orders.forward_only", false)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// Load reads configuration. path names a TOML file; when empty, quotedesk.toml
// is looked up in the working directory and ~/.quotedesk, and its absence is
// not an error. A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quotedesk")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.quotedesk")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "pgx":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or pgx, got %q", c.Database.Driver)
	}

	switch c.Session.Backend {
	case SessionJWT, SessionMemory:
	case SessionRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("redis.url is required for session backend %q", SessionRedis)
		}
	default:
		return fmt.Errorf("session.backend must be jwt, redis or memory, got %q", c.Session.Backend)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive")
	}
	if c.Quotes.ValidityDays < 1 {
		return fmt.Errorf("quotes.validity_days must be at least 1")
	}
	return nil
}
