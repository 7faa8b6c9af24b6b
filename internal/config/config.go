package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Supported cart stores.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Config holds the settings of one storefront client process.
type Config struct {
	AppPort        string
	BackendURL     string
	BackendTimeout time.Duration
	JWTSecret      string

	CartStore   string
	SQLitePath  string
	DatabaseDSN string
	RedisURL    string
	CartTTL     time.Duration
	SessionKey  string

	RabbitMQURL string
	NotifyQueue string
	FeedSize    int

	LogLevel  string
	LogFormat string

	BreakerMaxFailures uint32
	BreakerOpenTimeout time.Duration
}

// Load reads configuration from an optional config file and the
// environment. Environment variables win over the file.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	v.AutomaticEnv() // Load environment variables

	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		BackendURL:         v.GetString("BACKEND_URL"),
		BackendTimeout:     v.GetDuration("BACKEND_TIMEOUT"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		CartStore:          v.GetString("CART_STORE"),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		RedisURL:           v.GetString("REDIS_URL"),
		CartTTL:            v.GetDuration("CART_TTL"),
		SessionKey:         v.GetString("SESSION_KEY"),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		NotifyQueue:        v.GetString("NOTIFY_QUEUE"),
		FeedSize:           v.GetInt("NOTIFICATION_FEED_SIZE"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		BreakerMaxFailures: v.GetUint32("BREAKER_MAX_FAILURES"),
		BreakerOpenTimeout: v.GetDuration("BREAKER_OPEN_TIMEOUT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8090")
	v.SetDefault("BACKEND_URL", "http://localhost:5000/api")
	v.SetDefault("BACKEND_TIMEOUT", 15*time.Second)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("CART_STORE", StoreSQLite)
	v.SetDefault("SQLITE_PATH", "shopsphere_cart.db")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=shopsphere port=5432 sslmode=disable")
	v.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	v.SetDefault("CART_TTL", 30*24*time.Hour)
	v.SetDefault("SESSION_KEY", "default")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("NOTIFY_QUEUE", "storefront_notifications")
	v.SetDefault("NOTIFICATION_FEED_SIZE", 20)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("BREAKER_MAX_FAILURES", 5)
	v.SetDefault("BREAKER_OPEN_TIMEOUT", 30*time.Second)
}

// Validate checks settings that would otherwise fail later at wiring time.
func (c *Config) Validate() error {
	switch c.CartStore {
	case StoreMemory, StoreSQLite, StorePostgres, StoreRedis:
	default:
		return fmt.Errorf("unsupported CART_STORE %q", c.CartStore)
	}
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.SessionKey == "" {
		return errors.New("SESSION_KEY must not be empty")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be positive, got %s", c.BackendTimeout)
	}
	if c.FeedSize < 1 {
		c.FeedSize = 1
	}
	return nil
}
