package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	Log    LogConfig
	DB     DBConfig
	Redis  RedisConfig
	JWT    JWTConfig
	Events EventsConfig
	Admin  AdminConfig
}

type AppConfig struct {
	Port       string
	Env        string
	CORSOrigin string
}

type LogConfig struct {
	Level string
}

type DBConfig struct {
	Host        string
	Port        string
	User        string
	Password    string
	Name        string
	TimeZone    string
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// EventsConfig controls the appointment lifecycle event emitter.
type EventsConfig struct {
	Enabled      bool
	StreamPrefix string
	Partitions   int
	QueueSize    int
	MaxAttempts  int
	RetryBackoff time.Duration
	StreamMaxLen int64

	ConsumerEnabled bool
	ConsumerGroup   string
	ConsumerName    string
}

// AdminConfig describes the administrator created on first start, if any.
type AdminConfig struct {
	Email    string
	Password string
	Name     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")

	v.SetDefault("EVENTS_ENABLED", true)
	v.SetDefault("EVENTS_STREAM_PREFIX", "appointment-events")
	v.SetDefault("EVENTS_PARTITIONS", 4)
	v.SetDefault("EVENTS_QUEUE_SIZE", 256)
	v.SetDefault("EVENTS_MAX_ATTEMPTS", 3)
	v.SetDefault("EVENTS_RETRY_BACKOFF", "200ms")
	v.SetDefault("EVENTS_STREAM_MAXLEN", 100000)
	v.SetDefault("EVENTS_CONSUMER_ENABLED", false)
	v.SetDefault("EVENTS_CONSUMER_GROUP", "clinic-notifications")
	v.SetDefault("EVENTS_CONSUMER_NAME", "scheduler-1")

	v.SetDefault("ADMIN_NAME", "Administrator")
}

// LoadConfig reads configuration from the given .env file and the environment.
// A missing file is not an error; environment variables and defaults still apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			var pathErr *fs.PathError
			if !errors.As(err, &pathErr) || !errors.Is(pathErr.Err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	accessExpiry, err := time.ParseDuration(v.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	retryBackoff, err := time.ParseDuration(v.GetString("EVENTS_RETRY_BACKOFF"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENTS_RETRY_BACKOFF: %w", err)
	}

	config := &Config{
		App: AppConfig{
			Port:       v.GetString("APP_PORT"),
			Env:        v.GetString("APP_ENV"),
			CORSOrigin: v.GetString("APP_CORS_ORIGIN"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		DB: DBConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASSWORD"),
			Name:        v.GetString("DB_NAME"),
			TimeZone:    v.GetString("DB_TIMEZONE"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Events: EventsConfig{
			Enabled:         v.GetBool("EVENTS_ENABLED"),
			StreamPrefix:    v.GetString("EVENTS_STREAM_PREFIX"),
			Partitions:      v.GetInt("EVENTS_PARTITIONS"),
			QueueSize:       v.GetInt("EVENTS_QUEUE_SIZE"),
			MaxAttempts:     v.GetInt("EVENTS_MAX_ATTEMPTS"),
			RetryBackoff:    retryBackoff,
			StreamMaxLen:    v.GetInt64("EVENTS_STREAM_MAXLEN"),
			ConsumerEnabled: v.GetBool("EVENTS_CONSUMER_ENABLED"),
			ConsumerGroup:   v.GetString("EVENTS_CONSUMER_GROUP"),
			ConsumerName:    v.GetString("EVENTS_CONSUMER_NAME"),
		},
		Admin: AdminConfig{
			Email:    v.GetString("ADMIN_EMAIL"),
			Password: v.GetString("ADMIN_PASSWORD"),
			Name:     v.GetString("ADMIN_NAME"),
		},
	}

	if config.Events.Partitions < 1 {
		return nil, fmt.Errorf("EVENTS_PARTITIONS must be at least 1, got %d", config.Events.Partitions)
	}
	if config.Events.QueueSize < 1 {
		return nil, fmt.Errorf("EVENTS_QUEUE_SIZE must be at least 1, got %d", config.Events.QueueSize)
	}
	if config.Events.MaxAttempts < 1 {
		config.Events.MaxAttempts = 1
	}

	return config, nil
}
