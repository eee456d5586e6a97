package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Scheduling   SchedulingConfig
	Notification NotificationConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DBConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	Issuer       string
	AccessExpiry time.Duration
}

type SchedulingConfig struct {
	// TimeZone is the clinic's zone: request date-times are wall-clock times in it
	TimeZone    string
	Location    *time.Location
	LockBackend string
	LockTTL     time.Duration
	LockWait    time.Duration
}

type NotificationConfig struct {
	OutboxKey      string
	Workers        int
	QueueSize      int
	EnqueueTimeout time.Duration
}

const (
	LockBackendLocal = "local"
	LockBackendRedis = "redis"
)

// LoadConfig reads envFile (a missing file is fine) and the process environment,
// environment variables taking precedence.
func LoadConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		DB: DBConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       v.GetString("JWT_SECRET"),
			Issuer:       v.GetString("JWT_ISSUER"),
			AccessExpiry: v.GetDuration("JWT_ACCESS_EXPIRY"),
		},
		Scheduling: SchedulingConfig{
			TimeZone:    v.GetString("SCHEDULING_TIMEZONE"),
			LockBackend: strings.ToLower(v.GetString("SCHEDULING_LOCK_BACKEND")),
			LockTTL:     v.GetDuration("SCHEDULING_LOCK_TTL"),
			LockWait:    v.GetDuration("SCHEDULING_LOCK_WAIT"),
		},
		Notification: NotificationConfig{
			OutboxKey:      v.GetString("NOTIFICATION_OUTBOX_KEY"),
			Workers:        v.GetInt("NOTIFICATION_WORKERS"),
			QueueSize:      v.GetInt("NOTIFICATION_QUEUE_SIZE"),
			EnqueueTimeout: v.GetDuration("NOTIFICATION_ENQUEUE_TIMEOUT"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "clinic")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_ACCESS_EXPIRY", "15m")

	v.SetDefault("SCHEDULING_TIMEZONE", "UTC")
	v.SetDefault("SCHEDULING_LOCK_BACKEND", LockBackendLocal)
	v.SetDefault("SCHEDULING_LOCK_TTL", "10s")
	v.SetDefault("SCHEDULING_LOCK_WAIT", "5s")

	v.SetDefault("NOTIFICATION_OUTBOX_KEY", "clinic:notifications:outbox")
	v.SetDefault("NOTIFICATION_WORKERS", 2)
	v.SetDefault("NOTIFICATION_QUEUE_SIZE", 256)
	v.SetDefault("NOTIFICATION_ENQUEUE_TIMEOUT", "100ms")
}

// Validate checks the configuration and resolves the clinic time zone
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	loc, err := time.LoadLocation(c.Scheduling.TimeZone)
	if err != nil {
		return fmt.Errorf("SCHEDULING_TIMEZONE %q: %w", c.Scheduling.TimeZone, err)
	}
	c.Scheduling.Location = loc

	switch c.Scheduling.LockBackend {
	case LockBackendLocal, LockBackendRedis:
	default:
		return fmt.Errorf("SCHEDULING_LOCK_BACKEND must be %q or %q, got %q", LockBackendLocal, LockBackendRedis, c.Scheduling.LockBackend)
	}
	if c.Scheduling.LockTTL <= 0 || c.Scheduling.LockWait <= 0 {
		return fmt.Errorf("SCHEDULING_LOCK_TTL and SCHEDULING_LOCK_WAIT must be positive")
	}

	if c.Notification.Workers < 1 || c.Notification.QueueSize < 1 {
		return fmt.Errorf("NOTIFICATION_WORKERS and NOTIFICATION_QUEUE_SIZE must be at least 1")
	}

	return nil
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

// DSN builds the PostgreSQL connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone)
}

// URL builds the pgx5:// form used by the migrator
func (c DBConfig) URL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
