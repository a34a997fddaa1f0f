package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret = "change-me-jwt-secret"

	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

type Config struct {
	AppEnv   string
	LogLevel string
	HTTPAddr string

	// DatabaseURL points at the hosted Postgres backend. Empty means
	// local-only mode.
	DatabaseURL string

	LocalStoreDriver    string
	LocalStoreDSN       string
	LocalStoreNamespace string
	LocalStoreMaxBytes  int
	ImageInlineMaxBytes int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SyncInterval      time.Duration
	SuppressionWindow time.Duration
	PushQueueSize     int
	RemoteTimeout     time.Duration

	NotificationRetention time.Duration

	JWTSecret          string
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		AppEnv:                strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:              strings.TrimSpace(v.GetString("LOG_LEVEL")),
		HTTPAddr:              strings.TrimSpace(v.GetString("HTTP_ADDR")),
		DatabaseURL:           strings.TrimSpace(v.GetString("DATABASE_URL")),
		LocalStoreDriver:      strings.ToLower(strings.TrimSpace(v.GetString("LOCAL_STORE_DRIVER"))),
		LocalStoreDSN:         strings.TrimSpace(v.GetString("LOCAL_STORE_DSN")),
		LocalStoreNamespace:   strings.TrimSpace(v.GetString("LOCAL_STORE_NAMESPACE")),
		LocalStoreMaxBytes:    v.GetInt("LOCAL_STORE_MAX_BYTES"),
		ImageInlineMaxBytes:   v.GetInt("IMAGE_INLINE_MAX_BYTES"),
		RedisAddr:             strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:         v.GetString("REDIS_PASSWORD"),
		RedisDB:               v.GetInt("REDIS_DB"),
		SyncInterval:          v.GetDuration("SYNC_INTERVAL"),
		SuppressionWindow:     v.GetDuration("SUPPRESSION_WINDOW"),
		PushQueueSize:         v.GetInt("PUSH_QUEUE_SIZE"),
		RemoteTimeout:         v.GetDuration("REMOTE_TIMEOUT"),
		NotificationRetention: v.GetDuration("NOTIFICATION_RETENTION"),
		JWTSecret:             strings.TrimSpace(v.GetString("JWT_SECRET")),
		CORSAllowedOrigins:    splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimitRPS:          v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:        v.GetInt("RATE_LIMIT_BURST"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("LOCAL_STORE_DRIVER", DriverSQLite)
	v.SetDefault("LOCAL_STORE_DSN", "fitmarket_local.db")
	v.SetDefault("LOCAL_STORE_NAMESPACE", "fitmarket")
	v.SetDefault("LOCAL_STORE_MAX_BYTES", 5*1024*1024)
	v.SetDefault("IMAGE_INLINE_MAX_BYTES", 100*1024)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SYNC_INTERVAL", "30s")
	v.SetDefault("SUPPRESSION_WINDOW", "8s")
	v.SetDefault("PUSH_QUEUE_SIZE", 256)
	v.SetDefault("REMOTE_TIMEOUT", "10s")
	v.SetDefault("NOTIFICATION_RETENTION", "720h")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
}

// LocalOnly reports whether no remote backend is configured.
func (c *Config) LocalOnly() bool { return c.DatabaseURL == "" }

func validateConfig(cfg *Config) error {
	if cfg.HTTPAddr == "" {
		return fmt.Errorf("HTTP_ADDR must not be empty")
	}
	if cfg.LocalStoreDriver != DriverSQLite && cfg.LocalStoreDriver != DriverRedis {
		return fmt.Errorf("LOCAL_STORE_DRIVER must be one of: %s, %s", DriverSQLite, DriverRedis)
	}
	if cfg.LocalStoreDriver == DriverSQLite && cfg.LocalStoreDSN == "" {
		return fmt.Errorf("LOCAL_STORE_DSN must not be empty for the sqlite driver")
	}
	if cfg.LocalStoreDriver == DriverRedis && cfg.RedisAddr == "" {
		return fmt.Errorf("REDIS_ADDR must not be empty for the redis driver")
	}
	if cfg.LocalStoreNamespace == "" {
		return fmt.Errorf("LOCAL_STORE_NAMESPACE must not be empty")
	}
	if cfg.LocalStoreMaxBytes < 0 {
		return fmt.Errorf("LOCAL_STORE_MAX_BYTES must be >= 0")
	}
	if cfg.ImageInlineMaxBytes <= 0 {
		return fmt.Errorf("IMAGE_INLINE_MAX_BYTES must be > 0")
	}
	if cfg.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be > 0")
	}
	if cfg.SuppressionWindow <= 0 {
		return fmt.Errorf("SUPPRESSION_WINDOW must be > 0")
	}
	if cfg.PushQueueSize <= 0 {
		return fmt.Errorf("PUSH_QUEUE_SIZE must be > 0")
	}
	if cfg.RemoteTimeout <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must be > 0")
	}
	if cfg.NotificationRetention <= 0 {
		return fmt.Errorf("NOTIFICATION_RETENTION must be > 0")
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be > 0")
	}

	if isProdLike(cfg.AppEnv) && isEmptyOrDefault(cfg.JWTSecret, defaultJWTSecret) {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "prod" || env == "production" || env == "release"
}

func isEmptyOrDefault(v, def string) bool {
	trimmed := strings.TrimSpace(v)
	return trimmed == "" || trimmed == def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
