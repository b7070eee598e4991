package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Database drivers accepted by DATABASE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr        string
	AppURL      string
	CronSecret  string
	Environment string
	LogLevel    string

	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
	Storage   StorageConfig
	Report    ReportConfig

	GuidanceCacheSize int
}

// DatabaseConfig selects and configures the assessment store.
type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig configures the optional shared rate limit backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig controls per-IP submission throttling.
type RateLimitConfig struct {
	Disabled        bool
	Requests        int
	Window          time.Duration
	CleanupInterval time.Duration
}

// EmailConfig configures result delivery.
type EmailConfig struct {
	ResendAPIKey string
	From         string
}

// StorageConfig configures where rendered PDFs are kept.
type StorageConfig struct {
	GCSBucket       string
	SignedURLExpiry time.Duration
}

// ReportConfig configures PDF rendering.
type ReportConfig struct {
	LogoPath    string
	Concurrency int
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	return Server{
		Addr:        getEnv("ADDR", ":8080"),
		AppURL:      strings.TrimRight(getEnv("APP_URL", "http://localhost:8080"), "/"),
		CronSecret:  os.Getenv("CRON_SECRET"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Database: DatabaseConfig{
			Driver:          getEnv("DATABASE_DRIVER", defaultDriver()),
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getEnvInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getEnvDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getEnvDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getEnvDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Disabled:        os.Getenv("DISABLE_RATE_LIMIT") == "true",
			Requests:        getEnvInt("RATE_LIMIT_REQUESTS", 5),
			Window:          getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Email: EmailConfig{
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("EMAIL_FROM", "MSP+ Assessment <onboarding@resend.dev>"),
		},
		Storage: StorageConfig{
			GCSBucket:       os.Getenv("GCS_BUCKET"),
			SignedURLExpiry: getEnvDuration("SIGNED_URL_EXPIRY", time.Hour),
		},
		Report: ReportConfig{
			LogoPath:    os.Getenv("LOGO_PATH"),
			Concurrency: getEnvInt("PDF_CONCURRENCY", 4),
		},
		GuidanceCacheSize: getEnvInt("GUIDANCE_CACHE_SIZE", 750),
	}
}

// IsProduction reports whether the service runs in production.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

func defaultDriver() string {
	if os.Getenv("DATABASE_URL") != "" {
		return DriverPostgres
	}
	return DriverMemory
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
