package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds attachment storage settings. Attachments are disabled when Endpoint is empty.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an attachment store is configured.
func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

// RedisConfig is shared by the redis lock and the redis notification stream.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NotifyConfig selects the transport for submitter notifications: log, redis or nats.
type NotifyConfig struct {
	Backend   string
	Stream    string
	StreamMax int64
	NATSURL   string
	Subject   string
	TimeoutMs int
}

// LockConfig selects the per-document lock: local or redis.
type LockConfig struct {
	Backend string
	TTLMs   int
}

// SLAConfig holds the resolution windows in calendar days. PolicyFile, when set, is a YAML
// file whose values override the day counts.
type SLAConfig struct {
	UrgentDays int
	NormalDays int
	LowDays    int
	PolicyFile string
}

// RateLimitConfig bounds the public search endpoint.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost          string
	Port             string
	Timezone         string
	LogLevel         string
	StoreBackend     string
	StorageTimeoutMs int
	SearchLimit      int
	// UnitsFile is a YAML unit directory loaded at startup (memory store) or by migrate --seed.
	UnitsFile        string
	Database         DatabaseConfig
	MinIO            MinIOConfig
	Redis            RedisConfig
	Notify           NotifyConfig
	Lock             LockConfig
	SLA              SLAConfig
	RateLimit        RateLimitConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:          getEnv("APP_HOST", "localhost:8080"),
		Port:             getEnv("PORT", "8080"),
		Timezone:         getEnv("APP_TIMEZONE", "Asia/Ho_Chi_Minh"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreBackend:     getEnv("STORE_BACKEND", "postgres"),
		StorageTimeoutMs: getEnvInt("STORAGE_TIMEOUT_MS", 5000),
		SearchLimit:      getEnvInt("SEARCH_LIMIT", 50),
		UnitsFile:        getEnv("UNITS_FILE", ""),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "caseflow"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Notify: NotifyConfig{
			Backend:   getEnv("NOTIFY_BACKEND", "log"),
			Stream:    getEnv("NOTIFY_STREAM", "caseflow:notifications"),
			StreamMax: int64(getEnvInt("NOTIFY_STREAM_MAXLEN", 10000)),
			NATSURL:   getEnv("NATS_URL", "nats://localhost:4222"),
			Subject:   getEnv("NOTIFY_SUBJECT", "caseflow.notify"),
			TimeoutMs: getEnvInt("NOTIFY_TIMEOUT_MS", 3000),
		},
		Lock: LockConfig{
			Backend: getEnv("LOCK_BACKEND", "local"),
			TTLMs:   getEnvInt("LOCK_TTL_MS", 10000),
		},
		SLA: SLAConfig{
			UrgentDays: getEnvInt("SLA_URGENT_DAYS", 15),
			NormalDays: getEnvInt("SLA_NORMAL_DAYS", 30),
			LowDays:    getEnvInt("SLA_LOW_DAYS", 60),
			PolicyFile: getEnv("SLA_POLICY_FILE", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
			Burst: getEnvInt("RATE_LIMIT_BURST", 10),
		},
	}
}

// Location resolves the configured timezone. Report months and log timestamps use it.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// StorageTimeout bounds every single storage call.
func (c *AppConfig) StorageTimeout() time.Duration {
	return time.Duration(c.StorageTimeoutMs) * time.Millisecond
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
