package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("NOTIFY_BACKEND", "nats")
	t.Setenv("SLA_URGENT_DAYS", "10")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("STORAGE_TIMEOUT_MS", "1500")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, "nats", cfg.Notify.Backend)
	assert.Equal(t, 10, cfg.SLA.UrgentDays)
	assert.Equal(t, 30, cfg.SLA.NormalDays)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 1500*time.Millisecond, cfg.StorageTimeout())
}

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"APP_TIMEZONE", "STORE_BACKEND", "LOCK_BACKEND", "MINIO_ENDPOINT"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Timezone)
	assert.Equal(t, "postgres", cfg.StoreBackend)
	assert.Equal(t, "local", cfg.Lock.Backend)
	assert.False(t, cfg.MinIO.Enabled())
}

func TestAppConfig_Location(t *testing.T) {
	cfg := &AppConfig{Timezone: "UTC"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"
	t.Setenv(key, "0.5")
	assert.Equal(t, 0.5, getEnvFloat(key, 1))

	t.Setenv(key, "nope")
	assert.Equal(t, 1.0, getEnvFloat(key, 1))
}
