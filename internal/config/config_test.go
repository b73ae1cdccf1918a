package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "APP_NAME", "APP_ENV", "PORT", "LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET",
	"TOKEN_TTL", "STORE_DRIVER", "DATABASE_URL", "MONGO_URI", "MONGO_DATABASE", "REDIS_URL",
	"IDEMPOTENCY_TTL", "SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT_SECONDS", "CORS_ALLOW_ORIGINS",
	"METRICS_ENABLED",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, ":3000", cfg.Address())
	assert.Equal(t, StoreMemory, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, defaultDevJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "*", cfg.CORSAllowOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownPeriod)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadInfersStoreDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, "contactbook", cfg.MongoDatabase)

	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/contactbook")

	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, StorePostgres, cfg.StoreDriver)
}

func TestLoadProductionRequirements(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("DATABASE_URL", "postgres://localhost/contactbook")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	t.Setenv("JWT_SECRET", "s3cret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.JWTSecret)

	t.Setenv("DATABASE_URL", "")
	_, err = Load()
	assert.ErrorContains(t, err, "memory")
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string][2]string{
		"unknown driver":   {"STORE_DRIVER", "cassandra"},
		"postgres w/o url": {"STORE_DRIVER", "postgres"},
		"bad ttl":          {"TOKEN_TTL", "forever"},
		"bad shutdown":     {"SHUTDOWN_TIMEOUT_SECONDS", "ten"},
		"bad metrics flag": {"METRICS_ENABLED", "maybe"},
		"negative idem":    {"IDEMPOTENCY_TTL", "-5s"},
		"zero idem":        {"IDEMPOTENCY_TTL", "0s"},
		"zero token ttl":   {"TOKEN_TTL", "0s"},
		"negative drain":   {"SHUTDOWN_TIMEOUT_SECONDS", "-1"},
		"zero drain":       {"SHUTDOWN_TIMEOUT", "0s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFileOverlay(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEST_MONGO_HOST", "mongo.internal")

	path := filepath.Join(t.TempDir(), "contactbook.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  port: "8080"
logging:
  level: debug
auth:
  jwt_secret: from-file
  token_ttl: 12h
store:
  mongo_uri: mongodb://${TEST_MONGO_HOST}:27017
metrics:
  enabled: false
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_LEVEL", "WARN")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "mongodb://mongo.internal:27017", cfg.MongoURI)
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
