package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("TRUST_PROXY", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/registrar")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 7*24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.False(t, cfg.EphemeralSecret)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.TrustProxy)
}

func TestLoad_TrustProxyFromEnv(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "k")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.TrustProxy)
}

func TestLoad_FileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registrar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
db_driver: sqlite
database_url: /tmp/registrar.db
token_ttl: 24h
bcrypt_cost: 10
allowed_origins:
  - https://records.example.edu
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port, "env wins over file")
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/registrar.db", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, []string{"https://records.example.edu"}, cfg.AllowedOrigins)
}

func TestLoad_EphemeralSecretOutsideProduction(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.EphemeralSecret)
	assert.Len(t, cfg.JWTSecret, 64)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DATABASE_URL", "x")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", Config{LogLevel: "debug"}.SlogLevel().String())
	assert.Equal(t, "INFO", Config{LogLevel: "nonsense"}.SlogLevel().String())
}
