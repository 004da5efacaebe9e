package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_OverlaysSetVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:8080")
	t.Setenv("STORAGE_BACKEND", "file")
	t.Setenv("DATA_FILE", "/var/lib/notes/data.json")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("PASSWORD_ITERATIONS", "5000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("S3_ACCESS_KEY", "ak")
	t.Setenv("S3_SECRET_KEY", "sk")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("FRONTEND_URL", "https://notes.example.com")
	t.Setenv("RATE_LIMIT", "-1")

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NoError(t, parseEnv(cfg))

	want := &Config{
		EndpointAddrHTTP:             "127.0.0.1:8080",
		StorageBackend:               "file",
		DataFile:                     "/var/lib/notes/data.json",
		DatabaseDriver:               "sqlite",
		SecretKey:                    "s3cr3t",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 48 * time.Hour,
		PasswordIterations:           5000,
		LogLevel:                     "debug",
		CORSOrigin:                   "https://notes.example.com",
		RateLimit:                    -1,
		S3RootUser:                   "ak",
		S3RootPassword:               "sk",
		S3Region:                     "us-east-1",
		S3BaseEndpoint:               "http://minio:9000",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseEnv_LegacyVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "3001")
	t.Setenv("DB_FILE", "notes.db")
	t.Setenv("RESET_DB_ON_START", "true")

	cfg := &Config{DatabaseDriver: "postgres"}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, ":3001", cfg.EndpointAddrHTTP)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "notes.db", cfg.DatabaseDSN)
	assert.True(t, cfg.ResetOnStart)
}

func TestParseEnv_ReadsDotenvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=dotenv-secret\nLOG_LEVEL=error\n"), 0o600))
	dotenvFiles = []string{path}
	t.Cleanup(func() {
		_ = os.Unsetenv("JWT_SECRET")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg := &Config{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "dotenv-secret", cfg.SecretKey)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "forever")

	require.Error(t, parseEnv(&Config{}))
}
