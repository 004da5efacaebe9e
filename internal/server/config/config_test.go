package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":5000", c.EndpointAddrHTTP)
	assert.Equal(t, "sqlite", c.DatabaseDriver)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 7*24*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, 1000, c.PasswordIterations)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "*", c.CORSOrigin)
	assert.Equal(t, 100, c.RateLimit)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "PORT", "STORAGE_BACKEND", "DATA_FILE", "DB_FILE", "DATABASE_DRIVER",
		"DATABASE_DSN", "RESET_DB_ON_START", "JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		"PASSWORD_ITERATIONS", "LOG_LEVEL", "FRONTEND_URL", "RATE_LIMIT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_REGION", "S3_ENDPOINT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	orig := dotenvFiles
	dotenvFiles = []string{filepath.Join(t.TempDir(), "missing.env")}
	t.Cleanup(func() { dotenvFiles = orig })
}

func TestLoadConfig_DefaultsToMemory(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, c)

	assert.Equal(t, BackendMemory, c.StorageBackend)
	assert.Equal(t, ":5000", c.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, c.AccessTokenValidityDuration)
}

func TestLoadConfig_LayerPrecedence(t *testing.T) {
	clearEnv(t)
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": ":7000",
		"secret_key":         "from-json",
		"log_level":          "warn",
	})
	t.Setenv("JWT_SECRET", "from-env")
	os.Args = []string{"testbin", "-c", path, "-l", "debug"}

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.EndpointAddrHTTP, "json overrides defaults")
	assert.Equal(t, "from-env", c.SecretKey, "env overrides json")
	assert.Equal(t, "debug", c.LogLevel, "flags override everything")
}

func TestResolveBackend(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr bool
	}{
		{name: "nothing set", cfg: Config{}, want: BackendMemory},
		{name: "dsn selects relational", cfg: Config{DatabaseDSN: "notes.db", DataFile: "data.json"}, want: BackendRelational},
		{name: "data file selects file", cfg: Config{DataFile: "data.json"}, want: BackendFile},
		{name: "explicit memory wins", cfg: Config{StorageBackend: " Memory ", DataFile: "data.json"}, want: BackendMemory},
		{name: "file without path", cfg: Config{StorageBackend: "file"}, wantErr: true},
		{name: "relational without dsn", cfg: Config{StorageBackend: "relational"}, wantErr: true},
		{name: "unknown", cfg: Config{StorageBackend: "redis"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.ResolveBackend()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.StorageBackend)
		})
	}
}
