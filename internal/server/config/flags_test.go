package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		start       Config
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd",
				"-a", "127.0.0.1:9090", "-b", "relational", "-f", "data.json", "-g", "postgres",
				"-d", "postgres://x", "-s", "secret", "-t", "1", "-r", "3", "-l", "warn", "-e", "http://endpoint",
			},
			expected: &Config{
				EndpointAddrHTTP:             "127.0.0.1:9090",
				StorageBackend:               "relational",
				DataFile:                     "data.json",
				DatabaseDriver:               "postgres",
				DatabaseDSN:                  "postgres://x",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				LogLevel:                     "warn",
				S3BaseEndpoint:               "http://endpoint",
			},
		},
		{
			name:  "unrelated flags ignored, sub-minute durations kept",
			args:  []string{"cmd", "-x", "1", "-c", "conf.json"},
			start: Config{AccessTokenValidityDuration: 90 * time.Second},
			expected: &Config{
				AccessTokenValidityDuration: 90 * time.Second,
			},
		},
		{
			name:        "bad int",
			args:        []string{"cmd", "-t", "soon"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := tt.start

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(&config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(&config) })
			assert.Empty(t, cmp.Diff(tt.expected, &config))
		})
	}
}
