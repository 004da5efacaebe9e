// Package config handles configuration for the notes server: defaults, an
// optional JSON file, a .env file plus environment variables, and finally
// command-line flags, each layer overriding the previous one.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Storage backends selectable through StorageBackend.
const (
	BackendMemory     = "memory"
	BackendFile       = "file"
	BackendRelational = "relational"
)

// Config holds runtime settings for the notes server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - StorageBackend: "memory", "file" or "relational"; empty means auto.
//   - DataFile: snapshot location for the file backend (path or s3://bucket/key).
//   - DatabaseDriver / DatabaseDSN: relational engine ("sqlite" or "postgres") and its DSN.
//   - ResetOnStart: drop the SQLite database file before opening it.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Empty means a random per-process key.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//   - PasswordIterations: PBKDF2 work factor, never below the hasher's default.
//   - LogLevel: debug, info, warn or error.
//   - CORSOrigin: value of Access-Control-Allow-Origin; "*" allows any origin.
//   - RateLimit: requests allowed per client IP in each 15 minute window; negative disables it.
//   - S3*: credentials and endpoint for s3:// snapshot targets.
type Config struct {
	EndpointAddrHTTP             string
	StorageBackend               string
	DataFile                     string
	DatabaseDriver               string
	DatabaseDSN                  string
	ResetOnStart                 bool
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	PasswordIterations           int
	LogLevel                     string
	CORSOrigin                   string
	RateLimit                    int
	S3RootUser                   string
	S3RootPassword               string
	S3Region                     string
	S3BaseEndpoint               string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5000"
	c.DatabaseDriver = "sqlite"
	c.AccessTokenValidityDuration = 24 * time.Hour
	c.RefreshTokenValidityDuration = 7 * 24 * time.Hour
	c.PasswordIterations = 1000
	c.LogLevel = "info"
	c.CORSOrigin = "*"
	c.RateLimit = 100
	c.S3Region = "us-east-1"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	if err := cfg.ResolveBackend(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolveBackend fills in StorageBackend when it was left empty and validates
// the result. A configured database DSN selects the relational backend, a
// data file selects the file backend, and memory is used otherwise.
func (c *Config) ResolveBackend() error {
	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))

	if c.StorageBackend == "" {
		switch {
		case c.DatabaseDSN != "":
			c.StorageBackend = BackendRelational
		case c.DataFile != "":
			c.StorageBackend = BackendFile
		default:
			c.StorageBackend = BackendMemory
		}
	}

	switch c.StorageBackend {
	case BackendMemory:
		return nil
	case BackendFile:
		if c.DataFile == "" {
			return fmt.Errorf("file backend requires a data file")
		}
		return nil
	case BackendRelational:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("relational backend requires a database DSN")
		}
		return nil
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}
