package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig lists the environment variables the server understands.
// DATA_FILE, DB_FILE, PORT, FRONTEND_URL and RESET_DB_ON_START keep the names used by
// earlier deployments.
type EnvConfig struct {
	HTTPAddr           string        `env:"HTTP_ADDR"`
	Port               string        `env:"PORT"`
	StorageBackend     string        `env:"STORAGE_BACKEND"`
	DataFile           string        `env:"DATA_FILE"`
	DBFile             string        `env:"DB_FILE"`
	DatabaseDriver     string        `env:"DATABASE_DRIVER"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	ResetOnStart       bool          `env:"RESET_DB_ON_START"`
	SecretKey          string        `env:"JWT_SECRET"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL    time.Duration `env:"REFRESH_TOKEN_TTL"`
	PasswordIterations int           `env:"PASSWORD_ITERATIONS"`
	LogLevel           string        `env:"LOG_LEVEL"`
	FrontendURL        string        `env:"FRONTEND_URL"`
	RateLimit          int           `env:"RATE_LIMIT"`
	S3AccessKey        string        `env:"S3_ACCESS_KEY"`
	S3SecretKey        string        `env:"S3_SECRET_KEY"`
	S3Region           string        `env:"S3_REGION"`
	S3Endpoint         string        `env:"S3_ENDPOINT"`
}

// dotenvFiles is replaced in tests.
var dotenvFiles = []string{".env"}

// parseEnv loads an optional .env file (never overriding variables already
// set in the process) and overlays every non-empty variable onto config.
func parseEnv(config *Config) error {
	// a missing .env is the normal case
	_ = godotenv.Load(dotenvFiles...)

	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&config.EndpointAddrHTTP, e.HTTPAddr)
	if e.HTTPAddr == "" && e.Port != "" {
		config.EndpointAddrHTTP = ":" + strings.TrimPrefix(e.Port, ":")
	}
	setString(&config.StorageBackend, e.StorageBackend)
	setString(&config.DataFile, e.DataFile)
	setString(&config.DatabaseDriver, e.DatabaseDriver)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	if e.DBFile != "" && e.DatabaseDSN == "" {
		config.DatabaseDriver = "sqlite"
		config.DatabaseDSN = e.DBFile
	}
	if e.ResetOnStart {
		config.ResetOnStart = true
	}
	setString(&config.SecretKey, e.SecretKey)
	if e.AccessTokenTTL > 0 {
		config.AccessTokenValidityDuration = e.AccessTokenTTL
	}
	if e.RefreshTokenTTL > 0 {
		config.RefreshTokenValidityDuration = e.RefreshTokenTTL
	}
	if e.PasswordIterations > 0 {
		config.PasswordIterations = e.PasswordIterations
	}
	setString(&config.LogLevel, e.LogLevel)
	setString(&config.CORSOrigin, e.FrontendURL)
	if e.RateLimit != 0 {
		config.RateLimit = e.RateLimit
	}
	setString(&config.S3RootUser, e.S3AccessKey)
	setString(&config.S3RootPassword, e.S3SecretKey)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3Endpoint)
	return nil
}
