package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
	"github.com/dmitrijs2005/smartnotes/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file. Interval
// fields use timex.Duration so both "24h" and integer nanoseconds parse.
type JsonConfig struct {
	EndpointAddrHTTP             string         `json:"endpoint_addr_http"`
	StorageBackend               string         `json:"storage_backend"`
	DataFile                     string         `json:"data_file"`
	DatabaseDriver               string         `json:"database_driver"`
	DatabaseDSN                  string         `json:"database_dsn"`
	ResetOnStart                 bool           `json:"reset_on_start"`
	SecretKey                    string         `json:"secret_key"`
	AccessTokenValidityDuration  timex.Duration `json:"access_token_validity_duration"`
	RefreshTokenValidityDuration timex.Duration `json:"refresh_token_validity_duration"`
	PasswordIterations           int            `json:"password_iterations"`
	LogLevel                     string         `json:"log_level"`
	CORSOrigin                   string         `json:"cors_origin"`
	RateLimit                    int            `json:"rate_limit"`
	S3RootUser                   string         `json:"s3_root_user"`
	S3RootPassword               string         `json:"s3_root_password"`
	S3Region                     string         `json:"s3_region"`
	S3BaseEndpoint               string         `json:"s3_base_endpoint"`
}

// parseJson loads the file named by -c/-config into config. Only keys present
// with a non-zero value override what is already set. An unreadable file or
// invalid JSON panics, the same as a bad flag.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DataFile, c.DataFile)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.CORSOrigin, c.CORSOrigin)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)

	if c.ResetOnStart {
		config.ResetOnStart = true
	}
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.RefreshTokenValidityDuration.Duration > 0 {
		config.RefreshTokenValidityDuration = c.RefreshTokenValidityDuration.Duration
	}
	if c.PasswordIterations > 0 {
		config.PasswordIterations = c.PasswordIterations
	}
	if c.RateLimit != 0 {
		config.RateLimit = c.RateLimit
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
