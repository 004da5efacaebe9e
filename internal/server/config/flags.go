package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/smartnotes/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-b string   storage backend: memory, file or relational
//	-f string   data file for the file backend (path or s3://bucket/key)
//	-g string   database driver: sqlite or postgres
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-l string   log level
//	-e string   S3 base endpoint
//
// os.Args is filtered to these flags with flagx.FilterArgs first, so flags
// owned by other components do not make parsing fail.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-b", "-f", "-g", "-d", "-s", "-t", "-r", "-l", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend (memory, file, relational)")
	fs.StringVar(&config.DataFile, "f", config.DataFile, "data file for the file backend")
	fs.StringVar(&config.DatabaseDriver, "g", config.DatabaseDriver, "database driver (sqlite, postgres)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh token validity (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	setMinutes(&config.AccessTokenValidityDuration, *accessTokenValidityDuration)
	setMinutes(&config.RefreshTokenValidityDuration, *refreshTokenValidityDuration)
}

// setMinutes keeps sub-minute precision from earlier layers unless the flag
// actually changed the value.
func setMinutes(d *time.Duration, minutes int) {
	if int(d.Minutes()) != minutes {
		*d = time.Duration(minutes) * time.Minute
	}
}
