// Package config handles configuration for the server component,
// including defaults, environment (.env) values, JSON overlay and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

// Config holds runtime settings for the gophsnap server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabasePath: SQLite file holding the snapshot.
//   - EnableProfiling: log elapsed time of snapshot reads and writes.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / SessionValidityDuration: token and session lifetimes.
//   - BusyTimeout / BusyRetries / BusyRetryDelay: SQLite lock handling.
//   - Webserver / Settings: seed values for a snapshot that does not exist yet.
//   - BackupEnabled, S3*: upload of the snapshot on shutdown.
//   - RestoreKey: backup object to load into the store at startup.
type Config struct {
	EndpointAddrGRPC            string
	DatabasePath                string
	EnableProfiling             bool
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	SessionValidityDuration     time.Duration
	BusyTimeout                 time.Duration
	BusyRetries                 int
	BusyRetryDelay              time.Duration
	Webserver                   models.Webserver
	Settings                    models.Settings
	BackupEnabled               bool
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	RestoreKey                  string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabasePath = "./data/database.db"
	c.EnableProfiling = false
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.SessionValidityDuration = 24 * time.Hour
	c.BusyTimeout = 5 * time.Second
	c.BusyRetries = 8
	c.BusyRetryDelay = 10 * time.Millisecond
	c.Webserver = models.Webserver{
		URL:      "http://localhost",
		Port:     "3001",
		Protocol: "http",
		Name:     "gophsnap",
		Version:  "1.0.0",
	}
	c.Settings = models.Settings{LogLevel: "info"}
	c.BackupEnabled = false
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "snapshots"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment (and an optional .env file), an optional JSON file
// and finally command-line flags. The result is validated.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every setting the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabasePath == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.EndpointAddrGRPC == "" {
		errs = append(errs, errors.New("gRPC address is empty"))
	}
	if _, err := logging.ParseLevel(c.Settings.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Webserver.Port != "" {
		if _, err := strconv.ParseUint(c.Webserver.Port, 10, 16); err != nil {
			errs = append(errs, fmt.Errorf("webserver port %q is not a port number", c.Webserver.Port))
		}
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.SessionValidityDuration <= 0 {
		errs = append(errs, errors.New("session validity must be positive"))
	}
	if c.BusyTimeout <= 0 {
		errs = append(errs, errors.New("busy timeout must be positive"))
	}
	if c.BusyRetries <= 0 {
		errs = append(errs, errors.New("busy retries must be positive"))
	}
	if c.BusyRetryDelay <= 0 {
		errs = append(errs, errors.New("busy retry delay must be positive"))
	}
	if c.BackupEnabled && c.S3Bucket == "" {
		errs = append(errs, errors.New("backup enabled without an S3 bucket"))
	}
	if c.RestoreKey != "" && c.S3Bucket == "" {
		errs = append(errs, errors.New("restore key set without an S3 bucket"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
