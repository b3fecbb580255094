package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, c.EndpointAddrGRPC, ":50051")
	assert.Equal(t, c.DatabasePath, "./data/database.db")
	assert.False(t, c.EnableProfiling)
	assert.Equal(t, c.SecretKey, "secretKey")
	assert.Equal(t, c.AccessTokenValidityDuration, 15*time.Minute)
	assert.Equal(t, c.SessionValidityDuration, 24*time.Hour)
	assert.Equal(t, c.BusyTimeout, 5*time.Second)
	assert.Equal(t, c.BusyRetries, 8)
	assert.Equal(t, c.BusyRetryDelay, 10*time.Millisecond)
	assert.Equal(t, "3001", c.Webserver.Port)
	assert.Equal(t, models.Settings{LogLevel: "info"}, c.Settings)
	assert.False(t, c.BackupEnabled)
	assert.Equal(t, c.S3Bucket, "snapshots")
	assert.Equal(t, c.S3Region, "us-east-1")
	assert.Equal(t, c.S3BaseEndpoint, "http://127.0.0.1:9000/")
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	withDotenv(t, "")
	clearEnv(t)

	c, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, c, "LoadConfig must not return nil")

	var want Config
	want.LoadDefaults()
	assert.Equal(t, &want, c)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	withDotenv(t, "")
	clearEnv(t)

	jsonPath := writeTempJSON(t, "", "", map[string]any{
		"database_path": "/from/json.db",
		"secret_key":    "json-secret",
		"log_level":     "warn",
	})
	t.Setenv("DATABASE_PATH", "/from/env.db")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("GRPC_ADDRESS", ":6000")
	t.Setenv("LOGGER", "debug")

	os.Args = []string{"testbin", "-c", jsonPath, "-s", "flag-secret"}

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":6000", c.EndpointAddrGRPC, "env over defaults")
	assert.Equal(t, "/from/json.db", c.DatabasePath, "json over env")
	assert.Equal(t, "warn", c.Settings.LogLevel, "json over env")
	assert.Equal(t, "flag-secret", c.SecretKey, "flags over json")
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	withDotenv(t, "")
	clearEnv(t)
	t.Setenv("MAINTENANCE", "sometimes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAINTENANCE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		want   string
	}{
		{name: "ok", modify: func(*Config) {}},
		{name: "empty path", modify: func(c *Config) { c.DatabasePath = "" }, want: "database path is empty"},
		{name: "empty secret", modify: func(c *Config) { c.SecretKey = "" }, want: "secret key is empty"},
		{name: "empty address", modify: func(c *Config) { c.EndpointAddrGRPC = "" }, want: "gRPC address is empty"},
		{name: "log level", modify: func(c *Config) { c.Settings.LogLevel = "verbose" }, want: "unknown log level"},
		{name: "port", modify: func(c *Config) { c.Webserver.Port = "http" }, want: "not a port number"},
		{name: "port range", modify: func(c *Config) { c.Webserver.Port = "70000" }, want: "not a port number"},
		{name: "token validity", modify: func(c *Config) { c.AccessTokenValidityDuration = 0 }, want: "access token validity"},
		{name: "session validity", modify: func(c *Config) { c.SessionValidityDuration = -time.Second }, want: "session validity"},
		{name: "busy timeout", modify: func(c *Config) { c.BusyTimeout = 0 }, want: "busy timeout"},
		{name: "retries", modify: func(c *Config) { c.BusyRetries = 0 }, want: "busy retries"},
		{name: "retry delay", modify: func(c *Config) { c.BusyRetryDelay = 0 }, want: "busy retry delay"},
		{name: "backup bucket", modify: func(c *Config) { c.BackupEnabled = true; c.S3Bucket = "" }, want: "without an S3 bucket"},
		{name: "restore bucket", modify: func(c *Config) { c.RestoreKey = "k"; c.S3Bucket = "" }, want: "restore key set without an S3 bucket"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.modify(&c)

			err := c.Validate()
			if tt.want == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"database path", "secret key", "busy retries"} {
		assert.Contains(t, err.Error(), want)
	}
}

// withDotenv points parseEnv at a .env file holding content, or at a
// missing file when content is empty.
func withDotenv(t *testing.T, content string) {
	t.Helper()
	orig := dotenvFile
	t.Cleanup(func() { dotenvFile = orig })

	dotenvFile = filepath.Join(t.TempDir(), ".env")
	if content != "" {
		require.NoError(t, os.WriteFile(dotenvFile, []byte(content), 0o600))
	}
}

var envNames = []string{
	"GRPC_ADDRESS", "DATABASE_PATH", "PROFILING", "SECRET_KEY",
	"WEBSERVER_URL", "WEBSERVER_PORT", "WEBSERVER_PROTOCOL", "WEBSERVER_NAME",
	"WEBSERVER_VERSION", "WEBSERVER_DESCRIPTION", "WEBSERVER_AUTHOR", "WEBSERVER_LICENSE",
	"MERCADOPAGO", "MAINTENANCE", "LOGGER",
	"BACKUP_ENABLED", "S3_ROOT_USER", "S3_ROOT_PASSWORD", "S3_BUCKET", "S3_REGION", "S3_BASE_ENDPOINT",
	"RESTORE_KEY",
}

// clearEnv blanks every variable parseEnv reads for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
	}
}
