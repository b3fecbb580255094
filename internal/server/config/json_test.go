package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_grpc":             "www.example:9000",
		"database_path":                  "snap.db",
		"enable_profiling":               true,
		"secret_key":                     "my_secret_key",
		"access_token_validity_duration": "1m",
		"session_validity_duration":      "48h",
		"busy_timeout":                   "2s",
		"busy_retries":                   3,
		"busy_retry_delay":               5000000,
		"webserver": map[string]any{
			"url":  "https://casino.example",
			"port": "443",
			"name": "casino",
		},
		"payments_enabled": true,
		"maintenance":      false,
		"log_level":        "warn",
		"backup_enabled":   true,
		"s3_root_user":     "user",
		"s3_root_password": "password",
		"s3_bucket":        "bucket",
		"s3_region":        "region",
		"s3_base_endpoint": "base_endpoint",
		"restore_key":      "snapshots/k.bin",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		cfg.LoadDefaults()
		cfg.Settings.Maintenance = true
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrGRPC)
		assert.Equal(t, "snap.db", cfg.DatabasePath)
		assert.True(t, cfg.EnableProfiling)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 1*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 48*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, 2*time.Second, cfg.BusyTimeout)
		assert.Equal(t, 3, cfg.BusyRetries)
		assert.Equal(t, 5*time.Millisecond, cfg.BusyRetryDelay)
		assert.Equal(t, "https://casino.example", cfg.Webserver.URL)
		assert.Equal(t, "443", cfg.Webserver.Port)
		assert.Equal(t, "casino", cfg.Webserver.Name)
		assert.Equal(t, "http", cfg.Webserver.Protocol, "absent keys keep the current value")
		assert.True(t, cfg.Settings.PaymentsEnabled)
		assert.False(t, cfg.Settings.Maintenance, "explicit false overrides")
		assert.Equal(t, "warn", cfg.Settings.LogLevel)
		assert.True(t, cfg.BackupEnabled)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "snapshots/k.bin", cfg.RestoreKey)
	})

	t.Run("short flag", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "snap.db", cfg.DatabasePath)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrGRPC:            "defaults:1234",
			DatabasePath:                "snap.db",
			SecretKey:                   "key",
			AccessTokenValidityDuration: 2 * time.Minute,
			S3RootUser:                  "s3root",
			S3RootPassword:              "s3rootpassword",
			S3Bucket:                    "s3bucket",
			S3Region:                    "s3region",
			S3BaseEndpoint:              "s3baseendpoint",
		}
		want := *cfg
		parseJson(cfg)

		assert.Equal(t, want, *cfg)
	})

	t.Run("empty file → no changes", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", writeTempJSON(t, dir, "empty.json", map[string]any{})}

		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		parseJson(cfg)

		assert.Equal(t, want, *cfg)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", filepath.Join(dir, "nope.json")}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
