package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophsnap/internal/server/models"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	// Test cases
	tests := []struct {
		initial     *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db.sqlite", "-s", "secret", "-t", "5",
			"-p", "-m", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint",
			"-r", "snapshots/2024/05/01/x.bin",
		}, initial: &Config{}, expectPanic: false,
			expected: &Config{
				EndpointAddrGRPC:            "127.0.0.1:9090",
				DatabasePath:                "db.sqlite",
				SecretKey:                   "secret",
				AccessTokenValidityDuration: 5 * time.Minute,
				EnableProfiling:             true,
				Settings:                    models.Settings{Maintenance: true},
				S3Bucket:                    "bucket",
				S3Region:                    "us-west-1",
				S3BaseEndpoint:              "http://endpoint",
				RestoreKey:                  "snapshots/2024/05/01/x.bin",
			}},
		{name: "bool flag does not swallow next flag", args: []string{"cmd", "-p", "-d", "x.db", "-m=false"},
			initial: &Config{Settings: models.Settings{Maintenance: true}},
			expected: &Config{
				DatabasePath:    "x.db",
				EnableProfiling: true,
			}},
		{name: "no -t keeps sub-minute validity", args: []string{"cmd", "-a", ":1"},
			initial: &Config{AccessTokenValidityDuration: 90 * time.Second},
			expected: &Config{
				EndpointAddrGRPC:            ":1",
				AccessTokenValidityDuration: 90 * time.Second,
			}},
		{name: "unknown flags are ignored", args: []string{"cmd", "-x", "1", "-c", "cfg.json", "-d", "y.db"},
			initial:  &Config{},
			expected: &Config{DatabasePath: "y.db"}},
		{name: "bad int panics", args: []string{"cmd", "-t", "soon"}, initial: &Config{}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)

			os.Args = tt.args

			config := tt.initial

			if !tt.expectPanic {

				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
