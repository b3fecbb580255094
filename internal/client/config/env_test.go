package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, dotenv string, vars map[string]string) {
	t.Helper()
	orig := dotenvFile
	t.Cleanup(func() { dotenvFile = orig })
	dotenvFile = filepath.Join(t.TempDir(), ".env")
	if dotenv != "" {
		require.NoError(t, os.WriteFile(dotenvFile, []byte(dotenv), 0o600))
	}
	for _, name := range []string{"SNAP_SERVER_ADDRESS", "SNAP_ONLINE_CHECK_INTERVAL", "SNAP_REQUEST_TIMEOUT"} {
		t.Setenv(name, vars[name])
	}
}

func TestParseEnv(t *testing.T) {
	withEnv(t, "", map[string]string{
		"SNAP_SERVER_ADDRESS":        "snap.example:443",
		"SNAP_ONLINE_CHECK_INTERVAL": "750ms",
	})

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))

	assert.Equal(t, "snap.example:443", c.ServerEndpointAddr)
	assert.Equal(t, 750*time.Millisecond, c.OnlineCheckInterval)
	assert.Equal(t, 10*time.Second, c.RequestTimeout, "unset variables keep their value")
}

func TestParseEnv_BadDuration(t *testing.T) {
	withEnv(t, "", map[string]string{"SNAP_REQUEST_TIMEOUT": "soon"})

	var c Config
	c.LoadDefaults()
	err := parseEnv(&c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SNAP_REQUEST_TIMEOUT")
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
}

func TestParseEnv_DotenvFile(t *testing.T) {
	withEnv(t, "SNAP_REQUEST_TIMEOUT=2s\n", nil)
	// godotenv leaves variables that are already set alone
	require.NoError(t, os.Unsetenv("SNAP_REQUEST_TIMEOUT"))

	var c Config
	c.LoadDefaults()
	require.NoError(t, parseEnv(&c))
	assert.Equal(t, 2*time.Second, c.RequestTimeout)
}
