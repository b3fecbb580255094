package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, Config{
		ServerEndpointAddr:  "127.0.0.1:50051",
		OnlineCheckInterval: 3 * time.Second,
		RequestTimeout:      10 * time.Second,
	}, c)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	withEnv(t, "", map[string]string{
		"SNAP_SERVER_ADDRESS":  "env:1",
		"SNAP_REQUEST_TIMEOUT": "4s",
	})
	path := writeTempJSON(t, "", "", map[string]any{"server_endpoint_addr": "json:2"})
	os.Args = []string{"cli", "-c", path, "-i", "7"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "json:2", cfg.ServerEndpointAddr)
	assert.Equal(t, 7*time.Second, cfg.OnlineCheckInterval)
	assert.Equal(t, 4*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_Invalid(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	withEnv(t, "", nil)
	os.Args = []string{"cli", "-t", "0"}

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request timeout must be positive")
}

func TestValidate(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"server address is empty", "online check interval", "request timeout"} {
		assert.Contains(t, err.Error(), want)
	}
}
