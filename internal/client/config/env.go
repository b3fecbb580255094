package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var dotenvFile = ".env"

// parseEnv reads SNAP_SERVER_ADDRESS, SNAP_ONLINE_CHECK_INTERVAL and
// SNAP_REQUEST_TIMEOUT, after loading .env when it exists. Intervals use
// time.ParseDuration syntax ("500ms", "3s").
func parseEnv(cfg *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	if v := os.Getenv("SNAP_SERVER_ADDRESS"); v != "" {
		cfg.ServerEndpointAddr = v
	}

	var errs []error
	duration := func(name string, dst *time.Duration) {
		v := os.Getenv(name)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a duration", name, v))
			return
		}
		*dst = d
	}
	duration("SNAP_ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	duration("SNAP_REQUEST_TIMEOUT", &cfg.RequestTimeout)

	return errors.Join(errs...)
}
