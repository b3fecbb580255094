package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded by parseEnv when present.
var dotenvFile = ".env"

// parseEnv overlays values from the process environment. A .env file in the
// working directory is loaded first; variables already set in the
// environment win over it and a missing file is not an error. Empty
// variables are treated as unset.
//
// Recognized variables:
//
//	GRPC_ADDRESS, DATABASE_PATH, PROFILING, SECRET_KEY,
//	WEBSERVER_URL, WEBSERVER_PORT, WEBSERVER_PROTOCOL, WEBSERVER_NAME,
//	WEBSERVER_VERSION, WEBSERVER_DESCRIPTION, WEBSERVER_AUTHOR, WEBSERVER_LICENSE,
//	MERCADOPAGO (payments enabled), MAINTENANCE, LOGGER (log level),
//	BACKUP_ENABLED, S3_ROOT_USER, S3_ROOT_PASSWORD, S3_BUCKET, S3_REGION, S3_BASE_ENDPOINT,
//	RESTORE_KEY
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	var errs []error
	boolean := func(name string, dst *bool) {
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %q is not a boolean", name, v))
			return
		}
		*dst = b
	}

	str("GRPC_ADDRESS", &config.EndpointAddrGRPC)
	str("DATABASE_PATH", &config.DatabasePath)
	boolean("PROFILING", &config.EnableProfiling)
	str("SECRET_KEY", &config.SecretKey)

	str("WEBSERVER_URL", &config.Webserver.URL)
	str("WEBSERVER_PORT", &config.Webserver.Port)
	str("WEBSERVER_PROTOCOL", &config.Webserver.Protocol)
	str("WEBSERVER_NAME", &config.Webserver.Name)
	str("WEBSERVER_VERSION", &config.Webserver.Version)
	str("WEBSERVER_DESCRIPTION", &config.Webserver.Description)
	str("WEBSERVER_AUTHOR", &config.Webserver.Author)
	str("WEBSERVER_LICENSE", &config.Webserver.License)

	boolean("MERCADOPAGO", &config.Settings.PaymentsEnabled)
	boolean("MAINTENANCE", &config.Settings.Maintenance)
	str("LOGGER", &config.Settings.LogLevel)

	boolean("BACKUP_ENABLED", &config.BackupEnabled)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("RESTORE_KEY", &config.RestoreKey)

	return errors.Join(errs...)
}
