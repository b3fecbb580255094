package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/gophsnap/internal/flagx"
	"github.com/dmitrijs2005/gophsnap/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "1s" and integer nanoseconds. Booleans are pointers
// so that an explicit false can be told apart from an absent key.
//
// This struct is an intermediate DTO (Data Transfer Object) used only for
// reading JSON configuration files. After unmarshalling, the fields that are
// present are copied into the runtime Config struct.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	DatabasePath                string         `json:"database_path"`
	EnableProfiling             *bool          `json:"enable_profiling"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	SessionValidityDuration     timex.Duration `json:"session_validity_duration"`
	BusyTimeout                 timex.Duration `json:"busy_timeout"`
	BusyRetries                 int            `json:"busy_retries"`
	BusyRetryDelay              timex.Duration `json:"busy_retry_delay"`
	Webserver                   struct {
		URL         string `json:"url"`
		Port        string `json:"port"`
		Protocol    string `json:"protocol"`
		Name        string `json:"name"`
		Version     string `json:"version"`
		Description string `json:"description"`
		Author      string `json:"author"`
		License     string `json:"license"`
	} `json:"webserver"`
	PaymentsEnabled *bool  `json:"payments_enabled"`
	Maintenance     *bool  `json:"maintenance"`
	LogLevel        string `json:"log_level"`
	BackupEnabled   *bool  `json:"backup_enabled"`
	S3RootUser      string `json:"s3_root_user"`
	S3RootPassword  string `json:"s3_root_password"`
	S3Bucket        string `json:"s3_bucket"`
	S3Region        string `json:"s3_region"`
	S3BaseEndpoint  string `json:"s3_base_endpoint"`
	RestoreKey      string `json:"restore_key"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The JSON file path comes from the -c or -config command-line flags. If
// neither is set, no JSON file is loaded.
//
// Only values present in the file are copied; empty strings and zero
// durations leave the current value alone. If the file cannot be read or
// contains invalid JSON, the function panics.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabasePath, c.DatabasePath)
	setBool(&config.EnableProfiling, c.EnableProfiling)
	setString(&config.SecretKey, c.SecretKey)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setDuration(&config.SessionValidityDuration, c.SessionValidityDuration)
	setDuration(&config.BusyTimeout, c.BusyTimeout)
	if c.BusyRetries != 0 {
		config.BusyRetries = c.BusyRetries
	}
	setDuration(&config.BusyRetryDelay, c.BusyRetryDelay)

	setString(&config.Webserver.URL, c.Webserver.URL)
	setString(&config.Webserver.Port, c.Webserver.Port)
	setString(&config.Webserver.Protocol, c.Webserver.Protocol)
	setString(&config.Webserver.Name, c.Webserver.Name)
	setString(&config.Webserver.Version, c.Webserver.Version)
	setString(&config.Webserver.Description, c.Webserver.Description)
	setString(&config.Webserver.Author, c.Webserver.Author)
	setString(&config.Webserver.License, c.Webserver.License)

	setBool(&config.Settings.PaymentsEnabled, c.PaymentsEnabled)
	setBool(&config.Settings.Maintenance, c.Maintenance)
	setString(&config.Settings.LogLevel, c.LogLevel)

	setBool(&config.BackupEnabled, c.BackupEnabled)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.RestoreKey, c.RestoreKey)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
