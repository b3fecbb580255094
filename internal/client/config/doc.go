// Package config assembles the CLI settings.
//
// Layers, later ones winning: (*Config).LoadDefaults, SNAP_* environment
// variables (a .env file is honoured), the JSON file named by -c/-config,
// and the -a/-i/-t flags. LoadConfig validates the result.
//
// JSON keys: server_endpoint_addr, online_check_interval, request_timeout.
// Intervals in JSON accept "3s" style strings or integer nanoseconds.
package config
