// Package config loads runtime configuration for the promptmanager CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend, e.g. http://127.0.0.1:5000
//	-d string   path of the local SQLite storage file ("" = in memory)
//	-i int      online status check interval (seconds)
//	-t int      request timeout (seconds, 0 = none)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "3s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_base_url": "http://127.0.0.1:5000",
//	  "storage_path": "promptmanager.db",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "log_level": "info"
//	}
package config
