// Package config loads runtime configuration for the Kasa CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string     path to the vault database file
//	-l duration   auto-lock after this much idle time (0 disables)
//	-v            verbose logging (debug level)
//
// # JSON schema
//
// Durations are timex.Duration, so they can be strings like "5m" or integer
// nanoseconds. Keys that are absent keep their earlier value:
//
//	{
//	  "database_path": "/home/me/.kasa/kasa.db",
//	  "auto_lock_after": "2m",
//	  "numeric_password": true,
//	  "max_failed_attempts": 5,
//	  "cooldown_base": "30s",
//	  "log_level": "info",
//	  "log_format": "json"
//	}
package config
