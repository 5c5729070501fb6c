// Package config loads runtime configuration for the scholarkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. An optional .env file (missing file ignored) and SCHOLARKEEPER_*
//     environment variables. Variables already set in the process win over
//     the .env file.
//  3. Optional JSON file selected with --config/-c or SCHOLARKEEPER_CONFIG.
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
// Only keys present in the file are applied. backup_timeout accepts either a
// string like "30s" or integer nanoseconds:
//
//	{
//	  "database_path": "/data/scholarkeeper.db",
//	  "log_level": "debug",
//	  "seed_on_first_run": false,
//	  "backup_schedule": "0 3 * * *",
//	  "backup_timeout": "1m",
//	  "s3_bucket": "my-backups"
//	}
//
// Loading never exits the process; malformed input is returned as an error.
package config
