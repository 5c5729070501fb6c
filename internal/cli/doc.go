// Package cli implements the scholarkeeper command tree.
//
// Every command opens the local database before it runs and closes it
// afterwards. Unless disabled, an empty database is seeded with sample data
// the first time any command touches it.
//
// Tables are written to the command's stdout; logs go to stderr. Pass --json
// to the listing commands for machine-readable output.
package cli
