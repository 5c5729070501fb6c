package config

import (
	"github.com/spf13/pflag"
)

// Flags are the command-line overrides. Register them on a command's
// persistent flag set, parse, then pass them to Load.
type Flags struct {
	fs *pflag.FlagSet

	configFile string
	envFile    string
	dbPath     string
	logLevel   string
	logFormat  string
	seed       bool
	backupDir  string
}

func RegisterFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.configFile, "config", "c", "", "path to a JSON config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "path to a .env file")
	fs.StringVar(&f.dbPath, "db", "", "path to the SQLite database")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.StringVar(&f.logFormat, "log-format", "", "log format (text, json)")
	fs.BoolVar(&f.seed, "seed", true, "seed sample data into an empty database on first run")
	fs.StringVar(&f.backupDir, "backup-dir", "", "directory for local backups")
	return f
}

// apply copies only the flags the user actually set.
func (f *Flags) apply(cfg *Config) {
	changed := func(name string) bool {
		fl := f.fs.Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("db") {
		cfg.DatabasePath = f.dbPath
	}
	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if changed("seed") {
		cfg.SeedOnFirstRun = f.seed
	}
	if changed("backup-dir") {
		cfg.BackupDir = f.backupDir
	}
}
