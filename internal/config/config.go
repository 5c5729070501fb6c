package config

import (
	"os"
	"path/filepath"
	"time"
)

const EnvPrefix = "SCHOLARKEEPER_"

// Config holds runtime settings for the scholarkeeper CLI.
//
// S3 backups are disabled while S3Bucket is empty.
type Config struct {
	DatabasePath   string
	LogLevel       string
	LogFormat      string
	SeedOnFirstRun bool

	BackupDir      string
	BackupSchedule string
	BackupTimeout  time.Duration

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
}

var userHomeDir = os.UserHomeDir

func dataDir() string {
	home, err := userHomeDir()
	if err != nil || home == "" {
		return ".scholarkeeper"
	}
	return filepath.Join(home, ".scholarkeeper")
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	dir := dataDir()
	c.DatabasePath = filepath.Join(dir, "scholarkeeper.db")
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.SeedOnFirstRun = true
	c.BackupDir = filepath.Join(dir, "backups")
	c.BackupSchedule = "@daily"
	c.BackupTimeout = 30 * time.Second
}

// S3Enabled reports whether backups should also go to a bucket.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != ""
}

// Load builds a Config from defaults, the environment, an optional JSON file
// and the parsed flags, in that order. flags may be nil.
func Load(flags *Flags) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	envFile := ".env"
	if flags != nil && flags.envFile != "" {
		envFile = flags.envFile
	}
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	jsonFile, _ := lookupEnv(EnvPrefix + "CONFIG")
	if flags != nil && flags.configFile != "" {
		jsonFile = flags.configFile
	}
	if err := parseJSON(cfg, jsonFile); err != nil {
		return nil, err
	}

	if flags != nil {
		flags.apply(cfg)
	}
	return cfg, nil
}
