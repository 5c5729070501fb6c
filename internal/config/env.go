package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var lookupEnv = os.LookupEnv

// loadDotEnv copies variables from path into the process environment without
// overriding ones that are already set.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseEnv(cfg *Config) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"DB", &cfg.DatabasePath},
		{"LOG_LEVEL", &cfg.LogLevel},
		{"LOG_FORMAT", &cfg.LogFormat},
		{"BACKUP_DIR", &cfg.BackupDir},
		{"BACKUP_SCHEDULE", &cfg.BackupSchedule},
		{"S3_BUCKET", &cfg.S3Bucket},
		{"S3_REGION", &cfg.S3Region},
		{"S3_BASE_ENDPOINT", &cfg.S3BaseEndpoint},
		{"S3_ACCESS_KEY", &cfg.S3AccessKey},
		{"S3_SECRET_KEY", &cfg.S3SecretKey},
	}
	for _, s := range strs {
		if v, ok := lookupEnv(EnvPrefix + s.key); ok && v != "" {
			*s.dst = v
		}
	}

	if v, ok := lookupEnv(EnvPrefix + "SEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sSEED: invalid boolean %q", EnvPrefix, v)
		}
		cfg.SeedOnFirstRun = b
	}

	if v, ok := lookupEnv(EnvPrefix + "BACKUP_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%sBACKUP_TIMEOUT: %w", EnvPrefix, err)
		}
		cfg.BackupTimeout = d
	}
	return nil
}
