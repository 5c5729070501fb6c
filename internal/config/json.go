package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/scholarkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer fields
// tell an absent key apart from a zero value.
type JsonConfig struct {
	DatabasePath   *string         `json:"database_path"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	SeedOnFirstRun *bool           `json:"seed_on_first_run"`
	BackupDir      *string         `json:"backup_dir"`
	BackupSchedule *string         `json:"backup_schedule"`
	BackupTimeout  *timex.Duration `json:"backup_timeout"`
	S3Bucket       *string         `json:"s3_bucket"`
	S3Region       *string         `json:"s3_region"`
	S3BaseEndpoint *string         `json:"s3_base_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key"`
}

// parseJSON overlays cfg with the keys present in the file at path. An empty
// path is a no-op.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.BackupDir, jc.BackupDir)
	setString(&cfg.BackupSchedule, jc.BackupSchedule)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.SeedOnFirstRun != nil {
		cfg.SeedOnFirstRun = *jc.SeedOnFirstRun
	}
	if jc.BackupTimeout != nil {
		cfg.BackupTimeout = jc.BackupTimeout.Duration
	}
	return nil
}

func setString(dst, src *string) {
	if src != nil {
		*dst = *src
	}
}
