package config

import (
	"fmt"
	"os"
	"strconv"
)

// loadFromEnv overrides cfg from JXMIGRATE_* environment variables.
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv(EnvPrefix + "AUTHOR"); v != "" {
		cfg.Author = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvPrefix + "LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv(EnvPrefix + "JOBS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sJOBS: %w", EnvPrefix, err)
		}
		cfg.Jobs = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"KEEP_EXTENSION", &cfg.KeepExtension},
		{"DRY_RUN", &cfg.DryRun},
		{"SKIP_NOOP", &cfg.SkipNoOp},
		{"REPORT", &cfg.Report},
		{"PRETTY", &cfg.Pretty},
		{"LOG_TIMESTAMPS", &cfg.Log.Timestamps},
	}
	for _, b := range bools {
		v := os.Getenv(EnvPrefix + b.name)
		if v == "" {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, b.name, err)
		}
		*b.dst = parsed
	}
	return nil
}
