package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Load builds the configuration from defaults, the config file and the
// environment, then applies the flag overrides and validates the result.
// An empty path looks for DefaultFileName in the working directory and
// skips it when absent.
func Load(path string, flags Overrides) (*Config, error) {
	cfg := Default()

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFileName); err == nil {
			file = DefaultFileName
		}
	}
	if file != "" {
		if err := loadConfigFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", file, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	flags.apply(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes TOML from path into cfg. Keys absent from the file
// keep their current values; unknown keys are rejected.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown keys: %v", undecoded)
	}
	return nil
}

func (o Overrides) apply(cfg *Config) {
	if o.Author != nil {
		cfg.Author = *o.Author
	}
	if o.KeepExtension != nil {
		cfg.KeepExtension = *o.KeepExtension
	}
	if o.DryRun != nil {
		cfg.DryRun = *o.DryRun
	}
	if o.Jobs != nil {
		cfg.Jobs = *o.Jobs
	}
	if o.SkipNoOp != nil {
		cfg.SkipNoOp = *o.SkipNoOp
	}
	if o.Report != nil {
		cfg.Report = *o.Report
	}
	if o.Pretty != nil {
		cfg.Pretty = *o.Pretty
	}
	if o.LogLevel != nil {
		cfg.Log.Level = *o.LogLevel
	}
	if o.LogFormat != nil {
		cfg.Log.Format = *o.LogFormat
	}
}
