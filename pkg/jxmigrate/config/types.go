// Package config loads jxmigrate settings from defaults, a TOML file, the
// environment and command-line flags, in that order.
package config

// Default values.
const (
	DefaultFileName  = "jxmigrate.toml"
	DefaultAuthor    = "JXLS Migration Tool"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	EnvPrefix        = "JXMIGRATE_"
)

// Config holds all settings of a run.
type Config struct {
	// Author is recorded on the annotation comments.
	Author string `toml:"author" json:"author"`
	// KeepExtension keeps input file names and migrates .xlsx inputs too.
	KeepExtension bool `toml:"keep_extension" json:"keep_extension"`
	// DryRun runs the pipeline without writing files.
	DryRun bool `toml:"dry_run" json:"dry_run"`
	// Jobs bounds parallel file migrations; 0 means one per CPU.
	Jobs int `toml:"jobs" json:"jobs"`
	// SkipNoOp leaves files without legacy instructions unwritten.
	SkipNoOp bool `toml:"skip_noop" json:"skip_noop"`
	// Report writes the Markdown and JSON reports in directory mode.
	Report bool `toml:"report" json:"report"`
	// Pretty indents JSON output.
	Pretty bool      `toml:"pretty" json:"pretty"`
	Log    LogConfig `toml:"log" json:"log"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level" json:"level"`
	// Format is one of text, json, logfmt.
	Format string `toml:"format" json:"format"`
	// Timestamps adds a timestamp to every line.
	Timestamps bool `toml:"timestamps" json:"timestamps"`
}

// Overrides carries flag values; nil fields were not set on the command line.
type Overrides struct {
	Author        *string
	KeepExtension *bool
	DryRun        *bool
	Jobs          *int
	SkipNoOp      *bool
	Report        *bool
	Pretty        *bool
	LogLevel      *string
	LogFormat     *string
}

func setDefaults(cfg *Config) {
	cfg.Author = DefaultAuthor
	cfg.Report = true
	cfg.Log.Level = DefaultLogLevel
	cfg.Log.Format = DefaultLogFormat
}

// Default returns the default configuration.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}
