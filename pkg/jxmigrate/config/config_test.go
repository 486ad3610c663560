package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jxmigrate.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Author != DefaultAuthor {
		t.Errorf("Author: got %q, want %q", cfg.Author, DefaultAuthor)
	}
	if !cfg.Report || cfg.KeepExtension || cfg.DryRun {
		t.Errorf("Report/KeepExtension/DryRun: got %v/%v/%v, want true/false/false", cfg.Report, cfg.KeepExtension, cfg.DryRun)
	}
	if cfg.Log.Level != DefaultLogLevel || cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log: got %+v", cfg.Log)
	}
}

func TestLayering(t *testing.T) {
	path := writeConfig(t, `
author = "file author"
jobs = 4
keep_extension = true

[log]
level = "debug"
`)
	t.Setenv(EnvPrefix+"JOBS", "8")
	t.Setenv(EnvPrefix+"REPORT", "false")

	format := "json"
	keep := false
	cfg, err := Load(path, Overrides{LogFormat: &format, KeepExtension: &keep})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"author from file", cfg.Author, "file author"},
		{"jobs from env", cfg.Jobs, 8},
		{"report from env", cfg.Report, false},
		{"level from file", cfg.Log.Level, "debug"},
		{"format from flag", cfg.Log.Format, "json"},
		{"keep_extension from flag", cfg.KeepExtension, false},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `authr = "typo"`)
	if _, err := Load(path, Overrides{}); err == nil || !strings.Contains(err.Error(), "authr") {
		t.Errorf("Load: got %v, want unknown key error", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml"), Overrides{}); err == nil {
		t.Error("Load: want error for a missing explicit config file")
	}
}

func TestLoadBadEnv(t *testing.T) {
	t.Setenv(EnvPrefix+"DRY_RUN", "maybe")
	if _, err := Load("", Overrides{}); err == nil || !strings.Contains(err.Error(), "DRY_RUN") {
		t.Errorf("Load: got %v, want DRY_RUN parse error", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Jobs = -1
	cfg.Log.Format = "xml"
	cfg.Author = ""

	err := Validate(cfg)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Validate: got %v, want *ValidationError", err)
	}
	paths := make(map[string]bool)
	for _, f := range ve.Fields {
		paths[f.Path] = true
	}
	for _, want := range []string{"author", "jobs", "log.format"} {
		if !paths[want] {
			t.Errorf("Validate: missing violation for %s in %v", want, ve.Fields)
		}
	}

	if err := Validate(Default()); err != nil {
		t.Errorf("Validate(Default()): got %v, want nil", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown", "file", "a.xls")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line written at warn level: %s", out)
	}
	if !strings.Contains(out, "a.xls") || !strings.Contains(out, "jxmigrate") || !strings.HasPrefix(out, "{") {
		t.Errorf("unexpected JSON log line: %s", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"debug", "debug"},
		{"warning", "warn"},
		{"error", "error"},
		{"bogus", "info"},
	}
	for _, tt := range tests {
		if got := ParseLogLevel(tt.input).String(); got != tt.want {
			t.Errorf("ParseLogLevel(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}
