// Package main provides the CLI entry point for jxmigrate.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/config"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/output"
)

var (
	outputPath    string
	fileMode      bool
	dryRun        bool
	keepExtension bool
	verbose       bool
	jobs          int
	author        string
	configPath    string
	logFormat     string
	report        bool
	pretty        bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "jxmigrate [input]",
		Short: "Migrate JXLS 1.x templates to JXLS 2.x",
		Long: `jxmigrate rewrites JXLS 1.x Excel templates (forEach/if tag rows and
<out> tags) into the JXLS 2.x comment annotation form. The input may be a
single .xls/.xlsx file or a directory of templates.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&outputPath, "output", "o", "", "Output file or directory (default: next to the input, or <input>_v2)")
	flags.BoolVarP(&fileMode, "file", "f", false, "Treat the input as a single file")
	flags.BoolVar(&dryRun, "dry-run", false, "Run the migration without writing anything")
	flags.BoolVar(&keepExtension, "keep-extension", false, "Keep file names and also migrate .xlsx inputs")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Log every converted instruction")
	flags.IntVarP(&jobs, "jobs", "j", 0, "Files migrated in parallel (default: number of CPUs)")
	flags.StringVar(&author, "author", config.DefaultAuthor, "Author recorded on annotation comments")
	flags.StringVar(&configPath, "config", "", "Config file (default: ./"+config.DefaultFileName+" if present)")
	flags.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "Log format: text, json, logfmt")
	flags.BoolVar(&report, "report", true, "Write migration reports (directory mode) or print the record (file mode)")
	flags.BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jxmigrate:", err)
		os.Exit(1)
	}
}

func overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	changed := cmd.Flags().Changed
	if changed("author") {
		o.Author = &author
	}
	if changed("keep-extension") {
		o.KeepExtension = &keepExtension
	}
	if changed("dry-run") {
		o.DryRun = &dryRun
	}
	if changed("jobs") {
		o.Jobs = &jobs
	}
	if changed("report") {
		o.Report = &report
	}
	if changed("pretty") {
		o.Pretty = &pretty
	}
	if changed("log-format") {
		o.LogFormat = &logFormat
	}
	if verbose {
		level := "debug"
		o.LogLevel = &level
	}
	return o
}

func run(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	info, err := os.Stat(inputPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath, overrides(cmd))
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	opts := jxmigrate.Options{
		Author:        cfg.Author,
		KeepExtension: cfg.KeepExtension,
		DryRun:        cfg.DryRun,
		Jobs:          cfg.Jobs,
		SkipNoOp:      cfg.SkipNoOp,
		Logger:        logger,
	}

	if fileMode || !info.IsDir() {
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", inputPath)
		}
		return runFile(inputPath, cfg, opts)
	}
	return runDirectory(cmd.Context(), inputPath, cfg, opts, logger)
}

func runFile(inputPath string, cfg *config.Config, opts jxmigrate.Options) error {
	rec, err := jxmigrate.MigrateFile(inputPath, outputPath, opts)
	if cfg.Report {
		data, jerr := output.RecordToJSON(rec, cfg.Pretty)
		if jerr != nil {
			return fmt.Errorf("serialization failed: %w", jerr)
		}
		fmt.Println(string(data))
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func runDirectory(parent context.Context, inputDir string, cfg *config.Config, opts jxmigrate.Options, logger *log.Logger) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := jxmigrate.MigrateDirectory(ctx, inputDir, outputPath, opts)
	if result == nil {
		return err
	}

	if cfg.Report && !cfg.DryRun {
		if werr := writeReports(result, cfg.Pretty); werr != nil {
			return fmt.Errorf("failed to write reports: %w", werr)
		}
		logger.Info("reports written", "dir", result.OutputDir)
	}

	if err != nil {
		return err
	}
	if !result.OK() {
		return fmt.Errorf("%d of %d files failed", result.Failed, result.Total)
	}
	return nil
}

func writeReports(result *models.BatchResult, pretty bool) error {
	if err := os.MkdirAll(result.OutputDir, 0755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(result.OutputDir, output.MarkdownReportName), output.ToMarkdown(result), 0644); err != nil {
		return err
	}

	jsonData, err := output.ToJSON(result, pretty)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(result.OutputDir, output.JSONReportName), jsonData, 0644)
}
