package jxmigrate

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// Naming constants.
const (
	// OutputDirSuffix is appended to the input directory name when no
	// output directory is given.
	OutputDirSuffix = "_v2"
	// LockFilePrefix marks office lock files, which are never migrated.
	LockFilePrefix = "~$"

	extLegacy = ".xls"
	extModern = ".xlsx"
)

// OutputName returns the output file name for an input name.
func OutputName(name string, keepExtension bool) string {
	if keepExtension {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + extModern
}

// Selected reports whether a file name is migrated in directory mode.
func Selected(name string, keepExtension bool) bool {
	if strings.HasPrefix(name, LockFilePrefix) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	if keepExtension {
		return ext == extLegacy || ext == extModern
	}
	return ext == extLegacy
}

// DefaultOutputDir returns the output directory used when none is given.
func DefaultOutputDir(inputDir string) string {
	clean := filepath.Clean(inputDir)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+OutputDirSuffix)
}

// MigrateFile migrates one file. An empty outputPath writes next to the
// input following OutputName. The record is always returned.
func MigrateFile(inputPath, outputPath string, opts Options) (*models.MigrationRecord, error) {
	if outputPath == "" {
		outputPath = filepath.Join(filepath.Dir(inputPath), OutputName(filepath.Base(inputPath), opts.KeepExtension))
	}
	logger := opts.logger().With("file", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		rec := &models.MigrationRecord{Input: inputPath, DryRun: opts.DryRun}
		rec.Fail(err)
		logger.Error("read failed", "err", err)
		return rec, err
	}

	buf, rec, err := migrate(inputPath, data, opts)
	if warning := extensionMismatch(inputPath, rec.Format); warning != "" {
		logger.Warn(warning)
		rec.Warnings = append(rec.Warnings, warning)
	}
	if err != nil {
		logger.Error("migration failed", "err", err)
		return rec, err
	}

	if buf != nil {
		if err := writeFileAtomic(outputPath, buf); err != nil {
			werr := NewWriteError(outputPath, err)
			rec.Fail(werr)
			logger.Error("write failed", "err", werr)
			return rec, werr
		}
		rec.Output = outputPath
	}
	logger.Info("migrated",
		"status", rec.Status,
		"found", rec.Found,
		"converted", rec.Converted,
		"failed", rec.Failed,
		"rows_deleted", rec.RowsDeleted,
	)
	return rec, nil
}

// extensionMismatch describes a file whose name disagrees with its bytes.
func extensionMismatch(path string, format models.SourceFormat) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == extLegacy && format == models.FormatModern:
		return fmt.Sprintf("%s is named %s but holds a modern package", filepath.Base(path), extLegacy)
	case ext == extModern && format == models.FormatLegacy:
		return fmt.Sprintf("%s is named %s but holds a legacy workbook", filepath.Base(path), extModern)
	}
	return ""
}

// writeFileAtomic writes data to a temporary file next to path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".jxmigrate-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// MigrateDirectory migrates every selected file below inputDir into
// outputDir, preserving relative paths. Files run in parallel bounded by
// Options.Jobs. A failing file never stops the batch; only ctx does.
func MigrateDirectory(ctx context.Context, inputDir, outputDir string, opts Options) (*models.BatchResult, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", inputDir, ErrNotDirectory)
	}
	if outputDir == "" {
		outputDir = DefaultOutputDir(inputDir)
	}

	result := &models.BatchResult{
		InputDir:  inputDir,
		OutputDir: outputDir,
		DryRun:    opts.DryRun,
		Started:   time.Now(),
	}
	inputs, err := collectInputs(inputDir, outputDir, opts.KeepExtension)
	if err != nil {
		return nil, err
	}

	logger := opts.logger()
	logger.Info("migrating directory", "input", inputDir, "output", outputDir, "files", len(inputs), "dry_run", opts.DryRun)

	records := make([]*models.MigrationRecord, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())
	for i, rel := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			in := filepath.Join(inputDir, rel)
			out := filepath.Join(outputDir, filepath.Dir(rel), OutputName(filepath.Base(rel), opts.KeepExtension))
			records[i], _ = MigrateFile(in, out, opts)
			return nil
		})
	}
	err = g.Wait()

	for _, r := range records {
		if r != nil {
			result.Records = append(result.Records, r)
		}
	}
	result.Tally()
	result.Duration = time.Since(result.Started)
	logger.Info("directory done",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"partial", result.Partial,
		"no_op", result.NoOp,
		"failed", result.Failed,
	)
	return result, err
}

// collectInputs returns the selected files below inputDir as sorted
// relative paths. The output directory is skipped when nested inside.
func collectInputs(inputDir, outputDir string, keepExtension bool) ([]string, error) {
	outAbs, _ := filepath.Abs(outputDir)
	var inputs []string
	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == outAbs && path != inputDir {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !Selected(d.Name(), keepExtension) {
			return nil
		}
		rel, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		inputs = append(inputs, rel)
		return nil
	})
	sort.Strings(inputs)
	return inputs, err
}
