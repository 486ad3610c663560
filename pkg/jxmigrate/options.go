// Package jxmigrate migrates JXLS 1.x templates to the JXLS 2.x comment
// annotation form.
package jxmigrate

import (
	"io"
	"runtime"

	"github.com/charmbracelet/log"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/writer"
)

// Options configures a migration.
type Options struct {
	// Author is recorded on the annotation comments.
	// If empty, writer.DefaultAuthor is used.
	Author string
	// KeepExtension keeps the input file name in directory mode and selects
	// both .xls and .xlsx inputs. Otherwise only .xls inputs are migrated and
	// renamed to .xlsx. The output bytes are always a modern package.
	KeepExtension bool
	// DryRun runs the whole pipeline without writing anything.
	DryRun bool
	// Jobs bounds the number of files migrated in parallel.
	// If zero, runtime.NumCPU() is used.
	Jobs int
	// SkipNoOp leaves files without any legacy instruction unwritten.
	SkipNoOp bool
	// Logger receives progress messages. If nil, nothing is logged.
	Logger *log.Logger
}

// DefaultOptions returns default migration options.
func DefaultOptions() Options {
	return Options{
		Author: writer.DefaultAuthor,
		Jobs:   runtime.NumCPU(),
	}
}

// ShouldWrite returns whether a file holding found legacy instructions is written.
func (o Options) ShouldWrite(found int) bool {
	if o.DryRun {
		return false
	}
	return found > 0 || !o.SkipNoOp
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.NumCPU()
}

var discard = log.New(io.Discard)

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return discard
}
