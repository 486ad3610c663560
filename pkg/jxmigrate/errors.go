package jxmigrate

import (
	"errors"
	"fmt"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/instruction"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/style"
)

// ErrNotDirectory indicates a directory migration on a regular file.
var ErrNotDirectory = errors.New("not a directory")

// MalformedInstructionError reports one directive that was left unconverted.
type MalformedInstructionError = instruction.MalformedError

// StyleTranslationWarning reports a style attribute replaced by a default.
type StyleTranslationWarning = style.Warning

// FormatDetectionError indicates bytes that are not a spreadsheet container.
type FormatDetectionError struct {
	Path string
	Err  error
}

func (e *FormatDetectionError) Error() string {
	return fmt.Sprintf("format detection failed for %s: %v", displayPath(e.Path), e.Err)
}

func (e *FormatDetectionError) Unwrap() error {
	return e.Err
}

// NewFormatDetectionError creates a new FormatDetectionError.
func NewFormatDetectionError(path string, err error) *FormatDetectionError {
	return &FormatDetectionError{Path: path, Err: err}
}

// UnsupportedFormatError indicates a recognised container that cannot be read.
type UnsupportedFormatError struct {
	Path   string
	Reason string // "encrypted", "pre-BIFF8", "no workbook stream", "unreadable"
	Err    error
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported workbook %s (%s): %v", displayPath(e.Path), e.Reason, e.Err)
}

func (e *UnsupportedFormatError) Unwrap() error {
	return e.Err
}

// NewUnsupportedFormatError creates an UnsupportedFormatError, deriving the
// reason from the reader error.
func NewUnsupportedFormatError(path string, err error) *UnsupportedFormatError {
	reason := "unreadable"
	switch {
	case errors.Is(err, parser.ErrEncrypted):
		reason = "encrypted"
	case errors.Is(err, parser.ErrUnsupportedBIFF):
		reason = "pre-BIFF8"
	case errors.Is(err, parser.ErrNoWorkbookStream):
		reason = "no workbook stream"
	}
	return &UnsupportedFormatError{Path: path, Reason: reason, Err: err}
}

// WriteError indicates the output could not be produced or stored.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", displayPath(e.Path), e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError.
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// SheetError represents an unexpected failure while migrating one sheet.
// The sheet is written back unchanged.
type SheetError struct {
	Sheet string
	Stage string // "scan", "apply", "styles"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("migration error in sheet %q (%s): %v", e.Sheet, e.Stage, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// NewSheetError creates a new SheetError.
func NewSheetError(sheet, stage string, err error) *SheetError {
	return &SheetError{Sheet: sheet, Stage: stage, Err: err}
}

func displayPath(path string) string {
	if path == "" {
		return "<memory>"
	}
	return path
}
