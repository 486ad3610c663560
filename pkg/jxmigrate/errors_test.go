package jxmigrate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/instruction"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
)

func TestUnsupportedFormatReason(t *testing.T) {
	tests := []struct {
		input    error
		expected string
	}{
		{parser.ErrEncrypted, "encrypted"},
		{fmt.Errorf("%w: version 0x0500", parser.ErrUnsupportedBIFF), "pre-BIFF8"},
		{parser.ErrNoWorkbookStream, "no workbook stream"},
		{parser.ErrUnreadable, "unreadable"},
	}
	for _, tt := range tests {
		err := NewUnsupportedFormatError("a.xls", tt.input)
		if err.Reason != tt.expected {
			t.Errorf("NewUnsupportedFormatError(%v).Reason = %q, expected %q", tt.input, err.Reason, tt.expected)
		}
		if !errors.Is(err, tt.input) {
			t.Errorf("NewUnsupportedFormatError(%v) does not unwrap to its cause", tt.input)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{NewFormatDetectionError("", parser.ErrUnknownFormat), "format detection failed for <memory>: unrecognized file signature"},
		{NewWriteError("out.xlsx", errors.New("disk full")), "write out.xlsx: disk full"},
		{NewSheetError("Data", "apply", errors.New("boom")), `migration error in sheet "Data" (apply): boom`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.expected {
			t.Errorf("Error() = %q, expected %q", got, tt.expected)
		}
	}

	var malformed error = &MalformedInstructionError{Sheet: "S", Kind: instruction.KindIf, Err: instruction.ErrUnclosed}
	if !errors.Is(malformed, instruction.ErrUnclosed) {
		t.Errorf("MalformedInstructionError does not unwrap to ErrUnclosed")
	}
}
