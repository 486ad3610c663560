package parser

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

var (
	// ErrUnknownFormat indicates bytes that are neither an OLE2 nor a zip container.
	ErrUnknownFormat = errors.New("unrecognized file signature")
	// ErrEncrypted indicates a password-protected workbook.
	ErrEncrypted = errors.New("workbook is encrypted")
	// ErrUnsupportedBIFF indicates a legacy workbook older than BIFF8.
	ErrUnsupportedBIFF = errors.New("unsupported BIFF version")
	// ErrNoWorkbookStream indicates a compound document without a workbook stream.
	ErrNoWorkbookStream = errors.New("no workbook stream in compound document")
	// ErrCorrupt indicates a truncated or inconsistent record stream.
	ErrCorrupt = errors.New("corrupt workbook stream")
	// ErrUnreadable indicates a container the modern reader rejected.
	ErrUnreadable = errors.New("unreadable workbook package")
)

var (
	ole2Signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	zipSignature  = []byte{'P', 'K', 0x03, 0x04}
)

// SignatureLen is the number of leading bytes Detect needs.
const SignatureLen = 8

// Detect classifies data by its leading bytes. The file name is never used.
func Detect(data []byte) models.SourceFormat {
	switch {
	case bytes.HasPrefix(data, ole2Signature):
		return models.FormatLegacy
	case bytes.HasPrefix(data, zipSignature):
		return models.FormatModern
	default:
		return models.FormatUnknown
	}
}

// DetectFile reads the first bytes of path and classifies them.
func DetectFile(path string) (models.SourceFormat, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.FormatUnknown, err
	}
	defer f.Close()

	head := make([]byte, SignatureLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return models.FormatUnknown, err
	}
	return Detect(head[:n]), nil
}

// Read loads a workbook from either container.
func Read(data []byte) (*models.Workbook, error) {
	switch Detect(data) {
	case models.FormatLegacy:
		return ReadXLS(data)
	case models.FormatModern:
		return ReadXLSX(data)
	default:
		return nil, ErrUnknownFormat
	}
}
