package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// ReadXLS loads a BIFF8 workbook from an OLE2 compound document.
func ReadXLS(data []byte) (*models.Workbook, error) {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var stream []byte
	var props models.DocProperties
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		name := strings.TrimLeft(entry.Name, "\x01\x05")
		switch {
		case name == "EncryptedPackage":
			return nil, ErrEncrypted
		case name == "Workbook" || name == "Book":
			if stream != nil && name == "Book" {
				continue
			}
			buf, err := io.ReadAll(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
			}
			stream = buf
		case msoleps.IsMSOLEPS(entry.Initial):
			readPropertySet(entry, &props)
		}
	}
	if stream == nil {
		return nil, ErrNoWorkbookStream
	}

	g, err := readGlobals(stream)
	if err != nil {
		return nil, err
	}

	wb := &models.Workbook{
		Format:     models.FormatLegacy,
		Properties: props,
		Palette:    g.palette,
	}
	for _, bs := range g.sheets {
		if bs.kind != 0 {
			continue
		}
		if bs.offset <= 0 || bs.offset >= len(stream) {
			return nil, fmt.Errorf("%w: sheet %q offset out of range", ErrCorrupt, bs.name)
		}
		sheet, err := readSheet(stream, g, bs)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", bs.name, err)
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	if len(wb.Sheets) == 0 {
		return nil, errors.New("workbook has no worksheets")
	}
	return wb, nil
}
