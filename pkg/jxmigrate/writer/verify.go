package writer

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInlineString indicates a worksheet cell stored as an inline string.
var ErrInlineString = errors.New("inline string cell")

// VerifySharedStrings checks that no worksheet in the package stores text
// inline instead of through the shared string table.
func VerifySharedStrings(data []byte) error {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return err
	}
	for _, f := range r.File {
		if !strings.HasPrefix(f.Name, "xl/worksheets/") || !strings.HasSuffix(f.Name, ".xml") {
			continue
		}
		part, err := readZipFile(f)
		if err != nil {
			return err
		}
		if cell := findInlineString(part); cell != "" {
			return fmt.Errorf("%w: %s %s", ErrInlineString, f.Name, cell)
		}
	}
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// findInlineString returns the reference of the first inline string cell.
func findInlineString(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return ""
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "c" {
			continue
		}
		var ref, typ string
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "r":
				ref = attr.Value
			case "t":
				typ = attr.Value
			}
		}
		if typ == "inlineStr" {
			return ref
		}
	}
}
