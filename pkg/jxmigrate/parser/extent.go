package parser

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// sheetExtents returns, per sheet name, the bottom-right corner of the row
// and cell elements stored in each worksheet part. Rows without cells and
// styled blank cells count, unlike the values returned by GetRows and the
// dimension element, which excelize leaves at A1 when it writes a package.
// Parts that cannot be located are absent from the result.
func sheetExtents(data []byte) map[string]models.CellRef {
	result := make(map[string]models.CellRef)
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return result
	}

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result
	}
	relsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || relsXML == nil {
		return result
	}

	for name, path := range worksheetPaths(parseWorkbookSheets(workbookXML), relsXML) {
		part, err := readZipFile(r, path)
		if err != nil || part == nil {
			continue
		}
		result[name] = scanExtent(part)
	}
	return result
}

// scanExtent walks the row and c elements of a worksheet part.
func scanExtent(data []byte) models.CellRef {
	var ext models.CellRef
	decoder := xml.NewDecoder(bytes.NewReader(data))
	row := 0
	for {
		token, err := decoder.Token()
		if err != nil {
			return ext
		}
		if end, ok := token.(xml.EndElement); ok && end.Name.Local == "sheetData" {
			return ext
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "row":
			row++
			if n, err := strconv.Atoi(attrValue(se, "r")); err == nil && n > 0 {
				row = n
			}
			ext.Row = max(ext.Row, row)
		case "c":
			if col, r, err := excelize.CellNameToCoordinates(attrValue(se, "r")); err == nil {
				ext.Col = max(ext.Col, col)
				ext.Row = max(ext.Row, r)
			}
		}
	}
}

func attrValue(se xml.StartElement, local string) string {
	for _, attr := range se.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// parseWorkbookSheets maps relationship ids to sheet names.
func parseWorkbookSheets(data []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			return result
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			name, rID := attrValue(se, "name"), attrValue(se, "id")
			if name != "" && rID != "" {
				result[rID] = name
			}
		}
	}
}

// worksheetPaths maps sheet names to worksheet part paths.
func worksheetPaths(sheets map[string]string, relsXML []byte) map[string]string {
	result := make(map[string]string)
	decoder := xml.NewDecoder(bytes.NewReader(relsXML))
	for {
		token, err := decoder.Token()
		if err != nil {
			return result
		}
		se, ok := token.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		name, ok := sheets[attrValue(se, "Id")]
		target := attrValue(se, "Target")
		if ok && strings.Contains(strings.ToLower(target), "worksheet") {
			result[name] = resolvePartPath(target)
		}
	}
}

// resolvePartPath turns a workbook relationship target into a package path.
func resolvePartPath(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	for strings.HasPrefix(target, "../") {
		target = strings.TrimPrefix(target, "../")
	}
	if strings.HasPrefix(target, "xl/") {
		return target
	}
	return "xl/" + target
}
