package parser

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// PrintAreaName is the reserved defined name holding a sheet's print area.
const PrintAreaName = "_xlnm.Print_Area"

// ExtractPrintAreas returns the print areas of a workbook keyed by sheet name.
func ExtractPrintAreas(f *excelize.File) map[string][]models.Range {
	result := make(map[string][]models.Range)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, PrintAreaName) {
			continue
		}
		sheet, areas := parsePrintAreaReference(dn.RefersTo)
		if sheet == "" {
			sheet = dn.Scope
		}
		if sheet != "" && len(areas) > 0 {
			result[sheet] = append(result[sheet], areas...)
		}
	}
	return result
}

// parsePrintAreaReference parses 'Sheet Name'!$A$1:$D$10,Sheet!$F$1:$G$2.
func parsePrintAreaReference(ref string) (string, []models.Range) {
	var sheetName string
	var areas []models.Range
	for _, part := range strings.Split(strings.TrimPrefix(ref, "="), ",") {
		part = strings.TrimSpace(part)
		idx := strings.LastIndex(part, "!")
		if idx < 0 {
			continue
		}
		sheet := strings.ReplaceAll(strings.Trim(part[:idx], "'"), "''", "'")
		if sheetName == "" {
			sheetName = sheet
		}
		if r, err := models.ParseRange(part[idx+1:]); err == nil {
			areas = append(areas, r)
		}
	}
	return sheetName, areas
}

// PrintAreaReference formats areas as the RefersTo value of a print area.
func PrintAreaReference(sheet string, areas []models.Range) string {
	quoted := "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	parts := make([]string, len(areas))
	for i, a := range areas {
		parts[i] = quoted + "!" + a.Absolute()
	}
	return strings.Join(parts, ",")
}
