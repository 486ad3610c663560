package parser

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// ExtractCells reads values, formulas and styles of one sheet into sheet.
// Cells that are empty but styled are kept so their style survives.
// styles caches descriptors by excelize style index across sheets. extent
// is the bottom-right corner of the stored row and cell elements; cells up
// to it are visited even when GetRows trims them.
func ExtractCells(f *excelize.File, sheet *models.Sheet, styles map[int]models.StyleDescriptor, extent models.CellRef) error {
	name := sheet.Name
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}

	maxRow, maxCol := max(len(rows), extent.Row), extent.Col
	for _, row := range rows {
		maxCol = max(maxCol, len(row))
	}
	if dim, ok := usedDimension(f, name); ok {
		maxRow = max(maxRow, dim.End.Row)
		maxCol = max(maxCol, dim.End.Col)
	}

	for r := 1; r <= maxRow; r++ {
		for c := 1; c <= maxCol; c++ {
			value := ""
			if r <= len(rows) && c <= len(rows[r-1]) {
				value = rows[r-1][c-1]
			}
			axis, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return err
			}
			formula, err := f.GetCellFormula(name, axis)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(name, axis)
			if err != nil {
				return err
			}
			if value == "" && formula == "" && styleID == 0 {
				continue
			}

			cell := sheet.Ensure(models.CellRef{Row: r, Col: c})
			if err := setCellValue(f, name, axis, cell, value, formula); err != nil {
				return err
			}
			if styleID != 0 {
				d, ok := styles[styleID]
				if !ok {
					s, err := f.GetStyle(styleID)
					if err != nil {
						return err
					}
					d = descriptorFromStyle(s)
					styles[styleID] = d
				}
				cell.RawStyle = d
			}
		}
	}
	return nil
}

func setCellValue(f *excelize.File, sheet, axis string, cell *models.Cell, value, formula string) error {
	if formula != "" {
		cell.Kind = models.KindFormula
		cell.Formula = formula
		cell.Text = value
		return nil
	}
	if value == "" {
		return nil
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		cell.SetText(value)
	case excelize.CellTypeBool:
		cell.Kind = models.KindBool
		cell.Bool = value == "1" || value == "TRUE" || value == "true"
	case excelize.CellTypeError:
		cell.Kind = models.KindError
		cell.Text = value
	default:
		if n, ok := parseNumber(value); ok {
			cell.Kind = models.KindNumber
			cell.Number = n
		} else {
			cell.SetText(value)
		}
	}
	return nil
}

// parseNumber attempts to parse a raw cell value as a number.
func parseNumber(s string) (float64, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(i), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f, true
	}
	return 0, false
}
