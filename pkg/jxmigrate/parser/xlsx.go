package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/style"
)

// baseline cells used to tell explicit widths and heights from defaults.
const (
	baselineColumn = "XFD"
	baselineRow    = excelize.TotalRows
)

// ReadXLSX loads a workbook from a zip package.
func ReadXLSX(data []byte) (*models.Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	wb := &models.Workbook{Format: models.FormatModern}
	if props, err := f.GetDocProps(); err == nil && props != nil {
		wb.Properties = models.DocProperties{
			Title:          props.Title,
			Subject:        props.Subject,
			Creator:        props.Creator,
			Keywords:       props.Keywords,
			Description:    props.Description,
			Category:       props.Category,
			LastModifiedBy: props.LastModifiedBy,
		}
	}

	areas := ExtractPrintAreas(f)
	extents := sheetExtents(data)
	styles := make(map[int]models.StyleDescriptor)
	for _, name := range f.GetSheetList() {
		sheet, err := readXLSXSheet(f, name, styles, extents[name])
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", name, err)
		}
		sheet.PrintAreas = areas[name]
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func readXLSXSheet(f *excelize.File, name string, styles map[int]models.StyleDescriptor, extent models.CellRef) (*models.Sheet, error) {
	sheet := models.NewSheet(name)
	if err := ExtractCells(f, sheet, styles, extent); err != nil {
		return nil, err
	}

	merges, err := f.GetMergeCells(name)
	if err != nil {
		return nil, err
	}
	for _, mc := range merges {
		r, err := models.ParseRange(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil {
			continue
		}
		sheet.Merges = append(sheet.Merges, r)
	}

	comments, err := f.GetComments(name)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		p, err := models.ParseCellRef(c.Cell)
		if err != nil {
			continue
		}
		sheet.Ensure(p).AppendComment(commentText(c))
	}

	if err := extractDimensions(f, sheet, extent); err != nil {
		return nil, err
	}
	return sheet, nil
}

func commentText(c excelize.Comment) string {
	if c.Text != "" {
		return c.Text
	}
	var b strings.Builder
	for _, run := range c.Paragraph {
		b.WriteString(run.Text)
	}
	return b.String()
}

// extractDimensions records the column widths and row heights that differ
// from the sheet defaults.
func extractDimensions(f *excelize.File, sheet *models.Sheet, extent models.CellRef) error {
	name := sheet.Name
	baseWidth, err := f.GetColWidth(name, baselineColumn)
	if err != nil {
		return err
	}
	baseHeight, err := f.GetRowHeight(name, baselineRow)
	if err != nil {
		return err
	}

	maxCol, maxRow := extent.Col, extent.Row
	if dim, ok := usedDimension(f, name); ok {
		maxCol, maxRow = dim.End.Col, dim.End.Row
	}
	for p := range sheet.Cells {
		maxCol = max(maxCol, p.Col)
		maxRow = max(maxRow, p.Row)
	}

	for col := 1; col <= maxCol; col++ {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		w, err := f.GetColWidth(name, colName)
		if err != nil {
			return err
		}
		if w != baseWidth {
			sheet.ColWidths[col] = w
		}
	}
	for row := 1; row <= maxRow; row++ {
		h, err := f.GetRowHeight(name, row)
		if err != nil {
			return err
		}
		if h != baseHeight {
			sheet.RowHeights[row] = h
		}
	}
	return nil
}

// usedDimension returns the range recorded in the sheet dimension element.
func usedDimension(f *excelize.File, name string) (models.Range, bool) {
	dim, err := f.GetSheetDimension(name)
	if err != nil || dim == "" {
		return models.Range{}, false
	}
	r, err := models.ParseRange(dim)
	if err != nil {
		return models.Range{}, false
	}
	return r, true
}

// descriptorFromStyle converts an excelize style into a style descriptor.
func descriptorFromStyle(s *excelize.Style) models.StyleDescriptor {
	var d models.StyleDescriptor
	if s == nil {
		return d
	}
	if s.Font != nil {
		d.Bold = ptr(s.Font.Bold)
		d.Italic = ptr(s.Font.Italic)
	}
	if s.Fill.Type == "pattern" && s.Fill.Pattern > 0 && len(s.Fill.Color) > 0 && s.Fill.Color[0] != "" {
		d.FillPattern = ptr(s.Fill.Pattern)
		d.FillColor = models.ColorRef{RGB: s.Fill.Color[0]}
	}
	for _, b := range s.Border {
		side, ok := borderSides[b.Type]
		if !ok {
			continue
		}
		d.Borders[side] = models.BorderDescriptor{
			Style: ptr(b.Style),
			Color: models.ColorRef{RGB: b.Color},
		}
	}
	if a := s.Alignment; a != nil {
		if code, ok := style.HorizontalCode(a.Horizontal); ok {
			d.Horizontal = ptr(code)
		}
		if code, ok := style.VerticalCode(a.Vertical); ok {
			d.Vertical = ptr(code)
		}
		d.Wrap = ptr(a.WrapText)
	}
	d.NumFmtID = ptr(s.NumFmt)
	if s.CustomNumFmt != nil {
		d.NumFmtCode = *s.CustomNumFmt
	}
	return d
}

var borderSides = map[string]int{
	"left":   models.SideLeft,
	"top":    models.SideTop,
	"right":  models.SideRight,
	"bottom": models.SideBottom,
}
