// Package writer serialises the workbook model as a modern package.
package writer

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/style"
)

// DefaultAuthor is the author recorded on comments the tool writes.
const DefaultAuthor = "JXLS Migration Tool"

// ErrNoSheets indicates a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

var sideNames = [4]string{
	models.SideLeft:   "left",
	models.SideTop:    "top",
	models.SideRight:  "right",
	models.SideBottom: "bottom",
}

// Options configures Write.
type Options struct {
	// Author is the comment author. Empty means DefaultAuthor.
	Author string
}

// Writer writes one workbook. Styles are registered once per distinct spec.
type Writer struct {
	f      *excelize.File
	author string
	styles map[models.StyleSpec]int
}

// New returns a Writer for opts.
func New(opts Options) *Writer {
	author := opts.Author
	if author == "" {
		author = DefaultAuthor
	}
	return &Writer{author: author}
}

// Write serialises wb with a fresh Writer.
func Write(wb *models.Workbook, opts Options) ([]byte, error) {
	return New(opts).Write(wb)
}

// Write serialises wb and returns the package bytes. Text is stored in the
// shared string table.
func (w *Writer) Write(wb *models.Workbook) ([]byte, error) {
	if len(wb.Sheets) == 0 {
		return nil, ErrNoSheets
	}
	w.f = excelize.NewFile()
	w.styles = make(map[models.StyleSpec]int)
	defer w.f.Close()

	for i, sheet := range wb.Sheets {
		if i == 0 {
			if err := w.f.SetSheetName(w.f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
		} else if _, err := w.f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
		if err := w.writeSheet(sheet); err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
		}
	}
	w.f.SetActiveSheet(0)

	if !wb.Properties.IsZero() {
		p := wb.Properties
		if err := w.f.SetDocProps(&excelize.DocProperties{
			Title:          p.Title,
			Subject:        p.Subject,
			Creator:        p.Creator,
			Keywords:       p.Keywords,
			Description:    p.Description,
			Category:       p.Category,
			LastModifiedBy: p.LastModifiedBy,
		}); err != nil {
			return nil, err
		}
	}

	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Writer) writeSheet(s *models.Sheet) error {
	name := s.Name
	for _, p := range s.Positions() {
		c := s.Cells[p]
		axis := p.String()
		if err := w.writeValue(name, axis, c); err != nil {
			return fmt.Errorf("%s: %w", axis, err)
		}
		if !c.Style.IsZero() {
			id, err := w.styleID(c.Style)
			if err != nil {
				return fmt.Errorf("%s: %w", axis, err)
			}
			if err := w.f.SetCellStyle(name, axis, axis, id); err != nil {
				return err
			}
		}
		if c.Comment != "" {
			if err := w.f.AddComment(name, excelize.Comment{
				Cell:      axis,
				Author:    w.author,
				Paragraph: []excelize.RichTextRun{{Text: c.Comment}},
			}); err != nil {
				return fmt.Errorf("%s comment: %w", axis, err)
			}
		}
	}

	for _, m := range s.Merges {
		if m.Start == m.End {
			continue
		}
		if err := w.f.MergeCell(name, m.Start.String(), m.End.String()); err != nil {
			return err
		}
	}
	for col, width := range s.ColWidths {
		colName, err := excelize.ColumnNumberToName(col)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}
	for row, height := range s.RowHeights {
		if err := w.f.SetRowHeight(name, row, height); err != nil {
			return err
		}
	}
	if len(s.PrintAreas) > 0 {
		return w.f.SetDefinedName(&excelize.DefinedName{
			Name:     parser.PrintAreaName,
			RefersTo: parser.PrintAreaReference(name, s.PrintAreas),
			Scope:    name,
		})
	}
	return nil
}

func (w *Writer) writeValue(sheet, axis string, c *models.Cell) error {
	switch c.Kind {
	case models.KindString:
		return w.f.SetCellStr(sheet, axis, c.Text)
	case models.KindNumber:
		return w.f.SetCellFloat(sheet, axis, c.Number, -1, 64)
	case models.KindBool:
		return w.f.SetCellBool(sheet, axis, c.Bool)
	case models.KindFormula:
		return w.f.SetCellFormula(sheet, axis, c.Formula)
	case models.KindError:
		// =#N/A evaluates to the literal itself
		return w.f.SetCellFormula(sheet, axis, c.Text)
	}
	return nil
}

// styleID returns the registered style for spec, registering it on first use.
func (w *Writer) styleID(spec models.StyleSpec) (int, error) {
	if id, ok := w.styles[spec]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(toExcelize(spec))
	if err != nil {
		return 0, err
	}
	w.styles[spec] = id
	return id, nil
}

// StyleCount returns the number of distinct styles registered by the last Write.
func (w *Writer) StyleCount() int {
	return len(w.styles)
}

func toExcelize(spec models.StyleSpec) *excelize.Style {
	s := &excelize.Style{
		Font: &excelize.Font{
			Family: spec.Font.Name,
			Size:   spec.Font.Size,
			Bold:   spec.Font.Bold,
			Italic: spec.Font.Italic,
			Color:  spec.Font.Color,
		},
		Alignment: &excelize.Alignment{
			Horizontal: spec.Alignment.Horizontal,
			Vertical:   spec.Alignment.Vertical,
			WrapText:   spec.Alignment.Wrap,
		},
	}
	if spec.Fill.Solid {
		s.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{spec.Fill.Color}}
	}
	for side, b := range spec.Borders {
		if b.Style == "" || b.Style == style.DefaultBorder {
			continue
		}
		s.Border = append(s.Border, excelize.Border{
			Type:  sideNames[side],
			Color: b.Color,
			Style: style.BorderStyleCode(b.Style),
		})
	}
	if spec.NumFmt.Code != "" {
		code := spec.NumFmt.Code
		s.CustomNumFmt = &code
	} else {
		s.NumFmt = spec.NumFmt.ID
	}
	return s
}
