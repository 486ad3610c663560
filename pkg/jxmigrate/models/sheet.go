package models

import "sort"

// Sheet represents one worksheet of a workbook.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Cells maps positions to cells. Missing positions are empty.
	Cells map[CellRef]*Cell `json:"-"`
	// Merges lists the merged ranges.
	Merges []Range `json:"merges,omitempty"`
	// ColWidths maps 1-based column indexes to widths in characters.
	ColWidths map[int]float64 `json:"col_widths,omitempty"`
	// RowHeights maps 1-based row indexes to heights in points.
	RowHeights map[int]float64 `json:"row_heights,omitempty"`
	// PrintAreas lists the print areas defined for the sheet.
	PrintAreas []Range `json:"print_areas,omitempty"`
}

// NewSheet creates an empty sheet.
func NewSheet(name string) *Sheet {
	return &Sheet{
		Name:       name,
		Cells:      make(map[CellRef]*Cell),
		ColWidths:  make(map[int]float64),
		RowHeights: make(map[int]float64),
	}
}

// Cell returns the cell at (row, col), or nil when absent.
func (s *Sheet) Cell(row, col int) *Cell {
	return s.Cells[CellRef{Row: row, Col: col}]
}

// Ensure returns the cell at p, creating an empty one if needed.
func (s *Sheet) Ensure(p CellRef) *Cell {
	if s.Cells == nil {
		s.Cells = make(map[CellRef]*Cell)
	}
	c, ok := s.Cells[p]
	if !ok {
		c = &Cell{}
		s.Cells[p] = c
	}
	return c
}

// SetCell stores c at (row, col).
func (s *Sheet) SetCell(row, col int, c *Cell) {
	if s.Cells == nil {
		s.Cells = make(map[CellRef]*Cell)
	}
	s.Cells[CellRef{Row: row, Col: col}] = c
}

// SetString stores a string cell at (row, col).
func (s *Sheet) SetString(row, col int, text string) {
	c := s.Ensure(CellRef{Row: row, Col: col})
	c.SetText(text)
}

// Text returns the string content at (row, col), or "".
func (s *Sheet) Text(row, col int) string {
	c := s.Cell(row, col)
	if c == nil || c.Kind != KindString {
		return ""
	}
	return c.Text
}

// Positions returns every stored position in row-major order.
func (s *Sheet) Positions() []CellRef {
	out := make([]CellRef, 0, len(s.Cells))
	for p := range s.Cells {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Bounds returns the used range: the bounding box of non-blank cells.
// ok is false when the sheet has no content.
func (s *Sheet) Bounds() (r Range, ok bool) {
	for p, c := range s.Cells {
		if c.IsBlank() {
			continue
		}
		if !ok {
			r = Range{Start: p, End: p}
			ok = true
			continue
		}
		if p.Row < r.Start.Row {
			r.Start.Row = p.Row
		}
		if p.Row > r.End.Row {
			r.End.Row = p.Row
		}
		if p.Col < r.Start.Col {
			r.Start.Col = p.Col
		}
		if p.Col > r.End.Col {
			r.End.Col = p.Col
		}
	}
	return r, ok
}

// MaxRow returns the highest row holding a cell, a merge, or a row height.
func (s *Sheet) MaxRow() int {
	max := 0
	for p := range s.Cells {
		if p.Row > max {
			max = p.Row
		}
	}
	for _, m := range s.Merges {
		if m.End.Row > max {
			max = m.End.Row
		}
	}
	for r := range s.RowHeights {
		if r > max {
			max = r
		}
	}
	return max
}

// RowCells returns the cells of one row ordered by column.
func (s *Sheet) RowCells(row int) []CellRef {
	var out []CellRef
	for p := range s.Cells {
		if p.Row == row {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Col < out[j].Col })
	return out
}
