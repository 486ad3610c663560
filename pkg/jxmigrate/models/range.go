package models

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef is a 1-based cell position.
type CellRef struct {
	// Row is the row index (1-based).
	Row int `json:"row"`
	// Col is the column index (1-based).
	Col int `json:"col"`
}

// String returns the A1-style name of the position.
func (r CellRef) String() string {
	name, err := excelize.CoordinatesToCellName(r.Col, r.Row)
	if err != nil {
		return fmt.Sprintf("R%dC%d", r.Row, r.Col)
	}
	return name
}

// Less orders positions row-major.
func (r CellRef) Less(o CellRef) bool {
	if r.Row != o.Row {
		return r.Row < o.Row
	}
	return r.Col < o.Col
}

// ParseCellRef parses an A1-style reference, ignoring '$' markers.
func ParseCellRef(s string) (CellRef, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	col, row, err := excelize.CellNameToCoordinates(s)
	if err != nil {
		return CellRef{}, err
	}
	return CellRef{Row: row, Col: col}, nil
}

// Range represents inclusive cell bounds.
type Range struct {
	// Start is the top-left cell.
	Start CellRef `json:"start"`
	// End is the bottom-right cell.
	End CellRef `json:"end"`
}

// NewRange returns the normalised range spanning both corners.
func NewRange(a, b CellRef) Range {
	if b.Row < a.Row {
		a.Row, b.Row = b.Row, a.Row
	}
	if b.Col < a.Col {
		a.Col, b.Col = b.Col, a.Col
	}
	return Range{Start: a, End: b}
}

// String returns the range as "A1:C3".
func (r Range) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// Absolute returns the range as "$A$1:$C$3".
func (r Range) Absolute() string {
	return absolute(r.Start) + ":" + absolute(r.End)
}

// Contains reports whether p lies within the range.
func (r Range) Contains(p CellRef) bool {
	return p.Row >= r.Start.Row && p.Row <= r.End.Row &&
		p.Col >= r.Start.Col && p.Col <= r.End.Col
}

// ParseRange parses "A1:C3" or "$A$1:$C$3". A single cell yields a one-cell range.
func ParseRange(s string) (Range, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) > 2 {
		return Range{}, fmt.Errorf("invalid range %q", s)
	}
	start, err := ParseCellRef(parts[0])
	if err != nil {
		return Range{}, err
	}
	end := start
	if len(parts) == 2 {
		if end, err = ParseCellRef(parts[1]); err != nil {
			return Range{}, err
		}
	}
	return NewRange(start, end), nil
}

func absolute(r CellRef) string {
	col, err := excelize.ColumnNumberToName(r.Col)
	if err != nil {
		return r.String()
	}
	return fmt.Sprintf("$%s$%d", col, r.Row)
}
