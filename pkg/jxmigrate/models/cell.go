// Package models defines the in-memory workbook model shared by the readers,
// the migration passes and the writer.
package models

import "strings"

// ValueKind identifies the type of value held by a Cell.
type ValueKind int

const (
	// KindEmpty marks a cell that only carries a style or a comment.
	KindEmpty ValueKind = iota
	// KindString marks a text cell.
	KindString
	// KindNumber marks a numeric cell (dates included).
	KindNumber
	// KindBool marks a boolean cell.
	KindBool
	// KindFormula marks a cell whose value is computed by Formula.
	KindFormula
	// KindError marks an error literal such as #N/A.
	KindError
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindFormula:
		return "formula"
	case KindError:
		return "error"
	default:
		return "empty"
	}
}

// Cell represents a single cell of a sheet.
type Cell struct {
	// Kind is the value type.
	Kind ValueKind `json:"kind"`
	// Text holds the string value, the error literal, or the cached formula result.
	Text string `json:"text,omitempty"`
	// Number holds the numeric value.
	Number float64 `json:"number,omitempty"`
	// Bool holds the boolean value.
	Bool bool `json:"bool,omitempty"`
	// Formula holds the formula without the leading '='.
	Formula string `json:"formula,omitempty"`
	// RawStyle is the style as read from the source container.
	RawStyle StyleDescriptor `json:"-"`
	// Style is the translated style used by the writer.
	Style StyleSpec `json:"-"`
	// Comment is the cell annotation text.
	Comment string `json:"comment,omitempty"`
}

// IsBlank reports whether the cell has no visible content.
func (c *Cell) IsBlank() bool {
	if c == nil {
		return true
	}
	switch c.Kind {
	case KindEmpty:
		return true
	case KindString:
		return strings.TrimSpace(c.Text) == ""
	default:
		return false
	}
}

// SetText replaces the cell value with a string, or empties it when s is blank.
func (c *Cell) SetText(s string) {
	c.Formula = ""
	c.Number = 0
	c.Bool = false
	if s == "" {
		c.Kind = KindEmpty
		c.Text = ""
		return
	}
	c.Kind = KindString
	c.Text = s
}

// AppendComment adds text to the cell annotation, one entry per line.
func (c *Cell) AppendComment(text string) {
	if text == "" {
		return
	}
	if c.Comment == "" {
		c.Comment = text
		return
	}
	c.Comment += "\n" + text
}
