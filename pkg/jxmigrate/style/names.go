package style

// Line style names indexed by the BIFF8 / SpreadsheetML border style code.
var borderStyles = []string{
	"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair",
	"mediumDashed", "dashDot", "mediumDashDot", "dashDotDot",
	"mediumDashDotDot", "slantDashDot",
}

var horizontalAlignments = []string{
	"general", "left", "center", "right", "fill", "justify",
	"centerContinuous", "distributed",
}

var verticalAlignments = []string{
	"top", "center", "bottom", "justify", "distributed",
}

// Defaults applied when an attribute is missing or unknown.
const (
	DefaultFontName   = "Calibri"
	DefaultFontSize   = 11.0
	DefaultBorder     = "none"
	DefaultHorizontal = "general"
	DefaultVertical   = "bottom"
)

// BorderStyleName returns the name of a border style code.
func BorderStyleName(code int) (string, bool) {
	return lookup(borderStyles, code)
}

// BorderStyleCode returns the code of a border style name, or 0 (none).
func BorderStyleCode(name string) int {
	return index(borderStyles, name)
}

// HorizontalName returns the name of a horizontal alignment code.
func HorizontalName(code int) (string, bool) {
	return lookup(horizontalAlignments, code)
}

// HorizontalCode returns the code of a horizontal alignment name.
func HorizontalCode(name string) (int, bool) {
	i := index(horizontalAlignments, name)
	return i, name == "" || horizontalAlignments[i] == name
}

// VerticalName returns the name of a vertical alignment code.
func VerticalName(code int) (string, bool) {
	return lookup(verticalAlignments, code)
}

// VerticalCode returns the code of a vertical alignment name. Empty maps to bottom.
func VerticalCode(name string) (int, bool) {
	if name == "" {
		return 2, true
	}
	for i, v := range verticalAlignments {
		if v == name {
			return i, true
		}
	}
	return 2, false
}

func lookup(table []string, code int) (string, bool) {
	if code < 0 || code >= len(table) {
		return "", false
	}
	return table[code], true
}

func index(table []string, name string) int {
	for i, v := range table {
		if v == name {
			return i
		}
	}
	return 0
}
