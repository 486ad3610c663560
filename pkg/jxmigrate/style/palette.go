// Package style translates source cell styles into complete target styles.
package style

import "strings"

// DefaultColor is returned for every color that cannot be resolved.
const DefaultColor = "000000"

// defaultPalette is the BIFF8 built-in color table. Indices 0-7 duplicate
// 8-15; 64 and 65 are the system foreground and background.
var defaultPalette = map[int]string{
	0: "000000", 1: "FFFFFF", 2: "FF0000", 3: "00FF00",
	4: "0000FF", 5: "FFFF00", 6: "FF00FF", 7: "00FFFF",
	8: "000000", 9: "FFFFFF", 10: "FF0000", 11: "00FF00",
	12: "0000FF", 13: "FFFF00", 14: "FF00FF", 15: "00FFFF",
	16: "800000", 17: "008000", 18: "000080", 19: "808000",
	20: "800080", 21: "008080", 22: "C0C0C0", 23: "808080",
	24: "9999FF", 25: "993366", 26: "FFFFCC", 27: "CCFFFF",
	28: "660066", 29: "FF8080", 30: "0066CC", 31: "CCCCFF",
	32: "000080", 33: "FF00FF", 34: "FFFF00", 35: "00FFFF",
	36: "800080", 37: "800000", 38: "008080", 39: "0000FF",
	40: "00CCFF", 41: "CCFFFF", 42: "CCFFCC", 43: "FFFF99",
	44: "99CCFF", 45: "FF99CC", 46: "CC99FF", 47: "FFCC99",
	48: "3366FF", 49: "33CCCC", 50: "99CC00", 51: "FFCC00",
	52: "FF9900", 53: "FF6600", 54: "666699", 55: "969696",
	56: "003366", 57: "339966", 58: "003300", 59: "333300",
	60: "993300", 61: "993366", 62: "333399", 63: "333333",
	64: "000000", 65: "FFFFFF",
	// 0x7FFF is "automatic" in BORDER and FONT records.
	0x7FFF: "000000",
}

// Palette resolves legacy color indexes. The zero value and nil both use
// the built-in table only.
type Palette struct {
	overrides map[int]string
}

// NewPalette returns a palette whose entries starting at index 8 are
// replaced by custom, as stored in a workbook PALETTE record.
func NewPalette(custom []string) *Palette {
	p := &Palette{overrides: make(map[int]string, len(custom))}
	for i, rgb := range custom {
		if v, ok := normalizeRGB(rgb); ok {
			p.overrides[8+i] = v
		}
	}
	return p
}

// RGB returns the color for index. ok is false when the index is unknown,
// in which case DefaultColor is returned.
func (p *Palette) RGB(index int) (rgb string, ok bool) {
	if p != nil {
		if v, found := p.overrides[index]; found {
			return v, true
		}
	}
	if v, found := defaultPalette[index]; found {
		return v, true
	}
	return DefaultColor, false
}

// Len returns the number of overridden entries.
func (p *Palette) Len() int {
	if p == nil {
		return 0
	}
	return len(p.overrides)
}

// normalizeRGB accepts "RRGGBB", "#RRGGBB" and "AARRGGBB" and returns the
// upper-case six digit form.
func normalizeRGB(s string) (string, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 8 {
		s = s[2:]
	}
	if len(s) != 6 {
		return "", false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "", false
		}
	}
	return strings.ToUpper(s), true
}
