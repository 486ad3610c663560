// Package parser reads legacy and modern workbooks into the shared model.
package parser

// TwipsPerPoint is the number of twips (1/20 pt) in a point.
// BIFF stores row heights and font sizes in twips.
const TwipsPerPoint = 20

// WidthUnitsPerChar is the number of COLINFO width units in one character.
// BIFF stores column widths in 1/256 of the zero-digit width.
const WidthUnitsPerChar = 256

// TwipsToPoints converts twips to points.
func TwipsToPoints(twips int) float64 {
	return float64(twips) / TwipsPerPoint
}

// WidthToChars converts a COLINFO width to characters.
func WidthToChars(width int) float64 {
	return float64(width) / WidthUnitsPerChar
}
