package models

// Border side indexes used by StyleDescriptor.Borders and StyleSpec.Borders.
const (
	SideLeft = iota
	SideTop
	SideRight
	SideBottom
)

// ColorRef points at a color either through a palette index or an RGB value.
type ColorRef struct {
	// Index is the legacy palette index, if any.
	Index *int `json:"index,omitempty"`
	// RGB is a hex color ("FF0000", "#FF0000" or ARGB "FFFF0000").
	RGB string `json:"rgb,omitempty"`
}

// IsSet reports whether the reference carries any color information.
func (c ColorRef) IsSet() bool {
	return c.Index != nil || c.RGB != ""
}

// BorderDescriptor is one possibly partial border side.
type BorderDescriptor struct {
	// Style is the line style index (0 none through 13 slantDashDot).
	Style *int `json:"style,omitempty"`
	// Color is the line color.
	Color ColorRef `json:"color"`
}

// StyleDescriptor is a per-cell style as read from the source. Nil fields
// mean the attribute was absent or unreadable.
type StyleDescriptor struct {
	Bold   *bool `json:"bold,omitempty"`
	Italic *bool `json:"italic,omitempty"`
	// FillPattern is the fill pattern index; 1 is solid.
	FillPattern *int `json:"fill_pattern,omitempty"`
	// FillColor is the pattern foreground color.
	FillColor ColorRef `json:"fill_color"`
	// Borders holds left, top, right and bottom sides.
	Borders [4]BorderDescriptor `json:"borders"`
	// Horizontal is the horizontal alignment code (0 general through 7 distributed).
	Horizontal *int `json:"horizontal,omitempty"`
	// Vertical is the vertical alignment code (0 top through 4 distributed).
	Vertical *int  `json:"vertical,omitempty"`
	Wrap     *bool `json:"wrap,omitempty"`
	// NumFmtID is the number format index.
	NumFmtID *int `json:"num_fmt_id,omitempty"`
	// NumFmtCode is the custom number format code, if any.
	NumFmtCode string `json:"num_fmt_code,omitempty"`
}

// FontSpec is the translated font.
type FontSpec struct {
	Name   string  `json:"name"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold"`
	Italic bool    `json:"italic"`
	Color  string  `json:"color"`
}

// FillSpec is the translated fill. Only solid fills are emitted.
type FillSpec struct {
	Solid bool   `json:"solid"`
	Color string `json:"color"`
}

// BorderSide is one translated border side.
type BorderSide struct {
	// Style is the line style name ("none", "thin", ...).
	Style string `json:"style"`
	Color string `json:"color"`
}

// AlignmentSpec is the translated alignment.
type AlignmentSpec struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
	Wrap       bool   `json:"wrap"`
}

// NumFmtSpec is the translated number format. Code wins over ID when set.
type NumFmtSpec struct {
	ID   int    `json:"id"`
	Code string `json:"code,omitempty"`
}

// StyleSpec is a fully populated target style. It is comparable so the writer
// can cache registered styles by value.
type StyleSpec struct {
	Font      FontSpec      `json:"font"`
	Fill      FillSpec      `json:"fill"`
	Borders   [4]BorderSide `json:"borders"`
	Alignment AlignmentSpec `json:"alignment"`
	NumFmt    NumFmtSpec    `json:"num_fmt"`
}

// IsZero reports whether the style has not been populated yet.
func (s StyleSpec) IsZero() bool {
	return s.Font.Name == ""
}
