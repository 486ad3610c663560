package style

import (
	"fmt"
	"strconv"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// Warning reports an attribute that could not be translated and was
// replaced by a default. It is never fatal.
type Warning struct {
	Attribute string
	Value     string
	Fallback  string
}

func (w *Warning) Error() string {
	return fmt.Sprintf("style: %s %q not translatable, using %q", w.Attribute, w.Value, w.Fallback)
}

type numFmt = models.NumFmtSpec

// solidPattern is the fill pattern index of a solid fill.
const solidPattern = 1

// Default returns the style applied to cells without any source style.
func Default() models.StyleSpec {
	spec := models.StyleSpec{
		Font: models.FontSpec{
			Name:  DefaultFontName,
			Size:  DefaultFontSize,
			Color: DefaultColor,
		},
		Fill: models.FillSpec{Color: DefaultColor},
		Alignment: models.AlignmentSpec{
			Horizontal: DefaultHorizontal,
			Vertical:   DefaultVertical,
		},
	}
	for i := range spec.Borders {
		spec.Borders[i] = models.BorderSide{Style: DefaultBorder, Color: DefaultColor}
	}
	return spec
}

// Translate converts a possibly partial descriptor into a complete spec.
// It always succeeds; unresolvable attributes fall back to defaults and are
// reported as warnings. A nil palette uses the built-in color table.
func Translate(d models.StyleDescriptor, p *Palette) (models.StyleSpec, []Warning) {
	spec := Default()
	var warns []Warning

	if d.Bold != nil {
		spec.Font.Bold = *d.Bold
	}
	if d.Italic != nil {
		spec.Font.Italic = *d.Italic
	}

	if d.FillPattern != nil && *d.FillPattern == solidPattern {
		spec.Fill.Solid = true
		color, w := resolveColor(d.FillColor, p, "fill color")
		spec.Fill.Color = color
		warns = appendWarning(warns, w)
	}

	for side, b := range d.Borders {
		if b.Style == nil || *b.Style == 0 {
			continue
		}
		name, ok := BorderStyleName(*b.Style)
		if !ok {
			warns = append(warns, Warning{Attribute: "border style", Value: itoa(*b.Style), Fallback: DefaultBorder})
			continue
		}
		color, w := resolveColor(b.Color, p, "border color")
		warns = appendWarning(warns, w)
		spec.Borders[side] = models.BorderSide{Style: name, Color: color}
	}

	if d.Horizontal != nil {
		if name, ok := HorizontalName(*d.Horizontal); ok {
			spec.Alignment.Horizontal = name
		} else {
			warns = append(warns, Warning{Attribute: "horizontal alignment", Value: itoa(*d.Horizontal), Fallback: DefaultHorizontal})
		}
	}
	if d.Vertical != nil {
		if name, ok := VerticalName(*d.Vertical); ok {
			spec.Alignment.Vertical = name
		} else {
			warns = append(warns, Warning{Attribute: "vertical alignment", Value: itoa(*d.Vertical), Fallback: DefaultVertical})
		}
	}
	if d.Wrap != nil {
		spec.Alignment.Wrap = *d.Wrap
	}

	nf, w := translateNumFmt(d.NumFmtID, d.NumFmtCode)
	spec.NumFmt = nf
	warns = appendWarning(warns, w)

	return spec, warns
}

// resolveColor prefers an explicit RGB value and falls back to the palette.
func resolveColor(c models.ColorRef, p *Palette, attr string) (string, *Warning) {
	if c.RGB != "" {
		if v, ok := normalizeRGB(c.RGB); ok {
			return v, nil
		}
		if c.Index == nil {
			return DefaultColor, &Warning{Attribute: attr, Value: c.RGB, Fallback: DefaultColor}
		}
	}
	if c.Index == nil {
		return DefaultColor, nil
	}
	rgb, ok := p.RGB(*c.Index)
	if !ok {
		return DefaultColor, &Warning{Attribute: attr, Value: "index " + itoa(*c.Index), Fallback: DefaultColor}
	}
	return rgb, nil
}

func appendWarning(warns []Warning, w *Warning) []Warning {
	if w == nil {
		return warns
	}
	return append(warns, *w)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
