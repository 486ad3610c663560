package parser

import (
	"fmt"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

type xlsFont struct {
	height int
	italic bool
	bold   bool
	color  int
	name   string
}

// xlsXF holds the raw fields of an XF record that the descriptor needs.
type xlsXF struct {
	font       int
	format     int
	horizontal int
	vertical   int
	wrap       bool
	borders    [4]int
	colors     [4]int
	pattern    int
	foreground int
}

type boundSheet struct {
	name   string
	offset int
	kind   int
}

// xlsGlobals is the workbook globals substream.
type xlsGlobals struct {
	sst     []string
	fonts   []xlsFont
	xfs     []xlsXF
	formats map[int]string
	palette []string
	sheets  []boundSheet

	descriptors map[int]models.StyleDescriptor
}

// readGlobals decodes the globals substream at the start of the stream.
func readGlobals(stream []byte) (*xlsGlobals, error) {
	r := newRecordReader(stream, 0)
	rec, ok, err := r.next()
	if err != nil {
		return nil, err
	}
	if !ok || rec.id != recBOF {
		return nil, ErrUnsupportedBIFF
	}
	if u16(rec.data, 0) != biff8Version {
		return nil, fmt.Errorf("%w: version 0x%04X", ErrUnsupportedBIFF, u16(rec.data, 0))
	}

	g := &xlsGlobals{
		formats:     make(map[int]string),
		descriptors: make(map[int]models.StyleDescriptor),
	}
	for {
		rec, ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok || rec.id == recEOF {
			return g, nil
		}
		switch rec.id {
		case recFilePass:
			return nil, ErrEncrypted
		case recBoundSheet:
			name, _ := readShortString(rec.data, 6)
			g.sheets = append(g.sheets, boundSheet{
				name:   name,
				offset: int(u32(rec.data, 0)),
				kind:   int(byteAt(rec.data, 5)),
			})
		case recFont:
			name, _ := readShortString(rec.data, 14)
			g.fonts = append(g.fonts, xlsFont{
				height: u16(rec.data, 0),
				italic: u16(rec.data, 2)&0x02 != 0,
				color:  u16(rec.data, 4),
				bold:   u16(rec.data, 6) >= 700,
				name:   name,
			})
		case recFormat:
			code, _ := readString(rec.data, 2)
			g.formats[u16(rec.data, 0)] = code
		case recXF:
			g.xfs = append(g.xfs, parseXF(rec.data))
		case recPalette:
			g.palette = parsePalette(rec.data)
		case recSST:
			frags := [][]byte{rec.data}
			for r.peek() == recContinue {
				cont, _, err := r.next()
				if err != nil {
					return nil, err
				}
				frags = append(frags, cont.data)
			}
			sst, err := readSST(frags)
			if err != nil {
				return nil, err
			}
			g.sst = sst
		}
	}
}

func byteAt(b []byte, off int) byte {
	if off >= len(b) {
		return 0
	}
	return b[off]
}

func parseXF(b []byte) xlsXF {
	align := byteAt(b, 6)
	lines := u32(b, 10)
	fill := u32(b, 14)
	xf := xlsXF{
		font:       u16(b, 0),
		format:     u16(b, 2),
		horizontal: int(align & 0x07),
		wrap:       align&0x08 != 0,
		vertical:   int(align>>4) & 0x07,
		pattern:    int(fill>>26) & 0x3F,
		foreground: u16(b, 18) & 0x7F,
	}
	xf.borders[models.SideLeft] = int(lines & 0x0F)
	xf.borders[models.SideRight] = int(lines>>4) & 0x0F
	xf.borders[models.SideTop] = int(lines>>8) & 0x0F
	xf.borders[models.SideBottom] = int(lines>>12) & 0x0F
	xf.colors[models.SideLeft] = int(lines>>16) & 0x7F
	xf.colors[models.SideRight] = int(lines>>23) & 0x7F
	xf.colors[models.SideTop] = int(fill) & 0x7F
	xf.colors[models.SideBottom] = int(fill>>7) & 0x7F
	return xf
}

func parsePalette(b []byte) []string {
	n := u16(b, 0)
	out := make([]string, 0, n)
	for i := 0; i < n && 2+4*i+3 <= len(b); i++ {
		off := 2 + 4*i
		out = append(out, fmt.Sprintf("%02X%02X%02X", b[off], b[off+1], b[off+2]))
	}
	return out
}

// font returns the font referenced by an XF. Index 4 is never written, so
// later indexes are shifted by one.
func (g *xlsGlobals) font(index int) (xlsFont, bool) {
	switch {
	case index == 4:
		return xlsFont{}, false
	case index > 4:
		index--
	}
	if index < 0 || index >= len(g.fonts) {
		return xlsFont{}, false
	}
	return g.fonts[index], true
}

// descriptor builds the style descriptor for an XF index.
func (g *xlsGlobals) descriptor(ixfe int) models.StyleDescriptor {
	if d, ok := g.descriptors[ixfe]; ok {
		return d
	}
	var d models.StyleDescriptor
	if ixfe >= 0 && ixfe < len(g.xfs) {
		xf := g.xfs[ixfe]
		if f, ok := g.font(xf.font); ok {
			d.Bold = ptr(f.bold)
			d.Italic = ptr(f.italic)
		}
		d.FillPattern = ptr(xf.pattern)
		d.FillColor = models.ColorRef{Index: ptr(xf.foreground)}
		for side := range d.Borders {
			d.Borders[side] = models.BorderDescriptor{
				Style: ptr(xf.borders[side]),
				Color: models.ColorRef{Index: ptr(xf.colors[side])},
			}
		}
		d.Horizontal = ptr(xf.horizontal)
		d.Vertical = ptr(xf.vertical)
		d.Wrap = ptr(xf.wrap)
		d.NumFmtID = ptr(xf.format)
		if xf.format > maxBuiltinFormat {
			d.NumFmtCode = g.formats[xf.format]
		}
	}
	g.descriptors[ixfe] = d
	return d
}

// maxBuiltinFormat is the highest number format index with a fixed meaning.
const maxBuiltinFormat = 49

func ptr[T any](v T) *T {
	return &v
}
