// Package xlsfixture builds small BIFF8 workbooks inside OLE2 compound
// documents, for tests that need legacy input without checked-in binaries.
package xlsfixture

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"unicode/utf16"
)

// Record identifiers written by Build.
const (
	recEOF         = 0x000A
	recFont        = 0x0031
	recColInfo     = 0x007D
	recBoundSheet  = 0x0085
	recPalette     = 0x0092
	recXF          = 0x00E0
	recMergedCells = 0x00E5
	recSST         = 0x00FC
	recLabelSST    = 0x00FD
	recNumber      = 0x0203
	recRow         = 0x0208
	recBOF         = 0x0809

	biff8Version = 0x0600
	bofWorkbook  = 0x0005
	bofWorksheet = 0x0010
)

// Cell formats available to Build.
const (
	// XFDefault is the plain cell format.
	XFDefault = 0
	// XFHighlight is bold with a solid fill of palette index 8, the first
	// PALETTE entry, and a thin left border.
	XFHighlight = 1
)

// Stream assembles a BIFF8 record stream.
type Stream struct {
	buf bytes.Buffer
}

// Record appends one record and returns its offset.
func (s *Stream) Record(id uint16, data []byte) int {
	off := s.buf.Len()
	var head [4]byte
	binary.LittleEndian.PutUint16(head[0:], id)
	binary.LittleEndian.PutUint16(head[2:], uint16(len(data)))
	s.buf.Write(head[:])
	s.buf.Write(data)
	return off
}

// Len returns the stream length.
func (s *Stream) Len() int { return s.buf.Len() }

// Bytes returns the stream contents.
func (s *Stream) Bytes() []byte { return s.buf.Bytes() }

// LE16 encodes values as little-endian 16-bit integers.
func LE16(v ...int) []byte {
	out := make([]byte, 2*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(x))
	}
	return out
}

// LE32 encodes a little-endian 32-bit integer.
func LE32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

// Cat concatenates byte slices.
func Cat(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// XLString encodes an XLUnicodeString in compressed form.
func XLString(s string) []byte {
	return Cat(LE16(len(s)), []byte{0}, []byte(s))
}

// WideString encodes an XLUnicodeString in UTF-16 form.
func WideString(s string) []byte {
	units := utf16.Encode([]rune(s))
	ints := make([]int, len(units))
	for i, u := range units {
		ints[i] = int(u)
	}
	return Cat(LE16(len(units)), []byte{1}, LE16(ints...))
}

// BOF returns a BIFF8 BOF record body of the given substream kind.
func BOF(kind int) []byte {
	return Cat(LE16(biff8Version, kind), make([]byte, 12))
}

// Font returns a FONT record body.
func Font(weight int, name string) []byte {
	return Cat(LE16(220, 0, 0x7FFF, weight, 0), []byte{0, 0, 0, 0}, []byte{byte(len(name)), 0}, []byte(name))
}

// XF returns an XF record body.
func XF(font int, align byte, lines, fill uint32, fore int) []byte {
	return Cat(LE16(font, 0, 0), []byte{align, 0, 0, 0}, LE32(lines), LE32(fill), LE16(fore))
}

// Number returns a NUMBER record body. row and col are 0-based.
func Number(row, col, xf int, v float64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return Cat(LE16(row, col, xf), b)
}

// Cell is one cell of a fixture sheet. Row and Col are 1-based. A cell with
// Numeric set is written as a NUMBER record, otherwise Text goes through the
// shared string table.
type Cell struct {
	Row, Col int
	Text     string
	Number   float64
	Numeric  bool
	XF       int
}

// Merge is a merged range, 1-based and inclusive.
type Merge struct {
	FirstRow, LastRow, FirstCol, LastCol int
}

// Sheet is one fixture worksheet.
type Sheet struct {
	Name  string
	Cells []Cell
	// RowHeights maps 1-based rows to heights in points.
	RowHeights map[int]float64
	// ColWidths maps 1-based columns to widths in characters.
	ColWidths map[int]float64
	Merges    []Merge
}

// Workbook describes a fixture workbook.
type Workbook struct {
	// Palette replaces the colors starting at index 8, as "RRGGBB".
	Palette []string
	Sheets  []Sheet
}

// Build returns the workbook as an OLE2 compound document holding a
// Workbook stream.
func (wb Workbook) Build() ([]byte, error) {
	strs, index := wb.sharedStrings()

	s := &Stream{}
	s.Record(recBOF, BOF(bofWorkbook))
	s.Record(recFont, Font(400, "Arial"))
	s.Record(recFont, Font(700, "Arial"))
	s.Record(recXF, XF(0, 0x20, 0, 0, 64))
	s.Record(recXF, XF(1, 0x20, 1|8<<16, 1<<26, 8))
	if len(wb.Palette) > 0 {
		body := LE16(len(wb.Palette))
		for _, rgb := range wb.Palette {
			var r, g, b byte
			if _, err := fmt.Sscanf(rgb, "%02X%02X%02X", &r, &g, &b); err != nil {
				return nil, fmt.Errorf("palette color %q: %w", rgb, err)
			}
			body = Cat(body, []byte{r, g, b, 0})
		}
		s.Record(recPalette, body)
	}
	sst := Cat(LE32(uint32(len(strs))), LE32(uint32(len(strs))))
	for _, str := range strs {
		sst = Cat(sst, WideString(str))
	}
	s.Record(recSST, sst)

	bounds := make([]int, len(wb.Sheets))
	for i, sh := range wb.Sheets {
		bounds[i] = s.Record(recBoundSheet, Cat(LE32(0), []byte{0, 0}, []byte{byte(len(sh.Name)), 0}, []byte(sh.Name)))
	}
	s.Record(recEOF, nil)

	for i, sh := range wb.Sheets {
		binary.LittleEndian.PutUint32(s.buf.Bytes()[bounds[i]+4:], uint32(s.Len()))
		s.Record(recBOF, BOF(bofWorksheet))
		for _, col := range sortedKeys(sh.ColWidths) {
			s.Record(recColInfo, LE16(col-1, col-1, int(sh.ColWidths[col]*256), 0, 0, 0))
		}
		for _, row := range sortedKeys(sh.RowHeights) {
			s.Record(recRow, Cat(LE16(row-1, 0, 0, int(sh.RowHeights[row]*20), 0, 0), LE16(0x40, 0x0F)))
		}
		for _, c := range sh.Cells {
			if c.Numeric {
				s.Record(recNumber, Number(c.Row-1, c.Col-1, c.XF, c.Number))
				continue
			}
			s.Record(recLabelSST, Cat(LE16(c.Row-1, c.Col-1, c.XF), LE32(uint32(index[c.Text]))))
		}
		if len(sh.Merges) > 0 {
			body := LE16(len(sh.Merges))
			for _, m := range sh.Merges {
				body = Cat(body, LE16(m.FirstRow-1, m.LastRow-1, m.FirstCol-1, m.LastCol-1))
			}
			s.Record(recMergedCells, body)
		}
		s.Record(recEOF, nil)
	}
	return Compound("Workbook", s.Bytes())
}

func (wb Workbook) sharedStrings() ([]string, map[string]int) {
	var strs []string
	index := make(map[string]int)
	for _, sh := range wb.Sheets {
		for _, c := range sh.Cells {
			if c.Numeric {
				continue
			}
			if _, ok := index[c.Text]; !ok {
				index[c.Text] = len(strs)
				strs = append(strs, c.Text)
			}
		}
	}
	return strs, index
}

func sortedKeys(m map[int]float64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Compound wraps one stream in a minimal version 3 compound document: the
// FAT in sector 0, the directory in sector 1, the stream from sector 2. The
// stream is padded to the 4096-byte mini stream cutoff so it lives in
// regular sectors.
func Compound(streamName string, stream []byte) ([]byte, error) {
	const sector = 512
	const (
		freeSect   = 0xFFFFFFFF
		endOfChain = 0xFFFFFFFE
		fatSect    = 0xFFFFFFFD
		noStream   = 0xFFFFFFFF
	)
	if len(stream) < 4096 {
		stream = append(stream[:len(stream):len(stream)], make([]byte, 4096-len(stream))...)
	}
	dataSectors := (len(stream) + sector - 1) / sector
	if dataSectors+2 > sector/4 {
		return nil, fmt.Errorf("stream too large for a one-sector FAT: %d bytes", len(stream))
	}

	header := make([]byte, sector)
	copy(header, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1})
	binary.LittleEndian.PutUint16(header[24:], 0x003E)
	binary.LittleEndian.PutUint16(header[26:], 3)
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:], 9)
	binary.LittleEndian.PutUint16(header[32:], 6)
	binary.LittleEndian.PutUint32(header[44:], 1)
	binary.LittleEndian.PutUint32(header[48:], 1)
	binary.LittleEndian.PutUint32(header[56:], 4096)
	binary.LittleEndian.PutUint32(header[60:], endOfChain)
	binary.LittleEndian.PutUint32(header[68:], endOfChain)
	binary.LittleEndian.PutUint32(header[76:], 0)
	for i := 1; i < 109; i++ {
		binary.LittleEndian.PutUint32(header[76+4*i:], freeSect)
	}

	fat := make([]byte, sector)
	for i := 0; i < sector/4; i++ {
		binary.LittleEndian.PutUint32(fat[4*i:], freeSect)
	}
	binary.LittleEndian.PutUint32(fat[0:], fatSect)
	binary.LittleEndian.PutUint32(fat[4:], endOfChain)
	for i := 0; i < dataSectors; i++ {
		next := uint32(i + 3)
		if i == dataSectors-1 {
			next = endOfChain
		}
		binary.LittleEndian.PutUint32(fat[4*(i+2):], next)
	}

	dir := make([]byte, sector)
	entry := func(i int, name string, typ byte, child, start uint32, size int) {
		e := dir[128*i : 128*(i+1)]
		units := utf16.Encode([]rune(name))
		for j, u := range units {
			binary.LittleEndian.PutUint16(e[2*j:], u)
		}
		if name != "" {
			binary.LittleEndian.PutUint16(e[64:], uint16(2*len(units)+2))
		}
		e[66] = typ
		e[67] = 1
		binary.LittleEndian.PutUint32(e[68:], noStream)
		binary.LittleEndian.PutUint32(e[72:], noStream)
		binary.LittleEndian.PutUint32(e[76:], child)
		binary.LittleEndian.PutUint32(e[116:], start)
		binary.LittleEndian.PutUint64(e[120:], uint64(size))
	}
	entry(0, "Root Entry", 5, 1, endOfChain, 0)
	entry(1, streamName, 2, noStream, 2, len(stream))
	entry(2, "", 0, noStream, 0, 0)
	entry(3, "", 0, noStream, 0, 0)

	data := make([]byte, dataSectors*sector)
	copy(data, stream)
	return Cat(header, fat, dir, data), nil
}
