package parser

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// BIFF8 record identifiers.
const (
	recFormula     = 0x0006
	recEOF         = 0x000A
	recNote        = 0x001C
	recFilePass    = 0x002F
	recFont        = 0x0031
	recContinue    = 0x003C
	recObj         = 0x005D
	recColInfo     = 0x007D
	recBoundSheet  = 0x0085
	recPalette     = 0x0092
	recMulRK       = 0x00BD
	recMulBlank    = 0x00BE
	recRString     = 0x00D6
	recXF          = 0x00E0
	recMergedCells = 0x00E5
	recSST         = 0x00FC
	recLabelSST    = 0x00FD
	recTxo         = 0x01B6
	recBlank       = 0x0201
	recNumber      = 0x0203
	recLabel       = 0x0204
	recBoolErr     = 0x0205
	recString      = 0x0207
	recRow         = 0x0208
	recRK          = 0x027E
	recFormat      = 0x041E
	recBOF         = 0x0809
)

// BOF versions and substream types.
const (
	biff8Version     = 0x0600
	bofWorkbook      = 0x0005
	bofWorksheet     = 0x0010
	objTypeComment   = 0x19
	subrecCommonData = 0x15
)

type record struct {
	id     uint16
	data   []byte
	offset int
}

// recordReader walks the records of a workbook stream.
type recordReader struct {
	buf []byte
	pos int
}

func newRecordReader(buf []byte, offset int) *recordReader {
	return &recordReader{buf: buf, pos: offset}
}

// next returns the following record. ok is false at the end of the stream.
func (r *recordReader) next() (rec record, ok bool, err error) {
	if r.pos+4 > len(r.buf) {
		return record{}, false, nil
	}
	id := binary.LittleEndian.Uint16(r.buf[r.pos:])
	size := int(binary.LittleEndian.Uint16(r.buf[r.pos+2:]))
	start := r.pos + 4
	if start+size > len(r.buf) {
		return record{}, false, ErrCorrupt
	}
	rec = record{id: id, data: r.buf[start : start+size], offset: r.pos}
	r.pos = start + size
	return rec, true, nil
}

// peek returns the id of the following record without consuming it.
func (r *recordReader) peek() uint16 {
	if r.pos+4 > len(r.buf) {
		return 0
	}
	return binary.LittleEndian.Uint16(r.buf[r.pos:])
}

func u16(b []byte, off int) int {
	if off+2 > len(b) {
		return 0
	}
	return int(binary.LittleEndian.Uint16(b[off:]))
}

func u32(b []byte, off int) uint32 {
	if off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

func f64(b []byte, off int) float64 {
	if off+8 > len(b) {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
}

// decodeRK decodes the packed RK number format.
func decodeRK(rk uint32) float64 {
	var v float64
	if rk&0x02 != 0 {
		v = float64(int32(rk) >> 2)
	} else {
		v = math.Float64frombits(uint64(rk&0xFFFFFFFC) << 32)
	}
	if rk&0x01 != 0 {
		v /= 100
	}
	return v
}

// decodeChars decodes n characters from b. Compressed strings carry the
// low byte of each UTF-16 unit, which is exactly ISO-8859-1.
func decodeChars(b []byte, n int, high bool) (string, int) {
	if high {
		if 2*n > len(b) {
			n = len(b) / 2
		}
		units := make([]uint16, n)
		for i := range units {
			units[i] = binary.LittleEndian.Uint16(b[2*i:])
		}
		return string(utf16.Decode(units)), 2 * n
	}
	if n > len(b) {
		n = len(b)
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b[:n])
	if err != nil {
		return string(b[:n]), n
	}
	return string(s), n
}

// readString reads an XLUnicodeString (16-bit length) at off and returns
// the string and the offset after it. Rich text runs and phonetic data are
// skipped.
func readString(b []byte, off int) (string, int) {
	if off+3 > len(b) {
		return "", len(b)
	}
	return readStringBody(b, off+2, u16(b, off))
}

// readShortString reads a ShortXLUnicodeString (8-bit length).
func readShortString(b []byte, off int) (string, int) {
	if off+2 > len(b) {
		return "", len(b)
	}
	return readStringBody(b, off+1, int(b[off]))
}

func readStringBody(b []byte, off, n int) (string, int) {
	flags := b[off]
	off++
	runs, ext := 0, 0
	if flags&0x08 != 0 {
		runs = u16(b, off)
		off += 2
	}
	if flags&0x04 != 0 {
		ext = int(u32(b, off))
		off += 4
	}
	if off > len(b) {
		return "", len(b)
	}
	s, used := decodeChars(b[off:], n, flags&0x01 != 0)
	off += used + 4*runs + ext
	return s, off
}

// continuedReader reads across a record and its CONTINUE records. Character
// data that crosses a boundary restarts with a fresh option byte.
type continuedReader struct {
	frags [][]byte
	i     int
	pos   int
}

func (c *continuedReader) advance() bool {
	for c.i < len(c.frags) && c.pos >= len(c.frags[c.i]) {
		c.i++
		c.pos = 0
	}
	return c.i < len(c.frags)
}

func (c *continuedReader) readByte() (byte, bool) {
	if !c.advance() {
		return 0, false
	}
	b := c.frags[c.i][c.pos]
	c.pos++
	return b, true
}

func (c *continuedReader) readU16() (int, bool) {
	lo, ok1 := c.readByte()
	hi, ok2 := c.readByte()
	return int(lo) | int(hi)<<8, ok1 && ok2
}

func (c *continuedReader) readU32() (int, bool) {
	lo, ok1 := c.readU16()
	hi, ok2 := c.readU16()
	return lo | hi<<16, ok1 && ok2
}

func (c *continuedReader) skip(n int) {
	for n > 0 && c.advance() {
		avail := len(c.frags[c.i]) - c.pos
		if avail > n {
			avail = n
		}
		c.pos += avail
		n -= avail
	}
}

// chars reads n characters that may span fragments.
func (c *continuedReader) chars(n int, high bool) (string, bool) {
	var out []rune
	for n > 0 {
		if c.i < len(c.frags) && c.pos >= len(c.frags[c.i]) {
			c.i++
			c.pos = 0
			if c.i >= len(c.frags) || len(c.frags[c.i]) == 0 {
				return string(out), false
			}
			high = c.frags[c.i][0]&0x01 != 0
			c.pos = 1
		} else if c.i >= len(c.frags) {
			return string(out), false
		}
		frag := c.frags[c.i][c.pos:]
		width := 1
		if high {
			width = 2
		}
		take := len(frag) / width
		if take > n {
			take = n
		}
		if take == 0 {
			return string(out), false
		}
		s, used := decodeChars(frag, take, high)
		out = append(out, []rune(s)...)
		c.pos += used
		n -= take
	}
	return string(out), true
}

// readSST decodes the shared string table from an SST record and its
// CONTINUE records. The declared string count is not trusted for sizing:
// every string takes at least three bytes, which bounds the capacity by the
// data actually present. A table that ends before the declared count is
// ErrCorrupt.
func readSST(frags [][]byte) ([]string, error) {
	if len(frags) == 0 || len(frags[0]) < 8 {
		return nil, fmt.Errorf("%w: short SST record", ErrCorrupt)
	}
	unique := int(u32(frags[0], 4))
	size := len(frags[0]) - 8
	for _, f := range frags[1:] {
		size += len(f)
	}
	if unique > size/3 {
		return nil, fmt.Errorf("%w: SST declares %d strings in %d bytes", ErrCorrupt, unique, size)
	}
	c := &continuedReader{frags: frags, pos: 8}
	out := make([]string, 0, unique)
	for len(out) < unique {
		n, ok := c.readU16()
		if !ok {
			return out, fmt.Errorf("%w: SST ends after %d of %d strings", ErrCorrupt, len(out), unique)
		}
		flags, ok := c.readByte()
		if !ok {
			return out, fmt.Errorf("%w: SST ends after %d of %d strings", ErrCorrupt, len(out), unique)
		}
		runs, ext := 0, 0
		if flags&0x08 != 0 {
			runs, _ = c.readU16()
		}
		if flags&0x04 != 0 {
			ext, _ = c.readU32()
		}
		s, ok := c.chars(n, flags&0x01 != 0)
		if !ok {
			return out, fmt.Errorf("%w: SST string %d truncated", ErrCorrupt, len(out))
		}
		out = append(out, s)
		c.skip(4*runs + ext)
	}
	return out, nil
}
