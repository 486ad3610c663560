package parser

import (
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

var biffErrors = map[byte]string{
	0x00: "#NULL!",
	0x07: "#DIV/0!",
	0x0F: "#VALUE!",
	0x17: "#REF!",
	0x1D: "#NAME?",
	0x24: "#NUM!",
	0x2A: "#N/A",
}

type note struct {
	pos    models.CellRef
	object int
}

// sheetReader decodes one worksheet substream into a models.Sheet.
type sheetReader struct {
	g     *xlsGlobals
	sheet *models.Sheet
	notes []note
	texts map[int]string
}

func readSheet(stream []byte, g *xlsGlobals, bs boundSheet) (*models.Sheet, error) {
	sr := &sheetReader{
		g:     g,
		sheet: models.NewSheet(bs.name),
		texts: make(map[int]string),
	}
	r := newRecordReader(stream, bs.offset)
	rec, ok, err := r.next()
	if err != nil {
		return nil, err
	}
	if !ok || rec.id != recBOF {
		return nil, ErrCorrupt
	}

	depth := 1
	lastObject := -1
	for depth > 0 {
		rec, ok, err := r.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch rec.id {
		case recBOF:
			depth++
			continue
		case recEOF:
			depth--
			continue
		}
		if depth > 1 {
			// embedded chart substream
			continue
		}

		switch rec.id {
		case recLabelSST:
			idx := int(u32(rec.data, 6))
			text := ""
			if idx < len(g.sst) {
				text = g.sst[idx]
			}
			sr.text(rec.data, text)
		case recLabel, recRString:
			text, _ := readString(rec.data, 6)
			sr.text(rec.data, text)
		case recNumber:
			sr.number(u16(rec.data, 0), u16(rec.data, 2), u16(rec.data, 4), f64(rec.data, 6))
		case recRK:
			sr.number(u16(rec.data, 0), u16(rec.data, 2), u16(rec.data, 4), decodeRK(u32(rec.data, 6)))
		case recMulRK:
			row, first := u16(rec.data, 0), u16(rec.data, 2)
			n := (len(rec.data) - 6) / 6
			for i := 0; i < n; i++ {
				off := 4 + 6*i
				sr.number(row, first+i, u16(rec.data, off), decodeRK(u32(rec.data, off+2)))
			}
		case recBlank:
			sr.cell(u16(rec.data, 0), u16(rec.data, 2), u16(rec.data, 4))
		case recMulBlank:
			row, first := u16(rec.data, 0), u16(rec.data, 2)
			n := (len(rec.data) - 6) / 2
			for i := 0; i < n; i++ {
				sr.cell(row, first+i, u16(rec.data, 4+2*i))
			}
		case recBoolErr:
			c := sr.cell(u16(rec.data, 0), u16(rec.data, 2), u16(rec.data, 4))
			setBoolErr(c, byteAt(rec.data, 6), byteAt(rec.data, 7) != 0)
		case recFormula:
			c := sr.cell(u16(rec.data, 0), u16(rec.data, 2), u16(rec.data, 4))
			if err := sr.formulaResult(c, rec.data, r); err != nil {
				return nil, err
			}
		case recMergedCells:
			sr.merges(rec.data)
		case recColInfo:
			sr.columns(rec.data)
		case recRow:
			if u16(rec.data, 12)&0x40 != 0 {
				twips := u16(rec.data, 6) & 0x7FFF
				sr.sheet.RowHeights[u16(rec.data, 0)+1] = TwipsToPoints(twips)
			}
		case recObj:
			if u16(rec.data, 0) == subrecCommonData && u16(rec.data, 4) == objTypeComment {
				lastObject = u16(rec.data, 6)
			}
		case recTxo:
			text, err := readTxoText(rec.data, r)
			if err != nil {
				return nil, err
			}
			if lastObject >= 0 {
				sr.texts[lastObject] = text
				lastObject = -1
			}
		case recNote:
			sr.notes = append(sr.notes, note{
				pos:    models.CellRef{Row: u16(rec.data, 0) + 1, Col: u16(rec.data, 2) + 1},
				object: u16(rec.data, 6),
			})
		}
	}

	for _, n := range sr.notes {
		text, ok := sr.texts[n.object]
		if !ok {
			continue
		}
		sr.sheet.Ensure(n.pos).AppendComment(text)
	}
	return sr.sheet, nil
}

// cell creates the cell at the 0-based (row, col) with the style of ixfe.
func (sr *sheetReader) cell(row, col, ixfe int) *models.Cell {
	c := sr.sheet.Ensure(models.CellRef{Row: row + 1, Col: col + 1})
	c.RawStyle = sr.g.descriptor(ixfe)
	return c
}

func (sr *sheetReader) text(data []byte, text string) {
	c := sr.cell(u16(data, 0), u16(data, 2), u16(data, 4))
	c.SetText(text)
}

func (sr *sheetReader) number(row, col, ixfe int, v float64) {
	c := sr.cell(row, col, ixfe)
	c.Kind = models.KindNumber
	c.Number = v
}

func setBoolErr(c *models.Cell, value byte, isError bool) {
	if isError {
		c.Kind = models.KindError
		c.Text = biffErrors[value]
		if c.Text == "" {
			c.Text = "#N/A"
		}
		return
	}
	c.Kind = models.KindBool
	c.Bool = value != 0
}

// formulaResult stores the cached result of a FORMULA record. The parsed
// expression itself is not decoded.
func (sr *sheetReader) formulaResult(c *models.Cell, data []byte, r *recordReader) error {
	if u16(data, 12) != 0xFFFF {
		c.Kind = models.KindNumber
		c.Number = f64(data, 6)
		return nil
	}
	switch byteAt(data, 6) {
	case 0:
		if r.peek() != recString {
			c.SetText("")
			return nil
		}
		rec, _, err := r.next()
		if err != nil {
			return err
		}
		text, _ := readString(rec.data, 0)
		c.SetText(text)
	case 1:
		setBoolErr(c, byteAt(data, 8), false)
	case 2:
		setBoolErr(c, byteAt(data, 8), true)
	}
	return nil
}

func (sr *sheetReader) merges(data []byte) {
	n := u16(data, 0)
	for i := 0; i < n && 2+8*i+8 <= len(data); i++ {
		off := 2 + 8*i
		sr.sheet.Merges = append(sr.sheet.Merges, models.NewRange(
			models.CellRef{Row: u16(data, off) + 1, Col: u16(data, off+4) + 1},
			models.CellRef{Row: u16(data, off+2) + 1, Col: u16(data, off+6) + 1},
		))
	}
}

func (sr *sheetReader) columns(data []byte) {
	first, last := u16(data, 0), u16(data, 2)
	if last > 255 {
		last = 255
	}
	width := WidthToChars(u16(data, 4))
	for col := first; col <= last; col++ {
		sr.sheet.ColWidths[col+1] = width
	}
}

// readTxoText collects the comment text that follows a TXO record.
func readTxoText(data []byte, r *recordReader) (string, error) {
	n := u16(data, 10)
	var frags [][]byte
	for r.peek() == recContinue {
		rec, _, err := r.next()
		if err != nil {
			return "", err
		}
		frags = append(frags, rec.data)
	}
	if n == 0 || len(frags) == 0 {
		return "", nil
	}
	c := &continuedReader{frags: frags}
	flags, ok := c.readByte()
	if !ok {
		return "", nil
	}
	text, _ := c.chars(n, flags&0x01 != 0)
	return text, nil
}
