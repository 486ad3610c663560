package parser

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/internal/xlsfixture"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

var (
	le16       = xlsfixture.LE16
	le32       = xlsfixture.LE32
	cat        = xlsfixture.Cat
	xlString   = xlsfixture.XLString
	wideString = xlsfixture.WideString
	bof        = xlsfixture.BOF
)

// buildStream returns a one-sheet BIFF8 workbook stream.
func buildStream(t *testing.T) []byte {
	t.Helper()
	w := &xlsfixture.Stream{}
	w.Record(recBOF, bof(bofWorkbook))
	w.Record(recFont, xlsfixture.Font(400, "Arial"))
	w.Record(recFont, xlsfixture.Font(700, "Arial"))
	w.Record(recXF, xlsfixture.XF(0, 0x20, 0, 0, 64))
	// bold, centered + wrapped, thin left border, solid red fill
	w.Record(recXF, xlsfixture.XF(1, 0x1A, 1|8<<16, 1<<26, 10))
	w.Record(recPalette, cat(le16(1), []byte{0x12, 0x34, 0x56, 0}))
	w.Record(recSST, cat(le32(2), le32(2), xlString("Name"), wideString("jx:forEach(items=\"rows\" var=\"r\")")))
	sheetPos := w.Record(recBoundSheet, cat(le32(0), []byte{0, 0}, []byte{6, 0}, []byte("Report")))
	w.Record(recEOF, nil)

	sheetStart := w.Len()
	w.Record(recBOF, bof(bofWorksheet))
	w.Record(recColInfo, cat(le16(1, 1, 20*256, 0, 0, 0)))
	w.Record(recRow, cat(le16(1, 0, 2, 30*20, 0, 0), le16(0x40, 0x0F)))
	w.Record(recLabelSST, cat(le16(0, 0, 1), le32(0)))
	w.Record(recLabelSST, cat(le16(1, 0, 0), le32(1)))
	w.Record(recNumber, xlsfixture.Number(2, 0, 0, 2.5))
	w.Record(recRK, cat(le16(2, 1, 0), le32(5<<2|2)))
	w.Record(recBoolErr, cat(le16(2, 2, 0), []byte{1, 0}))
	w.Record(recBoolErr, cat(le16(2, 3, 0), []byte{0x07, 1}))
	w.Record(recFormula, cat(le16(3, 0, 0), []byte{0, 0, 0, 0, 0, 0}, le16(0xFFFF), le16(0), le32(0), le16(0)))
	w.Record(recString, xlString("cached"))
	w.Record(recMulBlank, cat(le16(4, 1, 1, 1, 2)))
	w.Record(recMergedCells, cat(le16(1), le16(5, 5, 0, 2)))
	// nested chart substream is skipped
	w.Record(recBOF, bof(0x0020))
	w.Record(recLabel, cat(le16(9, 9, 0), xlString("chart")))
	w.Record(recEOF, nil)
	w.Record(recObj, cat(le16(subrecCommonData, 18, objTypeComment, 7), make([]byte, 14)))
	w.Record(recTxo, cat(le16(0x12, 0, 0, 0, 0), le16(5), le16(16), le32(0)))
	w.Record(recContinue, cat([]byte{0}, []byte("hello")))
	w.Record(recContinue, make([]byte, 16))
	w.Record(recNote, cat(le16(0, 0, 0, 7), xlString("me"), []byte{0}))
	w.Record(recEOF, nil)

	out := w.Bytes()
	binary.LittleEndian.PutUint32(out[sheetPos+4:], uint32(sheetStart))
	return out
}

// buildCFB wraps a workbook stream in a compound document.
func buildCFB(t *testing.T, streamName string, stream []byte) []byte {
	t.Helper()
	data, err := xlsfixture.Compound(streamName, stream)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func TestDecodeRK(t *testing.T) {
	tests := []struct {
		input    uint32
		expected float64
	}{
		{5<<2 | 2, 5},
		{1234<<2 | 3, 12.34},
		{uint32(math.Float64bits(1.5) >> 32), 1.5},
		{uint32(math.Float64bits(150)>>32) | 1, 1.5},
	}
	for _, tt := range tests {
		if got := decodeRK(tt.input); math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("decodeRK(%#x) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestReadSSTAcrossContinue(t *testing.T) {
	first := cat(le32(2), le32(2), le16(5), []byte{0}, []byte("Hel"))
	second := cat([]byte{1}, le16('l', 'o'), xlString("ab"))
	got, err := readSST([][]byte{first, second})
	if err != nil {
		t.Fatalf("readSST failed: %v", err)
	}
	if len(got) != 2 || got[0] != "Hello" || got[1] != "ab" {
		t.Errorf("readSST = %q, expected [Hello ab]", got)
	}
}

func TestReadSSTCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		frags [][]byte
	}{
		{"huge declared count", [][]byte{{0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0x7F}}},
		{"count beyond data", [][]byte{cat(le32(3), le32(3), xlString("ab"), xlString("cd"))}},
		{"truncated string", [][]byte{cat(le32(1), le32(1), le16(9), []byte{0}, []byte("abc"))}},
		{"short header", [][]byte{{1, 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := readSST(tt.frags); !errors.Is(err, ErrCorrupt) {
				t.Errorf("readSST error = %v, expected ErrCorrupt", err)
			}
		})
	}
}

func TestReadStringForms(t *testing.T) {
	s, end := readString(wideString("日本"), 0)
	if s != "日本" || end != 7 {
		t.Errorf("readString(wide) = %q, %d, expected 日本, 7", s, end)
	}
	s, _ = readString(cat(le16(3), []byte{0}, []byte{0xE9, 't', 'e'}), 0)
	if s != "éte" {
		t.Errorf("readString(latin1) = %q, expected éte", s)
	}
}

func TestReadXLS(t *testing.T) {
	wb, err := Read(buildCFB(t, "Workbook", buildStream(t)))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if wb.Format != models.FormatLegacy {
		t.Errorf("Format = %q, expected %q", wb.Format, models.FormatLegacy)
	}
	if len(wb.Palette) != 1 || wb.Palette[0] != "123456" {
		t.Errorf("Palette = %v, expected [123456]", wb.Palette)
	}
	if len(wb.Sheets) != 1 || wb.Sheets[0].Name != "Report" {
		t.Fatalf("Sheets = %v, expected one sheet named Report", wb.Sheets)
	}
	s := wb.Sheets[0]

	if got := s.Text(1, 1); got != "Name" {
		t.Errorf("A1 = %q, expected Name", got)
	}
	if got := s.Text(2, 1); got != `jx:forEach(items="rows" var="r")` {
		t.Errorf("A2 = %q", got)
	}
	if c := s.Cell(3, 1); c == nil || c.Kind != models.KindNumber || c.Number != 2.5 {
		t.Errorf("A3 = %+v, expected number 2.5", c)
	}
	if c := s.Cell(3, 2); c == nil || c.Number != 5 {
		t.Errorf("B3 = %+v, expected number 5", c)
	}
	if c := s.Cell(3, 3); c == nil || c.Kind != models.KindBool || !c.Bool {
		t.Errorf("C3 = %+v, expected true", c)
	}
	if c := s.Cell(3, 4); c == nil || c.Kind != models.KindError || c.Text != "#DIV/0!" {
		t.Errorf("D3 = %+v, expected #DIV/0!", c)
	}
	if got := s.Text(4, 1); got != "cached" {
		t.Errorf("A4 = %q, expected cached", got)
	}
	if c := s.Cell(5, 3); c == nil || c.Kind != models.KindEmpty {
		t.Errorf("C5 = %+v, expected styled blank", c)
	}
	if s.Cell(10, 10) != nil {
		t.Errorf("chart substream cell leaked into sheet")
	}
	if len(s.Merges) != 1 || s.Merges[0].String() != "A6:C6" {
		t.Errorf("Merges = %v, expected [A6:C6]", s.Merges)
	}
	if w := s.ColWidths[2]; w != 20 {
		t.Errorf("ColWidths[2] = %v, expected 20", w)
	}
	if h := s.RowHeights[2]; h != 30 {
		t.Errorf("RowHeights[2] = %v, expected 30", h)
	}
	if c := s.Cell(1, 1); c.Comment != "hello" {
		t.Errorf("A1 comment = %q, expected hello", c.Comment)
	}

	d := s.Cell(1, 1).RawStyle
	if d.Bold == nil || !*d.Bold {
		t.Errorf("A1 bold = %v, expected true", d.Bold)
	}
	if d.FillPattern == nil || *d.FillPattern != 1 || *d.FillColor.Index != 10 {
		t.Errorf("A1 fill = %v/%v, expected solid index 10", d.FillPattern, d.FillColor.Index)
	}
	if b := d.Borders[models.SideLeft]; b.Style == nil || *b.Style != 1 || *b.Color.Index != 8 {
		t.Errorf("A1 left border = %+v, expected thin index 8", b)
	}
	if *d.Horizontal != 2 || *d.Vertical != 1 || !*d.Wrap {
		t.Errorf("A1 alignment = %d/%d/%v, expected 2/1/true", *d.Horizontal, *d.Vertical, *d.Wrap)
	}
}

func TestReadXLSErrors(t *testing.T) {
	old := &xlsfixture.Stream{}
	old.Record(recBOF, cat(le16(0x0500, bofWorkbook), make([]byte, 4)))
	old.Record(recEOF, nil)

	locked := &xlsfixture.Stream{}
	locked.Record(recBOF, bof(bofWorkbook))
	locked.Record(recFilePass, le16(1))
	locked.Record(recEOF, nil)

	tests := []struct {
		name     string
		data     []byte
		expected error
	}{
		{"biff5", buildCFB(t, "Workbook", old.Bytes()), ErrUnsupportedBIFF},
		{"filepass", buildCFB(t, "Workbook", locked.Bytes()), ErrEncrypted},
		{"agile", buildCFB(t, "EncryptedPackage", make([]byte, 16)), ErrEncrypted},
		{"no stream", buildCFB(t, "Other", make([]byte, 16)), ErrNoWorkbookStream},
	}
	for _, tt := range tests {
		_, err := ReadXLS(tt.data)
		if !errors.Is(err, tt.expected) {
			t.Errorf("ReadXLS(%s) error = %v, expected %v", tt.name, err, tt.expected)
		}
	}
}
