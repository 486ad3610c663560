package writer

import (
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/style"
)

func sampleWorkbook() *models.Workbook {
	bold := style.Default()
	bold.Font.Bold = true
	bold.Fill = models.FillSpec{Solid: true, Color: "FF0000"}
	bold.Borders[models.SideBottom] = models.BorderSide{Style: "thin", Color: "000000"}

	s := models.NewSheet("Data")
	s.SetString(1, 1, "Name")
	s.SetString(1, 2, "${item.name}")
	s.SetCell(2, 1, &models.Cell{Kind: models.KindNumber, Number: 3.25, Style: bold})
	s.SetCell(2, 2, &models.Cell{Kind: models.KindBool, Bool: true, Style: bold})
	s.SetCell(2, 3, &models.Cell{Kind: models.KindFormula, Formula: "SUM(A2:A4)", Style: style.Default()})
	s.SetCell(2, 4, &models.Cell{Kind: models.KindError, Text: "#N/A"})
	s.Cell(1, 1).Comment = `jx:area(lastCell="D2")`
	s.Merges = []models.Range{models.NewRange(models.CellRef{Row: 3, Col: 1}, models.CellRef{Row: 3, Col: 3})}
	s.ColWidths[2] = 30
	s.RowHeights[1] = 24
	s.PrintAreas = []models.Range{models.NewRange(models.CellRef{Row: 1, Col: 1}, models.CellRef{Row: 3, Col: 4})}

	return &models.Workbook{
		Format:     models.FormatLegacy,
		Sheets:     []*models.Sheet{s, models.NewSheet("Empty")},
		Properties: models.DocProperties{Title: "Report"},
	}
}

func TestWriteRoundTrip(t *testing.T) {
	w := New(Options{})
	data, err := w.Write(sampleWorkbook())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n := w.StyleCount(); n != 2 {
		t.Errorf("StyleCount() = %d, expected 2", n)
	}
	if err := VerifySharedStrings(data); err != nil {
		t.Errorf("VerifySharedStrings: %v", err)
	}

	wb, err := parser.Read(data)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(wb.Sheets) != 2 || wb.Sheets[0].Name != "Data" || wb.Sheets[1].Name != "Empty" {
		t.Fatalf("sheets = %v, expected [Data Empty]", wb.Sheets)
	}
	if wb.Properties.Title != "Report" {
		t.Errorf("Title = %q, expected Report", wb.Properties.Title)
	}
	s := wb.Sheets[0]
	if got := s.Text(1, 2); got != "${item.name}" {
		t.Errorf("B1 = %q, expected ${item.name}", got)
	}
	if c := s.Cell(2, 1); c == nil || c.Number != 3.25 {
		t.Errorf("A2 = %+v, expected 3.25", c)
	}
	if c := s.Cell(2, 3); c == nil || c.Formula != "SUM(A2:A4)" {
		t.Errorf("C2 = %+v, expected SUM(A2:A4)", c)
	}
	if c := s.Cell(2, 4); c == nil || c.Kind != models.KindFormula || c.Formula != "#N/A" {
		t.Errorf("D2 = %+v, expected formula #N/A", c)
	}
	if c := s.Cell(1, 1); !strings.Contains(c.Comment, `jx:area(lastCell="D2")`) {
		t.Errorf("A1 comment = %q", c.Comment)
	}
	if d := s.Cell(2, 1).RawStyle; d.Bold == nil || !*d.Bold {
		t.Errorf("A2 bold = %v, expected true", d.Bold)
	}
	if len(s.Merges) != 1 || s.Merges[0].String() != "A3:C3" {
		t.Errorf("Merges = %v, expected [A3:C3]", s.Merges)
	}
	if s.ColWidths[2] != 30 || s.RowHeights[1] != 24 {
		t.Errorf("ColWidths[2] = %v, RowHeights[1] = %v, expected 30 and 24", s.ColWidths[2], s.RowHeights[1])
	}
	if len(s.PrintAreas) != 1 || s.PrintAreas[0].String() != "A1:D3" {
		t.Errorf("PrintAreas = %v, expected [A1:D3]", s.PrintAreas)
	}
}

func TestWriteCommentAuthor(t *testing.T) {
	data, err := Write(sampleWorkbook(), Options{Author: "template owner"})
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	f, err := excelize.OpenReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()
	comments, err := f.GetComments("Data")
	if err != nil {
		t.Fatalf("GetComments failed: %v", err)
	}
	if len(comments) != 1 || comments[0].Author != "template owner" {
		t.Errorf("comments = %+v, expected one by template owner", comments)
	}
}

func TestWriteNoSheets(t *testing.T) {
	if _, err := Write(&models.Workbook{}, Options{}); !errors.Is(err, ErrNoSheets) {
		t.Errorf("Write(empty) error = %v, expected %v", err, ErrNoSheets)
	}
}

func TestFindInlineString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`<worksheet><sheetData><row><c r="A1" t="s"><v>0</v></c></row></sheetData></worksheet>`, ""},
		{`<worksheet><sheetData><row><c r="B2" t="inlineStr"><is><t>x</t></is></c></row></sheetData></worksheet>`, "B2"},
	}
	for _, tt := range tests {
		if got := findInlineString([]byte(tt.input)); got != tt.expected {
			t.Errorf("findInlineString(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
