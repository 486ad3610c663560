package jxmigrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/internal/xlsfixture"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
)

// legacyScenarioA returns the canonical purchase order template as a
// BIFF8 workbook with a custom palette entry used by the title fill.
func legacyScenarioA(t *testing.T) []byte {
	t.Helper()
	text := func(row, col int, s string) xlsfixture.Cell {
		return xlsfixture.Cell{Row: row, Col: col, Text: s}
	}
	wb := xlsfixture.Workbook{
		Palette: []string{"336699"},
		Sheets: []xlsfixture.Sheet{{
			Name: "Orders",
			Cells: []xlsfixture.Cell{
				text(1, 1, `<jx:area lastCell="E5">`),
				{Row: 2, Col: 1, Text: "Purchase Order List", XF: xlsfixture.XFHighlight},
				text(3, 1, `<jx:forEach items="datas" var="item">`),
				text(4, 1, "${item.sku}"), text(4, 2, "${item.qty}"), text(4, 3, "${item.price}"),
				text(5, 1, "</jx:forEach>"),
				text(6, 1, "Total: ${total}"),
				{Row: 6, Col: 5, Number: 12.5, Numeric: true},
			},
			RowHeights: map[int]float64{4: 28},
			ColWidths:  map[int]float64{2: 18},
			Merges:     []xlsfixture.Merge{{FirstRow: 6, LastRow: 6, FirstCol: 1, LastCol: 3}},
		}},
	}
	data, err := wb.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return data
}

func TestMigrateLegacyScenarioA(t *testing.T) {
	out, rec, err := Migrate(legacyScenarioA(t), Options{})
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	if rec.Format != models.FormatLegacy {
		t.Errorf("Format = %q, expected %q", rec.Format, models.FormatLegacy)
	}
	if rec.Status != models.StatusSuccess || rec.Found != 2 || rec.Converted != 2 || rec.RowsDeleted != 2 {
		t.Errorf("record = %+v", rec)
	}
	if parser.Detect(out) != models.FormatModern {
		t.Fatalf("output is not a modern package")
	}

	s := readBack(t, out)
	if s.Name != "Orders" {
		t.Errorf("sheet name = %q, expected Orders", s.Name)
	}
	if got := s.MaxRow(); got != 4 {
		t.Errorf("MaxRow() = %d, expected 4", got)
	}
	a1 := s.Cell(1, 1)
	if a1 == nil || !a1.IsBlank() || !strings.Contains(a1.Comment, `jx:area(lastCell="E4")`) {
		t.Errorf("A1 = %+v", a1)
	}
	if c := s.Cell(3, 1); c == nil || !strings.Contains(c.Comment, `jx:each(items="datas" var="item" lastCell="C3")`) {
		t.Errorf("A3 = %+v", c)
	}
	if got := s.Text(3, 3); got != "${item.price}" {
		t.Errorf("C3 = %q", got)
	}
	if got := s.Text(4, 1); got != "Total: ${total}" {
		t.Errorf("A4 = %q", got)
	}
	if c := s.Cell(4, 5); c == nil || c.Kind != models.KindNumber || c.Number != 12.5 {
		t.Errorf("E4 = %+v, expected 12.5", c)
	}
	if len(s.Merges) != 1 || s.Merges[0].String() != "A4:C4" {
		t.Errorf("Merges = %v, expected [A4:C4]", s.Merges)
	}
	if h := s.RowHeights[3]; h != 28 {
		t.Errorf("RowHeights[3] = %v, expected 28", h)
	}
	if w := s.ColWidths[2]; w != 18 {
		t.Errorf("ColWidths[2] = %v, expected 18", w)
	}

	title := s.Cell(2, 1)
	if title == nil || title.Text != "Purchase Order List" {
		t.Fatalf("A2 = %+v", title)
	}
	d := title.RawStyle
	if d.Bold == nil || !*d.Bold {
		t.Errorf("A2 lost its bold font")
	}
	if d.FillPattern == nil || *d.FillPattern != 1 || !strings.HasSuffix(strings.ToUpper(d.FillColor.RGB), "336699") {
		t.Errorf("A2 fill = %v %q, expected solid 336699 from the palette", d.FillPattern, d.FillColor.RGB)
	}
}

func TestMigrateFileLegacyNaming(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "orders.xls")
	if err := os.WriteFile(in, legacyScenarioA(t), 0o644); err != nil {
		t.Fatal(err)
	}
	rec, err := MigrateFile(in, "", Options{})
	if err != nil {
		t.Fatalf("MigrateFile failed: %v", err)
	}
	expected := filepath.Join(dir, "orders.xlsx")
	if rec.Output != expected {
		t.Errorf("Output = %q, expected %q", rec.Output, expected)
	}
	for _, w := range rec.Warnings {
		if strings.Contains(w, "is named") {
			t.Errorf("unexpected extension warning %q", w)
		}
	}
	got, err := parser.DetectFile(expected)
	if err != nil {
		t.Fatalf("DetectFile failed: %v", err)
	}
	if got != models.FormatModern {
		t.Errorf("DetectFile(%q) = %q, expected %q", expected, got, models.FormatModern)
	}
	if src, err := parser.DetectFile(in); err != nil || src != models.FormatLegacy {
		t.Errorf("source changed: %q, %v", src, err)
	}
}
