package region

import (
	"strings"
	"testing"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/instruction"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

func TestRowMap(t *testing.T) {
	m := NewRowMap([]int{5, 3, 3})
	tests := []struct {
		old, mapped, end int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 2},
		{4, 3, 3},
		{5, 4, 3},
		{6, 4, 4},
		{10, 8, 8},
	}
	for _, tt := range tests {
		if got := m.Map(tt.old); got != tt.mapped {
			t.Errorf("Map(%d) = %d, expected %d", tt.old, got, tt.mapped)
		}
		if got := m.MapEnd(tt.old); got != tt.end {
			t.Errorf("MapEnd(%d) = %d, expected %d", tt.old, got, tt.end)
		}
	}
	if m.Len() != 2 || !m.Deleted(3) || m.Deleted(4) {
		t.Errorf("unexpected deleted set %v", m.Rows())
	}
}

func TestMapRange(t *testing.T) {
	m := NewRowMap([]int{3, 4})
	if _, ok := m.MapRange(models.Range{Start: models.CellRef{Row: 3, Col: 1}, End: models.CellRef{Row: 4, Col: 2}}); ok {
		t.Error("range made only of deleted rows must vanish")
	}
	r, ok := m.MapRange(models.Range{Start: models.CellRef{Row: 2, Col: 1}, End: models.CellRef{Row: 6, Col: 3}})
	if !ok || r.String() != "A2:C4" {
		t.Errorf("MapRange = %v, %v, expected A2:C4", r, ok)
	}
}

func TestRemapFormula(t *testing.T) {
	m := NewRowMap([]int{3, 5})
	tests := []struct {
		formula  string
		expected string
	}{
		{"SUM(C4:C6)", "SUM(C3:C4)"},
		{"$B$6*2", "$B$4*2"},
		{"Sheet1!A6+Other!A6", "Sheet1!A4+Other!A6"},
		{"SUM(A:A)", "SUM(A:A)"},
		{"A1+A2", "A1+A2"},
	}
	for _, tt := range tests {
		if got := RemapFormula(tt.formula, "Sheet1", m); got != tt.expected {
			t.Errorf("RemapFormula(%q) = %q, expected %q", tt.formula, got, tt.expected)
		}
	}
}

func TestRemapForeignReferences(t *testing.T) {
	maps := map[string]*RowMap{
		"Orders":  NewRowMap([]int{3, 5}),
		"My List": NewRowMap([]int{1}),
	}
	tests := []struct {
		formula  string
		expected string
	}{
		{"Orders!A6", "Orders!A4"},
		{"SUM(orders!C4:C5)", "SUM(orders!C3:C3)"},
		{"'My List'!B2+A6", "'My List'!B1+A6"},
		{"Summary!A6", "Summary!A6"},
		{"Totals!A6*2", "Totals!A6*2"},
	}
	for _, tt := range tests {
		if got := RemapForeignReferences(tt.formula, "Totals", maps); got != tt.expected {
			t.Errorf("RemapForeignReferences(%q) = %q, expected %q", tt.formula, got, tt.expected)
		}
	}
	if got := RemapForeignReferences("Orders!A6", "Orders", maps); got != "Orders!A6" {
		t.Errorf("references to the home sheet must be left to RemapFormula, got %q", got)
	}
}

func sheetOf(cells map[string]string) *models.Sheet {
	s := models.NewSheet("Sheet1")
	for ref, text := range cells {
		p, err := models.ParseCellRef(ref)
		if err != nil {
			panic(err)
		}
		s.SetString(p.Row, p.Col, text)
	}
	return s
}

func canonical() *models.Sheet {
	return sheetOf(map[string]string{
		"A1": `<area lastCell="E5">`,
		"A2": "Purchase Order List",
		"A3": `<forEach items="datas" var="item">`,
		"A4": "${item.sku}", "B4": "${item.qty}", "C4": "${item.price}",
		"A5": "</forEach>",
		"A6": "Total: ${total}",
	})
}

func TestApplyCanonicalSheet(t *testing.T) {
	s := canonical()
	s.Merges = []models.Range{{Start: models.CellRef{Row: 6, Col: 1}, End: models.CellRef{Row: 6, Col: 3}}}
	s.RowHeights[4] = 20
	s.RowHeights[3] = 5

	out := Apply(s, instruction.Scan(s))

	if out.Converted != 2 || out.Rows.Len() != 2 {
		t.Fatalf("converted %d, deleted %d rows", out.Converted, out.Rows.Len())
	}
	if got := s.MaxRow(); got != 4 {
		t.Errorf("MaxRow() = %d, expected 4", got)
	}
	if c := s.Cell(1, 1); c == nil || !c.IsBlank() || c.Comment != `jx:area(lastCell="E4")` {
		t.Errorf("A1 = %+v", c)
	}
	if got := s.Text(2, 1); got != "Purchase Order List" {
		t.Errorf("A2 = %q", got)
	}
	if got := s.Text(3, 2); got != "${item.qty}" {
		t.Errorf("B3 = %q", got)
	}
	if c := s.Cell(3, 1); c == nil || c.Comment != `jx:each(items="datas" var="item" lastCell="C3")` {
		t.Errorf("A3 = %+v", c)
	}
	if got := s.Text(4, 1); got != "Total: ${total}" {
		t.Errorf("A4 = %q", got)
	}
	if len(s.Merges) != 1 || s.Merges[0].String() != "A4:C4" {
		t.Errorf("merges = %v", s.Merges)
	}
	if s.RowHeights[3] != 20 || len(s.RowHeights) != 1 {
		t.Errorf("row heights = %v", s.RowHeights)
	}
	if out.AreaGenerated {
		t.Error("area must not be generated when present")
	}
}

func TestApplyGeneratesArea(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": "Header",
		"B2": `<jx:forEach items="rows" var="r">`,
		"B3": "${r.a}", "D3": "${r.b}",
		"B4": "</jx:forEach>",
	})
	out := Apply(s, instruction.Scan(s))
	if !out.AreaGenerated {
		t.Fatal("expected a generated area")
	}
	if c := s.Cell(1, 1); c == nil || c.Comment != `jx:area(lastCell="D2")` {
		t.Errorf("A1 = %+v", c)
	}
	if c := s.Cell(2, 2); c == nil || c.Comment != `jx:each(items="rows" var="r" lastCell="D2")` {
		t.Errorf("B2 = %+v", c)
	}
}

func TestApplyOutInPlace(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": `<out select="item.name"/>`,
		"B1": `Qty: jx:out(select="item.qty")`,
	})
	out := Apply(s, instruction.Scan(s))
	if out.Converted != 2 {
		t.Errorf("Converted = %d, expected 2", out.Converted)
	}
	if got := s.Text(1, 1); got != "${item.name}" {
		t.Errorf("A1 = %q", got)
	}
	if got := s.Text(1, 2); got != "Qty: ${item.qty}" {
		t.Errorf("B1 = %q", got)
	}
}

func TestApplyKeepsMalformed(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": `<jx:forEach items="a" var="b">`,
		"A2": "${b}",
		"A3": `<jx:out select="x"/>`,
	})
	res := instruction.Scan(s)
	out := Apply(s, res)
	if out.Converted != 1 || len(res.Malformed) != 1 {
		t.Fatalf("converted %d, malformed %d", out.Converted, len(res.Malformed))
	}
	if out.Rows.Len() != 0 {
		t.Errorf("no row may be deleted for an unclosed block, got %v", out.Rows.Rows())
	}
	if got := s.Text(1, 1); !strings.HasPrefix(got, "<jx:forEach") {
		t.Errorf("A1 = %q, expected the tag to stay", got)
	}
	if got := s.Text(3, 1); got != "${x}" {
		t.Errorf("A3 = %q", got)
	}
}

func TestApplyTagSharingRow(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": `<jx:if test="show">`, "B1": "Label",
		"A2": "${v}",
		"A3": "</jx:if>",
	})
	out := Apply(s, instruction.Scan(s))
	if out.Rows.Len() != 1 || !out.Rows.Deleted(3) {
		t.Fatalf("deleted rows = %v, expected [3]", out.Rows.Rows())
	}
	if got := s.Text(1, 1); got != "" {
		t.Errorf("A1 = %q, expected tag stripped", got)
	}
	if got := s.Text(1, 2); got != "Label" {
		t.Errorf("B1 = %q", got)
	}
	if c := s.Cell(2, 1); c == nil || c.Comment != `jx:if(condition="show" lastCell="A2")` {
		t.Errorf("A2 = %+v", c)
	}
}

func TestApplyRegionValidity(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": `<jx:forEach items="groups" var="g">`,
		"B2": "${g.name}",
		"A3": `<jx:forEach items="g.items" var="i">`,
		"C4": "${i.name}", "E4": "${i.qty}",
		"A5": "</jx:forEach>",
		"A6": "</jx:forEach>",
		"A7": "end",
	})
	out := Apply(s, instruction.Scan(s))
	if len(out.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(out.Blocks))
	}
	maxRow := s.MaxRow()
	for _, b := range out.Blocks {
		if b.Region.Start.Row < 1 || b.Region.End.Row > maxRow || b.Region.End.Row < b.Region.Start.Row {
			t.Errorf("region %v outside sheet rows 1..%d", b.Region, maxRow)
		}
		if !b.Region.Contains(b.Anchor) && b.Anchor.Col != b.Instruction.Pos.Col {
			t.Errorf("anchor %v outside region %v", b.Anchor, b.Region)
		}
	}
	outer, inner := out.Blocks[0], out.Blocks[1]
	if outer.Region.String() != "B1:E2" || outer.Anchor.String() != "B1" {
		t.Errorf("outer region %v anchor %v", outer.Region, outer.Anchor)
	}
	if inner.Region.String() != "C2:E2" || inner.Anchor.String() != "C2" {
		t.Errorf("inner region %v anchor %v", inner.Region, inner.Anchor)
	}
	if got := s.Text(3, 1); got != "end" {
		t.Errorf("A3 = %q", got)
	}
}

func TestApplySkipsAreaWhenAnnotated(t *testing.T) {
	s := sheetOf(map[string]string{
		"A1": "Header",
		"B2": `<jx:out select="v"/>`,
	})
	s.Cell(1, 1).Comment = `jx:area(lastCell="B2")`
	out := Apply(s, instruction.Scan(s))
	if out.AreaGenerated {
		t.Error("area generated although one is already annotated")
	}
	if c := s.Cell(1, 1); c.Comment != `jx:area(lastCell="B2")` {
		t.Errorf("A1 comment = %q", c.Comment)
	}
}
