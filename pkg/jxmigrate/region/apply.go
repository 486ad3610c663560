package region

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/instruction"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// AreaOrigin is where generated area annotations are attached.
var AreaOrigin = models.CellRef{Row: 1, Col: 1}

// Block is a resolved block instruction, in output coordinates.
type Block struct {
	Instruction *instruction.Instruction
	// Region spans the body rows and their content columns.
	Region models.Range
	// Anchor is the cell carrying the annotation.
	Anchor models.CellRef
}

// Annotation is a comment attached to an output cell.
type Annotation struct {
	Cell models.CellRef
	Text string
	// Instruction is nil for a generated area.
	Instruction *instruction.Instruction
}

// Outcome summarises the changes applied to one sheet.
type Outcome struct {
	Rows        *RowMap
	Blocks      []Block
	Annotations []Annotation
	// Converted counts the instructions rewritten.
	Converted int
	// AreaGenerated reports an area annotation added at AreaOrigin.
	AreaGenerated bool
	// Changes describes each conversion, one line per instruction.
	Changes []string
}

// Apply converts every instruction of res on sheet. Malformed instructions
// are left as they are. The sheet is modified in place.
//
// Stages: rewrite tag text, decide deletions, build one RowMap, resolve
// regions and anchors against the source rows, then move every
// row-dependent structure through the map and attach annotations.
func Apply(sheet *models.Sheet, res *instruction.Result) *Outcome {
	a := &applier{
		sheet:    sheet,
		res:      res,
		rewrites: make(map[models.CellRef]string),
		rows:     make(map[int][]models.CellRef),
	}
	for _, p := range sheet.Positions() {
		a.rows[p.Row] = append(a.rows[p.Row], p)
	}
	a.rewrite()
	out := &Outcome{Rows: a.deletions()}
	a.rowMap = out.Rows

	var areas []pendingArea
	for _, in := range res.Instructions {
		out.Converted++
		switch d := in.Directive.(type) {
		case instruction.ForEach, instruction.If:
			b := a.resolve(in)
			out.Blocks = append(out.Blocks, b)
		case instruction.Area:
			areas = append(areas, pendingArea{in: in, cell: a.rowMap.MapRef(in.Pos), lastCell: d.LastCell})
		case instruction.MultiSheet:
			out.Annotations = append(out.Annotations, Annotation{
				Cell:        a.rowMap.MapRef(in.Pos),
				Text:        instruction.Annotation(d, ""),
				Instruction: in,
			})
		case instruction.Out:
			out.Changes = append(out.Changes, fmt.Sprintf("out at %s -> %s", in.Pos, instruction.Expression(d)))
		}
	}
	if res.Found() > 0 && len(areas) == 0 && !hasAreaAnnotation(sheet) {
		areas = append(areas, pendingArea{cell: AreaOrigin})
		out.AreaGenerated = true
	}

	a.remap()
	maxRow := sheet.MaxRow()

	for i := range out.Blocks {
		b := &out.Blocks[i]
		clampRange(&b.Region, maxRow)
		text := instruction.Annotation(b.Instruction.Directive, b.Region.End.String())
		out.Annotations = append(out.Annotations, Annotation{Cell: b.Anchor, Text: text, Instruction: b.Instruction})
	}

	extent := a.extent()
	for _, p := range areas {
		last := extent
		if p.lastCell != "" {
			if ref, err := models.ParseCellRef(p.lastCell); err == nil {
				row := a.rowMap.Map(ref.Row)
				if row > maxRow && maxRow > 0 {
					row = maxRow
				}
				last = models.CellRef{Row: row, Col: ref.Col}.String()
			}
		}
		out.Annotations = append(out.Annotations, Annotation{
			Cell:        p.cell,
			Text:        instruction.Annotation(instruction.Area{LastCell: last}, last),
			Instruction: p.in,
		})
	}

	sort.SliceStable(out.Annotations, func(i, j int) bool {
		return annotationOrder(out.Annotations[i]) < annotationOrder(out.Annotations[j])
	})
	for _, an := range out.Annotations {
		sheet.Ensure(an.Cell).AppendComment(an.Text)
		out.Changes = append(out.Changes, fmt.Sprintf("%s at %s", an.Text, an.Cell))
	}
	if n := out.Rows.Len(); n > 0 {
		out.Changes = append(out.Changes, fmt.Sprintf("deleted tag rows %v", out.Rows.Rows()))
	}
	return out
}

// hasAreaAnnotation reports whether a comment already declares an area.
func hasAreaAnnotation(sheet *models.Sheet) bool {
	for _, c := range sheet.Cells {
		if strings.Contains(strings.ToLower(c.Comment), "jx:area(") {
			return true
		}
	}
	return false
}

type pendingArea struct {
	in       *instruction.Instruction
	cell     models.CellRef
	lastCell string
}

type applier struct {
	sheet    *models.Sheet
	res      *instruction.Result
	rewrites map[models.CellRef]string
	rows     map[int][]models.CellRef
	rowMap   *RowMap
}

// rewrite computes the new text of every cell holding a converted tag.
// Block, area and multiSheet tags are removed; out tags become ${...}.
func (a *applier) rewrite() {
	actions := make(map[models.CellRef]map[int]string)
	set := func(p models.CellRef, t instruction.Tag, repl string) {
		if actions[p] == nil {
			actions[p] = make(map[int]string)
		}
		actions[p][t.Start] = repl
	}
	for _, in := range a.res.Instructions {
		switch d := in.Directive.(type) {
		case instruction.Out:
			set(in.Pos, in.Tag, instruction.Expression(d))
		default:
			set(in.Pos, in.Tag, "")
			if in.CloseTag != nil {
				set(in.ClosePos, *in.CloseTag, "")
			}
		}
	}
	for p, acts := range actions {
		text := a.sheet.Text(p.Row, p.Col)
		var b strings.Builder
		pos, removed := 0, false
		for _, t := range a.res.Tags[p] {
			repl, ok := acts[t.Start]
			if !ok {
				continue
			}
			b.WriteString(text[pos:t.Start])
			b.WriteString(repl)
			pos = t.End
			removed = removed || repl == ""
		}
		b.WriteString(text[pos:])
		s := b.String()
		if removed {
			s = strings.TrimSpace(s)
		}
		a.rewrites[p] = s
	}
}

// deletions returns the map for the block tag rows left without content.
func (a *applier) deletions() *RowMap {
	var rows []int
	for _, in := range a.res.Instructions {
		if !in.IsBlock() {
			continue
		}
		for _, r := range []int{in.Pos.Row, in.ClosePos.Row} {
			if a.rowEmpty(r) {
				rows = append(rows, r)
			}
		}
	}
	return NewRowMap(rows)
}

func (a *applier) rowEmpty(row int) bool {
	for _, p := range a.rows[row] {
		if !a.blank(p) || a.sheet.Cells[p].Comment != "" {
			return false
		}
	}
	return true
}

// blank reports whether p has no content once tags are rewritten.
func (a *applier) blank(p models.CellRef) bool {
	if s, ok := a.rewrites[p]; ok {
		return strings.TrimSpace(s) == ""
	}
	return a.sheet.Cells[p].IsBlank()
}

// resolve computes the region and anchor of a block from the source rows.
func (a *applier) resolve(in *instruction.Instruction) Block {
	first, last := in.BodyRows()
	var kept []int
	for r := first; r <= last; r++ {
		if !a.rowMap.Deleted(r) {
			kept = append(kept, r)
		}
	}
	if len(kept) == 0 {
		kept = []int{in.Pos.Row}
	}

	minCol, maxCol := 0, 0
	for _, r := range kept {
		for _, p := range a.rows[r] {
			if a.blank(p) {
				continue
			}
			if minCol == 0 || p.Col < minCol {
				minCol = p.Col
			}
			if p.Col > maxCol {
				maxCol = p.Col
			}
		}
	}
	if minCol == 0 {
		minCol, maxCol = in.Pos.Col, in.Pos.Col
	}

	anchorCol := in.Pos.Col
	for _, p := range a.rows[kept[0]] {
		if !a.blank(p) {
			anchorCol = p.Col
			break
		}
	}
	if anchorCol < minCol {
		minCol = anchorCol
	}
	if anchorCol > maxCol {
		maxCol = anchorCol
	}

	top, bottom := a.rowMap.Map(kept[0]), a.rowMap.Map(kept[len(kept)-1])
	return Block{
		Instruction: in,
		Region: models.Range{
			Start: models.CellRef{Row: top, Col: minCol},
			End:   models.CellRef{Row: bottom, Col: maxCol},
		},
		Anchor: models.CellRef{Row: top, Col: anchorCol},
	}
}

// remap moves cells, merges, row heights, print areas and formulas through
// the row map in one pass.
func (a *applier) remap() {
	s, m := a.sheet, a.rowMap
	cells := make(map[models.CellRef]*models.Cell, len(s.Cells))
	for p, c := range s.Cells {
		if m.Deleted(p.Row) {
			continue
		}
		if text, ok := a.rewrites[p]; ok {
			c.SetText(text)
		}
		if c.Kind == models.KindFormula {
			c.Formula = RemapFormula(c.Formula, s.Name, m)
		}
		cells[m.MapRef(p)] = c
	}
	s.Cells = cells

	var merges []models.Range
	for _, r := range s.Merges {
		nr, ok := m.MapRange(r)
		if !ok || nr.Start == nr.End {
			continue
		}
		merges = append(merges, nr)
	}
	s.Merges = merges

	heights := make(map[int]float64, len(s.RowHeights))
	for r, h := range s.RowHeights {
		if !m.Deleted(r) {
			heights[m.Map(r)] = h
		}
	}
	s.RowHeights = heights

	var areas []models.Range
	for _, r := range s.PrintAreas {
		if nr, ok := m.MapRange(r); ok {
			areas = append(areas, nr)
		}
	}
	s.PrintAreas = areas
}

// extent returns the bottom-right corner of the used range, or A1.
func (a *applier) extent() string {
	b, ok := a.sheet.Bounds()
	if !ok {
		return AreaOrigin.String()
	}
	return b.End.String()
}

func clampRange(r *models.Range, maxRow int) {
	if maxRow < 1 {
		maxRow = 1
	}
	if r.End.Row > maxRow {
		r.End.Row = maxRow
	}
	if r.End.Row < r.Start.Row {
		r.End.Row = r.Start.Row
	}
}

// annotationOrder places area annotations first, then the rest by position.
func annotationOrder(a Annotation) int {
	if a.Instruction == nil || a.Instruction.Kind() == instruction.KindArea {
		return 0
	}
	return 1
}
