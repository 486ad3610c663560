package instruction

import (
	"sort"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// Result is the outcome of scanning one sheet.
type Result struct {
	// Instructions holds the convertible instructions in row-major order.
	Instructions []*Instruction
	// Malformed holds the instructions that cannot be converted.
	Malformed []*MalformedError
	// Tags maps each cell to the tags found in it.
	Tags map[models.CellRef][]Tag
}

// Found returns the number of instructions discovered, valid or not.
func (r *Result) Found() int {
	return len(r.Instructions) + len(r.Malformed)
}

// Of returns the instructions of one kind.
func (r *Result) Of(k Kind) []*Instruction {
	var out []*Instruction
	for _, in := range r.Instructions {
		if in.Kind() == k {
			out = append(out, in)
		}
	}
	return out
}

// Scan walks the sheet's text cells row by row, left to right, and matches
// block tags with one stack per kind: a closing tag pairs with the nearest
// open block of the same kind, whatever blocks of other kinds are open in
// between. Unmatched tags are reported and never stop the scan.
func Scan(sheet *models.Sheet) *Result {
	res := &Result{Tags: make(map[models.CellRef][]Tag)}
	stacks := make(map[Kind][]*Instruction)

	fail := func(pos models.CellRef, t Tag, err error) {
		res.Malformed = append(res.Malformed, &MalformedError{
			Sheet: sheet.Name,
			Cell:  pos,
			Kind:  t.Kind,
			Text:  t.Text,
			Err:   err,
		})
	}

	for _, pos := range sheet.Positions() {
		c := sheet.Cells[pos]
		if c.Kind != models.KindString {
			continue
		}
		tags := Tokenize(c.Text)
		if len(tags) == 0 {
			continue
		}
		res.Tags[pos] = tags

		for _, t := range tags {
			if t.Close {
				if !t.Kind.IsBlock() {
					continue
				}
				stack := stacks[t.Kind]
				if len(stack) == 0 {
					fail(pos, t, ErrStrayClose)
					continue
				}
				in := stack[len(stack)-1]
				stacks[t.Kind] = stack[:len(stack)-1]
				tag := t
				in.ClosePos = pos
				in.CloseTag = &tag
				if in.ClosePos.Row-in.Pos.Row < 2 {
					fail(in.Pos, in.Tag, ErrEmptyBody)
					continue
				}
				res.Instructions = append(res.Instructions, in)
				continue
			}

			d, err := build(t)
			if err != nil {
				fail(pos, t, err)
				continue
			}
			in := &Instruction{Directive: d, Sheet: sheet.Name, Pos: pos, Tag: t}
			if t.Kind.IsBlock() {
				stacks[t.Kind] = append(stacks[t.Kind], in)
				continue
			}
			res.Instructions = append(res.Instructions, in)
		}
	}
	for _, k := range []Kind{KindForEach, KindIf} {
		for _, open := range stacks[k] {
			fail(open.Pos, open.Tag, ErrUnclosed)
		}
	}

	sort.SliceStable(res.Instructions, func(i, j int) bool {
		a, b := res.Instructions[i], res.Instructions[j]
		if a.Pos != b.Pos {
			return a.Pos.Less(b.Pos)
		}
		return a.Tag.Start < b.Tag.Start
	})
	sort.SliceStable(res.Malformed, func(i, j int) bool {
		return res.Malformed[i].Cell.Less(res.Malformed[j].Cell)
	})
	return res
}
