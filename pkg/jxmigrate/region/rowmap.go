// Package region resolves the area governed by block directives, removes
// tag rows and re-indexes every row-dependent structure of a sheet.
package region

import (
	"sort"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// RowMap is the old-row to new-row function of a sheet after deletions.
// It is built once, after every deleted row is known.
type RowMap struct {
	deleted []int
	set     map[int]bool
}

// NewRowMap builds the map for the given deleted rows.
func NewRowMap(deleted []int) *RowMap {
	m := &RowMap{set: make(map[int]bool, len(deleted))}
	for _, r := range deleted {
		if r < 1 || m.set[r] {
			continue
		}
		m.set[r] = true
		m.deleted = append(m.deleted, r)
	}
	sort.Ints(m.deleted)
	return m
}

// Deleted reports whether row is removed.
func (m *RowMap) Deleted(row int) bool {
	return m.set[row]
}

// Len returns the number of deleted rows.
func (m *RowMap) Len() int {
	return len(m.deleted)
}

// Rows returns the deleted rows in ascending order.
func (m *RowMap) Rows() []int {
	return append([]int(nil), m.deleted...)
}

// Map returns old minus the number of deleted rows above it. A deleted row
// maps to the new index of the next surviving row.
func (m *RowMap) Map(old int) int {
	return old - sort.SearchInts(m.deleted, old)
}

// MapEnd maps the bottom edge of a range: the new index of the last
// surviving row at or above old.
func (m *RowMap) MapEnd(old int) int {
	return m.Map(old+1) - 1
}

// MapRef maps a single cell position.
func (m *RowMap) MapRef(p models.CellRef) models.CellRef {
	return models.CellRef{Row: m.Map(p.Row), Col: p.Col}
}

// MapRange maps a range. ok is false when every row of the range is deleted.
func (m *RowMap) MapRange(r models.Range) (models.Range, bool) {
	start, end := m.Map(r.Start.Row), m.MapEnd(r.End.Row)
	if end < start {
		return models.Range{}, false
	}
	return models.Range{
		Start: models.CellRef{Row: start, Col: r.Start.Col},
		End:   models.CellRef{Row: end, Col: r.End.Col},
	}, true
}
