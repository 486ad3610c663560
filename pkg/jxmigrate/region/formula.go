package region

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

var endpointPattern = regexp.MustCompile(`^(\$?[A-Za-z]{0,3})(\$?)(\d*)$`)

// RemapFormula rewrites the row numbers of references to sheet inside
// formula. References qualified with another sheet are left alone.
func RemapFormula(formula, sheet string, m *RowMap) string {
	if m.Len() == 0 {
		return formula
	}
	return remapFormula(formula, func(name string, qualified bool) *RowMap {
		if !qualified || strings.EqualFold(name, sheet) {
			return m
		}
		return nil
	})
}

// RemapForeignReferences rewrites references qualified with another sheet
// of the workbook through that sheet's row map. maps is keyed by sheet
// name. References to home itself are left to RemapFormula.
func RemapForeignReferences(formula, home string, maps map[string]*RowMap) string {
	if len(maps) == 0 {
		return formula
	}
	return remapFormula(formula, func(name string, qualified bool) *RowMap {
		if !qualified || strings.EqualFold(name, home) {
			return nil
		}
		for n, m := range maps {
			if strings.EqualFold(n, name) {
				return m
			}
		}
		return nil
	})
}

// mapLookup returns the row map for a reference's sheet, or nil to keep it.
type mapLookup func(name string, qualified bool) *RowMap

func remapFormula(formula string, lookup mapLookup) string {
	if formula == "" {
		return formula
	}
	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)
	changed := false
	for i, tok := range tokens {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		if v, ok := remapReference(tok.TValue, lookup); ok && v != tok.TValue {
			tokens[i].TValue = v
			changed = true
		}
	}
	if !changed {
		return formula
	}
	return ps.Render()
}

// remapReference handles "A1", "$A$1:B2", "Sheet!A1", "'My Sheet'!A:A" and "3:5".
func remapReference(ref string, lookup mapLookup) (string, bool) {
	prefix, cells := "", ref
	name, qualified := "", false
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		prefix, cells = ref[:i+1], ref[i+1:]
		name, qualified = strings.ReplaceAll(strings.Trim(ref[:i], "'"), "''", "'"), true
	}
	m := lookup(name, qualified)
	if m == nil || m.Len() == 0 {
		return ref, false
	}
	parts := strings.Split(cells, ":")
	if len(parts) > 2 {
		return ref, false
	}
	for i, part := range parts {
		sub := endpointPattern.FindStringSubmatch(part)
		if sub == nil {
			return ref, false
		}
		if sub[3] == "" {
			continue
		}
		row, err := strconv.Atoi(sub[3])
		if err != nil {
			return ref, false
		}
		if len(parts) == 2 && i == 1 {
			row = m.MapEnd(row)
		} else {
			row = m.Map(row)
		}
		if row < 1 {
			row = 1
		}
		parts[i] = sub[1] + sub[2] + strconv.Itoa(row)
	}
	return prefix + strings.Join(parts, ":"), true
}
