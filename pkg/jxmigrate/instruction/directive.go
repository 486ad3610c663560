// Package instruction recognises legacy JXLS directive tags embedded in cell
// text and turns them into typed directives.
package instruction

import (
	"strings"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// Kind is one of the closed set of directive kinds.
type Kind int

const (
	KindForEach Kind = iota
	KindIf
	KindOut
	KindArea
	KindMultiSheet
)

func (k Kind) String() string {
	switch k {
	case KindForEach:
		return "forEach"
	case KindIf:
		return "if"
	case KindOut:
		return "out"
	case KindArea:
		return "area"
	case KindMultiSheet:
		return "multiSheet"
	default:
		return "unknown"
	}
}

// IsBlock reports whether the kind needs a closing tag.
func (k Kind) IsBlock() bool {
	return k == KindForEach || k == KindIf
}

func kindFromName(name string) (Kind, bool) {
	switch strings.ToLower(name) {
	case "foreach":
		return KindForEach, true
	case "if":
		return KindIf, true
	case "out":
		return KindOut, true
	case "area":
		return KindArea, true
	case "multisheet":
		return KindMultiSheet, true
	}
	return 0, false
}

// Param is one name="value" attribute.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered attribute list. Lookups ignore case.
type Params []Param

// Get returns the value of the first attribute called name.
func (p Params) Get(name string) (string, bool) {
	for _, a := range p {
		if strings.EqualFold(a.Name, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Directive is the payload of an instruction. The concrete types are
// ForEach, If, Out, Area and MultiSheet.
type Directive interface {
	Kind() Kind
	directive()
}

// ForEach repeats its region for every element of Items.
type ForEach struct {
	Items string
	Var   string
	// VarStatus is read but has no counterpart in the annotation form.
	VarStatus string
	// Options holds the carried optional attributes in source order.
	Options Params
}

// If shows its region when Test holds.
type If struct {
	Test    string
	Options Params
}

// Out writes the value of Select into its cell.
type Out struct {
	Select string
}

// Area declares the template area of a sheet.
type Area struct {
	// LastCell is empty when the source tag did not name one.
	LastCell string
}

// MultiSheet spreads a collection over several sheets.
type MultiSheet struct {
	Data    string
	Options Params
}

func (ForEach) Kind() Kind    { return KindForEach }
func (If) Kind() Kind         { return KindIf }
func (Out) Kind() Kind        { return KindOut }
func (Area) Kind() Kind       { return KindArea }
func (MultiSheet) Kind() Kind { return KindMultiSheet }

func (ForEach) directive()    {}
func (If) directive()         {}
func (Out) directive()        {}
func (Area) directive()       {}
func (MultiSheet) directive() {}

// Instruction is a directive found in a sheet.
type Instruction struct {
	// Directive is the typed payload.
	Directive Directive
	// Sheet is the owning sheet name.
	Sheet string
	// Pos is the cell holding the opening tag.
	Pos models.CellRef
	// Tag is the opening tag.
	Tag Tag
	// ClosePos and CloseTag locate the closing tag of block kinds.
	ClosePos models.CellRef
	CloseTag *Tag
}

// Kind returns the directive kind.
func (i *Instruction) Kind() Kind {
	return i.Directive.Kind()
}

// IsBlock reports whether the instruction governs a region.
func (i *Instruction) IsBlock() bool {
	return i.Kind().IsBlock()
}

// BodyRows returns the first and last row strictly between the tags.
func (i *Instruction) BodyRows() (first, last int) {
	return i.Pos.Row + 1, i.ClosePos.Row - 1
}

// Carried optional attributes per kind, in the order they are emitted.
var (
	forEachOptions = []string{"direction", "multisheet", "select", "groupBy", "groupOrder"}
	ifOptions      = []string{"direction", "multisheet", "areas"}
)

// build turns a tag into a directive, or returns the reason it cannot.
func build(t Tag) (Directive, error) {
	a := t.Attrs
	switch t.Kind {
	case KindForEach:
		items, ok := a.Get("items")
		if !ok || items == "" {
			return nil, missing("items")
		}
		v, ok := a.Get("var")
		if !ok || v == "" {
			return nil, missing("var")
		}
		status, _ := a.Get("varStatus")
		return ForEach{
			Items:     unwrapExpression(items),
			Var:       unwrapExpression(v),
			VarStatus: status,
			Options:   pick(a, forEachOptions),
		}, nil
	case KindIf:
		test, ok := a.Get("test")
		if !ok {
			test, ok = a.Get("condition")
		}
		if !ok || test == "" {
			return nil, missing("test")
		}
		return If{Test: test, Options: pick(a, ifOptions)}, nil
	case KindOut:
		sel, ok := a.Get("select")
		if !ok || sel == "" {
			return nil, missing("select")
		}
		return Out{Select: sel}, nil
	case KindArea:
		last, _ := a.Get("lastCell")
		if last != "" {
			if _, err := models.ParseCellRef(last); err != nil {
				return nil, ErrInvalidLastCell
			}
		}
		return Area{LastCell: last}, nil
	case KindMultiSheet:
		data, ok := a.Get("data")
		if !ok || data == "" {
			return nil, missing("data")
		}
		var rest Params
		for _, p := range a {
			if !strings.EqualFold(p.Name, "data") {
				rest = append(rest, p)
			}
		}
		return MultiSheet{Data: data, Options: rest}, nil
	}
	return nil, ErrUnknownKind
}

func pick(a Params, names []string) Params {
	var out Params
	for _, n := range names {
		if v, ok := a.Get(n); ok {
			out = append(out, Param{Name: n, Value: v})
		}
	}
	return out
}

// unwrapExpression strips a surrounding ${...}.
func unwrapExpression(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
