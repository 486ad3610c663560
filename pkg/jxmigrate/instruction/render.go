package instruction

import (
	"fmt"
	"strings"
)

// Annotation returns the comment text of a directive in the annotation form.
// lastCell is the resolved bottom-right of the governed region; it is ignored
// by kinds that carry their own.
func Annotation(d Directive, lastCell string) string {
	var b strings.Builder
	switch d := d.(type) {
	case ForEach:
		fmt.Fprintf(&b, `jx:each(items="%s" var="%s" lastCell="%s"`, d.Items, d.Var, lastCell)
		writeParams(&b, d.Options)
	case If:
		fmt.Fprintf(&b, `jx:if(condition="%s" lastCell="%s"`, d.Test, lastCell)
		writeParams(&b, d.Options)
	case Area:
		if d.LastCell != "" && lastCell == "" {
			lastCell = d.LastCell
		}
		fmt.Fprintf(&b, `jx:area(lastCell="%s"`, lastCell)
	case MultiSheet:
		fmt.Fprintf(&b, `jx:multiSheet(data="%s"`, d.Data)
		writeParams(&b, d.Options)
	case Out:
		return Expression(d)
	default:
		return ""
	}
	b.WriteByte(')')
	return b.String()
}

// Expression returns the inline form of an out directive.
func Expression(o Out) string {
	return "${" + strings.TrimSpace(o.Select) + "}"
}

func writeParams(b *strings.Builder, params Params) {
	for _, p := range params {
		fmt.Fprintf(b, ` %s="%s"`, p.Name, p.Value)
	}
}
