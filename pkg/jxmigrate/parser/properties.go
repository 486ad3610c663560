package parser

import (
	"io"
	"strings"

	"github.com/richardlehane/msoleps"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// readPropertySet copies the summary and document summary properties that
// have a counterpart in the modern core properties. Unreadable property
// sets are ignored.
func readPropertySet(r io.Reader, props *models.DocProperties) {
	ps := msoleps.New()
	if err := ps.Reset(r); err != nil {
		return
	}
	for _, p := range ps.Property {
		if p == nil {
			continue
		}
		value := strings.TrimRight(p.String(), "\x00")
		switch p.Name {
		case "Title":
			props.Title = value
		case "Subject":
			props.Subject = value
		case "Author":
			props.Creator = value
		case "Keywords":
			props.Keywords = value
		case "Comments":
			props.Description = value
		case "LastAuthor":
			props.LastModifiedBy = value
		case "Category":
			props.Category = value
		}
	}
}
