package models

// SourceFormat identifies the container a workbook was read from.
type SourceFormat string

const (
	// FormatLegacy is the OLE2 compound document (BIFF8 .xls).
	FormatLegacy SourceFormat = "legacy"
	// FormatModern is the zip package (.xlsx).
	FormatModern SourceFormat = "modern"
	// FormatUnknown is anything else.
	FormatUnknown SourceFormat = "unknown"
)

// DocProperties holds the document summary carried from input to output.
type DocProperties struct {
	Title       string `json:"title,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	// LastModifiedBy is the last author recorded in the source.
	LastModifiedBy string `json:"last_modified_by,omitempty"`
}

// IsZero reports whether no property is set.
func (p DocProperties) IsZero() bool {
	return p == DocProperties{}
}

// Workbook is the uniform in-memory model of a spreadsheet file.
type Workbook struct {
	// Format is the container the workbook was read from.
	Format SourceFormat `json:"format"`
	// Sheets lists the worksheets in workbook order.
	Sheets []*Sheet `json:"sheets"`
	// Properties holds the document summary.
	Properties DocProperties `json:"properties"`
	// Palette holds custom RGB colors for indexes 8 and up. Empty means the
	// built-in palette.
	Palette []string `json:"palette,omitempty"`
}

// Sheet returns the sheet with the given name, or nil.
func (w *Workbook) Sheet(name string) *Sheet {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}
