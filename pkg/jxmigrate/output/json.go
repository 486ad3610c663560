// Package output renders migration results as JSON and Markdown reports.
package output

import (
	"encoding/json"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// Report file names written into the output directory.
const (
	JSONReportName     = "migration_report.json"
	MarkdownReportName = "migration_report.md"
)

// ToJSON serializes a batch result to JSON.
func ToJSON(result *models.BatchResult, pretty bool) ([]byte, error) {
	return marshal(result, pretty)
}

// RecordToJSON serializes a single file record to JSON.
func RecordToJSON(rec *models.MigrationRecord, pretty bool) ([]byte, error) {
	return marshal(rec, pretty)
}

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}
