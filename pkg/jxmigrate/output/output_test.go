package output

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

func sampleResult() *models.BatchResult {
	in := filepath.FromSlash("/tmp/templates")
	r := &models.BatchResult{
		InputDir:  in,
		OutputDir: in + "_v2",
		Started:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
		Records: []*models.MigrationRecord{
			{Input: filepath.Join(in, "a.xls"), Status: models.StatusSuccess, Found: 3, Converted: 3, SheetsTouched: []string{"Data"}},
			{Input: filepath.Join(in, "sub", "b.xls"), Status: models.StatusPartial, Found: 2, Converted: 1, Failed: 1,
				Errors: []string{"malformed forEach instruction at S!A1: no matching closing tag"}},
			{Input: filepath.Join(in, "c.xls"), Status: models.StatusFailed, Errors: []string{"workbook is encrypted"}},
		},
	}
	r.Tally()
	return r
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleResult(), true)
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["total"] != float64(3) || decoded["failed"] != float64(1) {
		t.Errorf("total = %v, failed = %v, expected 3 and 1", decoded["total"], decoded["failed"])
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Errorf("pretty output is not indented")
	}
}

func TestToMarkdown(t *testing.T) {
	md := string(ToMarkdown(sampleResult()))
	for _, want := range []string{
		"# JXLS Migration Report",
		"| files | 3 |",
		"| success rate | 66.7% |",
		"| sub/b.xls | partial | 2 | 1 | 1 | 0 | - |",
		"- `c.xls`: workbook is encrypted",
		"### sub/b.xls",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q:\n%s", want, md)
		}
	}
}
