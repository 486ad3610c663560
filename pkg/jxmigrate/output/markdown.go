package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
)

// ToMarkdown renders a batch result as a Markdown report.
func ToMarkdown(result *models.BatchResult) []byte {
	var b strings.Builder

	b.WriteString("# JXLS Migration Report\n\n")
	fmt.Fprintf(&b, "- Started: %s\n", result.Started.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Duration: %s\n", result.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "- Input: `%s`\n", result.InputDir)
	fmt.Fprintf(&b, "- Output: `%s`\n", result.OutputDir)
	if result.DryRun {
		b.WriteString("- Dry run: nothing was written\n")
	}

	b.WriteString("\n## Summary\n\n")
	b.WriteString("| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| files | %d |\n", result.Total)
	fmt.Fprintf(&b, "| succeeded | %d |\n", result.Succeeded)
	fmt.Fprintf(&b, "| partial | %d |\n", result.Partial)
	fmt.Fprintf(&b, "| no-op | %d |\n", result.NoOp)
	fmt.Fprintf(&b, "| failed | %d |\n", result.Failed)
	fmt.Fprintf(&b, "| instructions found | %d |\n", result.Found)
	fmt.Fprintf(&b, "| instructions converted | %d |\n", result.Converted)
	fmt.Fprintf(&b, "| instructions failed | %d |\n", result.InstructionsFailed)
	fmt.Fprintf(&b, "| success rate | %.1f%% |\n", result.SuccessRate())

	if len(result.Records) > 0 {
		b.WriteString("\n## Files\n\n")
		b.WriteString("| file | status | found | converted | failed | rows deleted | sheets |\n")
		b.WriteString("|---|---|---|---|---|---|---|\n")
		for _, r := range result.Records {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %d | %s |\n",
				cell(relative(result.InputDir, r.Input)), r.Status, r.Found, r.Converted, r.Failed,
				r.RowsDeleted, cell(strings.Join(r.SheetsTouched, ", ")))
		}
	}

	var failures, details []*models.MigrationRecord
	for _, r := range result.Records {
		if r.Status == models.StatusFailed {
			failures = append(failures, r)
		} else if len(r.Errors) > 0 || len(r.Warnings) > 0 {
			details = append(details, r)
		}
	}
	if len(failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, r := range failures {
			fmt.Fprintf(&b, "- `%s`: %s\n", relative(result.InputDir, r.Input), strings.Join(r.Errors, "; "))
		}
	}
	if len(details) > 0 {
		b.WriteString("\n## Details\n")
		for _, r := range details {
			fmt.Fprintf(&b, "\n### %s\n\n", relative(result.InputDir, r.Input))
			for _, e := range r.Errors {
				fmt.Fprintf(&b, "- error: %s\n", e)
			}
			for _, w := range r.Warnings {
				fmt.Fprintf(&b, "- warning: %s\n", w)
			}
		}
	}
	return []byte(b.String())
}

func relative(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}

// cell escapes text for a Markdown table cell.
func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
