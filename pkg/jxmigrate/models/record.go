package models

import "time"

// Status classifies the outcome of migrating one file.
type Status string

const (
	// StatusSuccess means every instruction was converted.
	StatusSuccess Status = "success"
	// StatusPartial means at least one instruction failed and the rest converted.
	StatusPartial Status = "partial"
	// StatusNoOp means no legacy instruction was found.
	StatusNoOp Status = "no-op"
	// StatusFailed means the file could not be read or written.
	StatusFailed Status = "failed"
)

// SheetRecord holds the per-sheet counters.
type SheetRecord struct {
	// Name is the sheet name.
	Name      string `json:"name"`
	Found     int    `json:"found"`
	Converted int    `json:"converted"`
	Failed    int    `json:"failed"`
	// RowsDeleted is the number of tag rows removed.
	RowsDeleted int `json:"rows_deleted"`
	// AreaGenerated reports whether an area annotation was added automatically.
	AreaGenerated bool `json:"area_generated"`
	// Changes describes each conversion in order.
	Changes []string `json:"changes,omitempty"`
}

// Touched reports whether the migration changed the sheet.
func (s SheetRecord) Touched() bool {
	return s.Converted > 0 || s.RowsDeleted > 0 || s.AreaGenerated
}

// MigrationRecord is the per-file result.
type MigrationRecord struct {
	// Input is the source path, if the migration came from a file.
	Input string `json:"input,omitempty"`
	// Output is the destination path, empty for dry runs.
	Output string `json:"output,omitempty"`
	// Format is the detected source container.
	Format SourceFormat `json:"format"`
	// Found is the number of legacy instructions discovered.
	Found int `json:"found"`
	// Converted is the number of instructions rewritten.
	Converted int `json:"converted"`
	// Failed is the number of malformed instructions left untouched.
	Failed int `json:"failed"`
	// AreasGenerated counts area annotations added for sheets without one.
	AreasGenerated int `json:"areas_generated"`
	// RowsDeleted counts tag rows removed across sheets.
	RowsDeleted int `json:"rows_deleted"`
	// Sheets holds the per-sheet counters in workbook order.
	Sheets []SheetRecord `json:"sheets,omitempty"`
	// SheetsTouched lists the sheets changed by the migration.
	SheetsTouched []string `json:"sheets_touched,omitempty"`
	// Status is the overall outcome.
	Status Status `json:"status"`
	// Errors holds error details: malformed instructions and file-level failures.
	Errors []string `json:"errors,omitempty"`
	// Warnings holds non-fatal notes such as style fallbacks.
	Warnings []string `json:"warnings,omitempty"`
	// DryRun reports whether writing was skipped.
	DryRun bool `json:"dry_run,omitempty"`
	// Duration is the wall time spent on the file.
	Duration time.Duration `json:"duration_ns"`
}

// AddSheet appends a sheet record and folds its counters into the totals.
func (r *MigrationRecord) AddSheet(s SheetRecord) {
	r.Sheets = append(r.Sheets, s)
	r.Found += s.Found
	r.Converted += s.Converted
	r.Failed += s.Failed
	r.RowsDeleted += s.RowsDeleted
	if s.AreaGenerated {
		r.AreasGenerated++
	}
	if s.Touched() {
		r.SheetsTouched = append(r.SheetsTouched, s.Name)
	}
}

// Classify sets Status from the counters. A failed status is kept.
func (r *MigrationRecord) Classify() {
	switch {
	case r.Status == StatusFailed:
	case r.Found == 0:
		r.Status = StatusNoOp
	case r.Failed > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSuccess
	}
}

// Fail marks the record failed with the given error.
func (r *MigrationRecord) Fail(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Errors = append(r.Errors, err.Error())
	}
}

// OK reports whether the file migrated without a file-level failure.
func (r *MigrationRecord) OK() bool {
	return r != nil && r.Status != StatusFailed
}

// BatchResult aggregates the records of a directory migration.
type BatchResult struct {
	// InputDir is the scanned directory.
	InputDir string `json:"input_dir"`
	// OutputDir is the destination directory.
	OutputDir string `json:"output_dir"`
	// Records holds one entry per processed file, in path order.
	Records            []*MigrationRecord `json:"records"`
	Total              int                `json:"total"`
	Succeeded          int                `json:"succeeded"`
	Partial            int                `json:"partial"`
	NoOp               int                `json:"no_op"`
	Failed             int                `json:"failed"`
	Found              int                `json:"instructions_found"`
	Converted          int                `json:"instructions_converted"`
	InstructionsFailed int                `json:"instructions_failed"`
	DryRun             bool               `json:"dry_run,omitempty"`
	// Started is when the batch began.
	Started time.Time `json:"started"`
	// Duration is the wall time of the batch.
	Duration time.Duration `json:"duration_ns"`
}

// Tally recomputes the aggregate counters from Records.
func (b *BatchResult) Tally() {
	b.Total = len(b.Records)
	b.Succeeded, b.Partial, b.NoOp, b.Failed = 0, 0, 0, 0
	b.Found, b.Converted, b.InstructionsFailed = 0, 0, 0
	for _, r := range b.Records {
		switch r.Status {
		case StatusSuccess:
			b.Succeeded++
		case StatusPartial:
			b.Partial++
		case StatusNoOp:
			b.NoOp++
		case StatusFailed:
			b.Failed++
		}
		b.Found += r.Found
		b.Converted += r.Converted
		b.InstructionsFailed += r.Failed
	}
}

// OK reports whether no file failed.
func (b *BatchResult) OK() bool {
	return b != nil && b.Failed == 0
}

// SuccessRate returns the share of files that did not fail, in percent.
func (b *BatchResult) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.Total-b.Failed) / float64(b.Total) * 100
}
