package jxmigrate

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tiendc/go-deepcopy"

	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/instruction"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/models"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/parser"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/region"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/style"
	"github.com/fivefish130/jxls-migration-tool/pkg/jxmigrate/writer"
)

// Migrate converts a workbook held in memory. The returned bytes are a
// modern package, or nil for a dry run or a skipped no-op file. The record
// is always returned; err is set for file-level failures only.
func Migrate(data []byte, opts Options) ([]byte, *models.MigrationRecord, error) {
	return migrate("", data, opts)
}

func migrate(path string, data []byte, opts Options) ([]byte, *models.MigrationRecord, error) {
	start := time.Now()
	rec := &models.MigrationRecord{Input: path, DryRun: opts.DryRun}
	fail := func(err error) ([]byte, *models.MigrationRecord, error) {
		rec.Fail(err)
		rec.Duration = time.Since(start)
		return nil, rec, err
	}

	rec.Format = parser.Detect(data)
	if rec.Format == models.FormatUnknown {
		return fail(NewFormatDetectionError(path, parser.ErrUnknownFormat))
	}
	wb, err := parser.Read(data)
	if err != nil {
		return fail(NewUnsupportedFormatError(path, err))
	}

	out, r := MigrateWorkbook(wb, opts)
	r.Input, r.DryRun = rec.Input, rec.DryRun
	rec = r
	if !rec.OK() {
		rec.Duration = time.Since(start)
		return nil, rec, fmt.Errorf("migrate %s: %s", displayPath(path), rec.Errors[len(rec.Errors)-1])
	}
	if !opts.ShouldWrite(rec.Found) {
		rec.Duration = time.Since(start)
		return nil, rec, nil
	}

	buf, err := writer.Write(out, writer.Options{Author: opts.Author})
	if err != nil {
		return fail(NewWriteError(path, err))
	}
	if err := writer.VerifySharedStrings(buf); err != nil {
		return fail(NewWriteError(path, err))
	}
	rec.Duration = time.Since(start)
	return buf, rec, nil
}

// MigrateWorkbook converts every sheet of a copy of wb and returns the copy
// with translated styles. wb itself is never modified.
func MigrateWorkbook(wb *models.Workbook, opts Options) (*models.Workbook, *models.MigrationRecord) {
	rec := &models.MigrationRecord{Format: wb.Format, DryRun: opts.DryRun}
	var out models.Workbook
	if err := deepcopy.Copy(&out, *wb); err != nil {
		rec.Fail(fmt.Errorf("copy workbook: %w", err))
		return nil, rec
	}

	logger := opts.logger()
	palette := style.NewPalette(out.Palette)
	warnings := make(map[string]struct{})
	rowMaps := make(map[string]*region.RowMap)
	for i, sheet := range out.Sheets {
		sr, rows, err := migrateSheet(sheet, rec, logger)
		if err != nil {
			// restore the untouched sheet and count its instructions as failed
			logger.Error("sheet migration failed", "sheet", sheet.Name, "err", err)
			rec.Errors = append(rec.Errors, err.Error())
			var fresh models.Sheet
			if cerr := deepcopy.Copy(&fresh, *wb.Sheets[i]); cerr != nil {
				rec.Fail(cerr)
				return nil, rec
			}
			out.Sheets[i] = &fresh
			sheet = &fresh
			found := instruction.Scan(sheet).Found()
			sr = models.SheetRecord{Name: sheet.Name, Found: found, Failed: found}
			rows = nil
		}
		if rows != nil && rows.Len() > 0 {
			rowMaps[sheet.Name] = rows
		}
		rec.AddSheet(sr)
		translateStyles(sheet, palette, warnings)
	}
	remapForeignFormulas(out.Sheets, rowMaps, logger)

	for w := range warnings {
		rec.Warnings = append(rec.Warnings, w)
	}
	sort.Strings(rec.Warnings)
	rec.Classify()
	return &out, rec
}

// migrateSheet scans one sheet and applies the conversions in place.
func migrateSheet(sheet *models.Sheet, rec *models.MigrationRecord, logger *log.Logger) (sr models.SheetRecord, rows *region.RowMap, err error) {
	stage := "scan"
	defer func() {
		if r := recover(); r != nil {
			err = NewSheetError(sheet.Name, stage, fmt.Errorf("%v", r))
		}
	}()

	res := instruction.Scan(sheet)
	sr = models.SheetRecord{
		Name:   sheet.Name,
		Found:  res.Found(),
		Failed: len(res.Malformed),
	}
	for _, m := range res.Malformed {
		logger.Warn("malformed instruction", "sheet", m.Sheet, "cell", m.Cell.String(), "kind", m.Kind.String(), "err", m.Err)
		rec.Errors = append(rec.Errors, m.Error())
	}
	if sr.Found == 0 {
		return sr, nil, nil
	}

	stage = "apply"
	outcome := region.Apply(sheet, res)
	sr.Converted = outcome.Converted
	sr.RowsDeleted = outcome.Rows.Len()
	sr.AreaGenerated = outcome.AreaGenerated
	sr.Changes = outcome.Changes
	for _, change := range outcome.Changes {
		logger.Debug("converted", "sheet", sheet.Name, "change", change)
	}
	return sr, outcome.Rows, nil
}

// remapForeignFormulas moves references that point into another sheet
// through that sheet's row map, once every sheet has been migrated.
func remapForeignFormulas(sheets []*models.Sheet, rowMaps map[string]*region.RowMap, logger *log.Logger) {
	if len(rowMaps) == 0 {
		return
	}
	for _, sheet := range sheets {
		for p, c := range sheet.Cells {
			if c.Kind != models.KindFormula {
				continue
			}
			if f := region.RemapForeignReferences(c.Formula, sheet.Name, rowMaps); f != c.Formula {
				logger.Debug("remapped formula", "sheet", sheet.Name, "cell", p.String(), "formula", f)
				c.Formula = f
			}
		}
	}
}

// translateStyles fills Style for every cell. Warnings are collected once
// per sheet and message.
func translateStyles(sheet *models.Sheet, palette *style.Palette, warnings map[string]struct{}) {
	for _, c := range sheet.Cells {
		spec, warns := style.Translate(c.RawStyle, palette)
		c.Style = spec
		for _, w := range warns {
			warnings[fmt.Sprintf("sheet %q: %v", sheet.Name, &w)] = struct{}{}
		}
	}
}
