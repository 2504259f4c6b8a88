package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"masterdata-service/internal/audit"
	"masterdata-service/internal/repository"
)

// ImportMode selects the failure semantics of a bulk run.
type ImportMode int

const (
	// ModeTransactional runs the whole file in one transaction; any bad
	// row rolls back everything.
	ModeTransactional ImportMode = iota
	// ModePerRow commits row by row and stops at the first bad row,
	// leaving earlier rows persisted.
	ModePerRow
)

// RefPolicy controls what happens when a row references a parent record by
// name and the name does not resolve.
type RefPolicy int

const (
	// RefPolicyFail rejects the row.
	RefPolicyFail RefPolicy = iota
	// RefPolicySubstituteZero writes the zero sentinel instead. Kept for
	// clients that backfill parents after the fact.
	RefPolicySubstituteZero
)

// DefaultMaxRows caps a single import file unless configured otherwise.
const DefaultMaxRows = 10000

// RowError pins a failure to its 1-based data row.
type RowError struct {
	Row     int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ImportResult reports how far a bulk run got. Failed is nil on full
// success. In per-row mode Processed counts the rows persisted before the
// failure; in transactional mode a failure means zero rows persisted.
type ImportResult struct {
	Processed int
	Failed    *RowError
}

// RowMapper converts one parsed file row into an upsert request. It runs
// against the store bound to the current transaction so reference lookups
// see rows imported earlier in the same file.
type RowMapper func(ctx context.Context, store repository.LookupStore, row map[string]string) (UpsertRequest, error)

// ImportSpec describes one bulk import target.
type ImportSpec struct {
	Desc    repository.Descriptor
	Mode    ImportMode
	Mapper  RowMapper
	MaxRows int
}

// Importer drives bulk file imports through the upsert engine.
type Importer struct {
	engine *Engine
	store  repository.LookupStore
	audit  audit.Logger
	log    *logrus.Logger
}

func NewImporter(engine *Engine, store repository.LookupStore, auditLog audit.Logger, log *logrus.Logger) *Importer {
	return &Importer{engine: engine, store: store, audit: auditLog, log: log}
}

// Run imports the parsed rows in the target's configured mode. The returned
// error is non-nil only for infrastructure failures; row-level failures come
// back in the result.
func (im *Importer) Run(ctx context.Context, spec ImportSpec, rows []map[string]string, actor Actor) (ImportResult, error) {
	maxRows := spec.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	if len(rows) == 0 {
		return ImportResult{}, fmt.Errorf("%w: file contains no data rows", ErrValidation)
	}
	if len(rows) > maxRows {
		return ImportResult{}, fmt.Errorf("%w: file has %d rows, limit is %d", ErrValidation, len(rows), maxRows)
	}

	var result ImportResult
	if spec.Mode == ModeTransactional {
		// Per-row audit records are buffered so a rollback discards them
		// along with the rows; they only hit the trail after commit.
		buffered := audit.NewBuffered()
		err := im.store.WithTransaction(ctx, func(tx repository.LookupStore) error {
			res, rowErr, err := im.runRows(ctx, spec, im.engine.WithStore(tx).WithAudit(buffered), tx, rows, actor)
			if err != nil {
				return err
			}
			if rowErr != nil {
				result = ImportResult{Failed: rowErr}
				return rowErr
			}
			result = res
			return nil
		})
		if err != nil {
			if result.Failed != nil {
				// Rollback happened; nothing persisted.
				result.Processed = 0
				return result, nil
			}
			return ImportResult{}, err
		}
		buffered.Flush(ctx, im.audit)
		im.recordRun(ctx, spec, result, actor)
		return result, nil
	}

	res, rowErr, err := im.runRows(ctx, spec, im.engine, im.store, rows, actor)
	if err != nil {
		return ImportResult{}, err
	}
	res.Failed = rowErr
	im.recordRun(ctx, spec, res, actor)
	return res, nil
}

func (im *Importer) runRows(ctx context.Context, spec ImportSpec, engine *Engine, store repository.LookupStore, rows []map[string]string, actor Actor) (ImportResult, *RowError, error) {
	var result ImportResult
	for _, row := range rows {
		rowNum := rowIndex(row)
		req, err := spec.Mapper(ctx, store, row)
		if err != nil {
			return result, &RowError{Row: rowNum, Message: err.Error()}, nil
		}
		if _, err := engine.Upsert(ctx, spec.Desc, req, actor); err != nil {
			if isRowLevel(err) {
				return result, &RowError{Row: rowNum, Message: err.Error()}, nil
			}
			return result, nil, err
		}
		result.Processed++
	}
	return result, nil, nil
}

func (im *Importer) recordRun(ctx context.Context, spec ImportSpec, result ImportResult, actor Actor) {
	if result.Processed == 0 {
		return
	}
	im.audit.Record(ctx, actor.UserID, actor.CompID, actor.IsWeb,
		audit.Activity("Imported", spec.Desc.Entity, fmt.Sprintf("%d rows", result.Processed)))
}

// isRowLevel reports whether an upsert failure should be pinned to the row
// rather than aborting the whole run as an infrastructure error.
func isRowLevel(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, repository.ErrAmbiguousKey) ||
		errors.Is(err, repository.ErrDuplicateKey)
}

// ResolveRef turns a parent name into its surrogate id per the policy.
func ResolveRef(ctx context.Context, store repository.LookupStore, desc repository.Descriptor, key string, policy RefPolicy) (int64, error) {
	if strings.TrimSpace(key) == "" {
		if policy == RefPolicySubstituteZero {
			return 0, nil
		}
		return 0, fmt.Errorf("%s is required", desc.KeyColumn)
	}
	id, err := store.Resolve(ctx, desc, key)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		if policy == RefPolicySubstituteZero {
			return 0, nil
		}
		return 0, fmt.Errorf("%s %q not found", desc.Entity, strings.TrimSpace(key))
	}
	return id, nil
}

// --- file parsing ---

// ParseCSV reads a header row plus data rows into maps keyed by the
// lowercased trimmed header. Each row carries its 1-based data index under
// "_row" so errors can point at the offending line.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", rowNum+1, err)
		}
		rowNum++
		row := map[string]string{"_row": strconv.Itoa(rowNum)}
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseXLSX reads the first sheet of an Excel workbook with the same row
// shape as ParseCSV.
func ParseXLSX(r io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	header := records[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var rows []map[string]string
	for rowNum, record := range records[1:] {
		row := map[string]string{"_row": strconv.Itoa(rowNum + 1)}
		for i, value := range record {
			if i < len(header) {
				row[header[i]] = strings.TrimSpace(value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// TemplateColumn describes one column of a downloadable import template.
type TemplateColumn struct {
	Header  string
	Example string
}

// CSVTemplate renders a header-plus-example template file.
func CSVTemplate(columns []TemplateColumn) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	headers := make([]string, len(columns))
	examples := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
		examples[i] = col.Example
	}
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	if err := w.Write(examples); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// XLSXTemplate renders the same template as a styled workbook.
func XLSXTemplate(sheet string, columns []TemplateColumn) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return nil, err
		}
		example, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, example, col.Example); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func rowIndex(row map[string]string) int {
	n, err := strconv.Atoi(row["_row"])
	if err != nil {
		return 0
	}
	return n
}
