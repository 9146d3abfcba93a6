// Package tabular reads and writes the dual-header spreadsheet stores.
//
// A store is an xlsx file whose first row holds human-readable question
// text and whose second row holds machine field identifiers; data rows
// follow, newest first. In memory the two header rows become an explicit
// schema object on Table, separate from the data.
package tabular

import (
	"github.com/rotisserie/eris"
)

// Table is a loaded dual-header store: two header rows split out from the
// data rows.
type Table struct {
	Questions []string   // row 0: display question text
	Fields    []string   // row 1: field identifiers, authoritative column order
	Rows      [][]string // data rows, newest first
}

// Record is one respondent's answers keyed by field identifier.
type Record map[string]string

// NewTable builds an empty table over the given header rows.
func NewTable(questions, fields []string) (*Table, error) {
	if len(questions) != len(fields) {
		return nil, eris.Errorf("tabular: header width mismatch: %d questions vs %d fields", len(questions), len(fields))
	}
	return &Table{Questions: questions, Fields: fields}, nil
}

// Width returns the column count.
func (t *Table) Width() int {
	return len(t.Fields)
}

// ColumnIndex returns the position of the given field identifier in this
// table's own header row, or -1 if the file does not carry the field.
func (t *Table) ColumnIndex(fieldID string) int {
	for i, f := range t.Fields {
		if f == fieldID {
			return i
		}
	}
	return -1
}

// Cell returns the value of the given field in the given data row. A field
// the header does not carry yields an empty string, not an error.
func (t *Table) Cell(row int, fieldID string) string {
	col := t.ColumnIndex(fieldID)
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// SetCell overwrites the value of the given field in the given data row.
// Out-of-range positions are ignored.
func (t *Table) SetCell(row int, fieldID, value string) {
	col := t.ColumnIndex(fieldID)
	if col < 0 || row < 0 || row >= len(t.Rows) || col >= len(t.Rows[row]) {
		return
	}
	t.Rows[row][col] = value
}

// RowRecord converts one data row into a field-keyed record.
func (t *Table) RowRecord(row int) Record {
	rec := make(Record, t.Width())
	for i, f := range t.Fields {
		if row >= 0 && row < len(t.Rows) && i < len(t.Rows[row]) {
			rec[f] = t.Rows[row][i]
		}
	}
	return rec
}

// AppendRecord materializes a record as a new row aligned to this table's
// own column order and inserts it directly beneath the headers (data rows
// are kept newest first). Fields the header does not carry are dropped;
// header columns the record does not fill stay empty.
func (t *Table) AppendRecord(rec Record) {
	row := make([]string, t.Width())
	for i, f := range t.Fields {
		row[i] = rec[f]
	}
	t.Rows = append([][]string{row}, t.Rows...)
}

// Filter returns a new table over the same headers containing only the rows
// the keep function accepts. Row slices are shared, not copied.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{Questions: t.Questions, Fields: t.Fields}
	for i := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, t.Rows[i])
		}
	}
	return out
}
