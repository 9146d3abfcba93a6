package tabular

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/campuspulse/wellbeing-cli/internal/schema"
)

// ErrNotFound reports an absent store where auto-creation is not wanted.
var ErrNotFound = eris.New("tabular: store not found")

// Load reads a dual-header store from disk. Short data rows are padded to
// the header width so every row has the same cell count.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, eris.Wrapf(ErrNotFound, "%s", path)
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("tabular: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) < 2 {
		return nil, eris.Errorf("tabular: %s is missing its two header rows", path)
	}

	questions := rowToStrings(sheet.Rows[0])
	fields := rowToStrings(sheet.Rows[1])
	if len(fields) < len(questions) {
		fields = padRow(fields, len(questions))
	}

	t, err := NewTable(questions, fields)
	if err != nil {
		return nil, eris.Wrapf(err, "tabular: %s", path)
	}
	for _, row := range sheet.Rows[2:] {
		t.Rows = append(t.Rows, padRow(rowToStrings(row), t.Width()))
	}
	return t, nil
}

// Write persists the table to disk, re-emitting the two header rows above
// the data rows. The whole file is rewritten and the parent directory is
// created as needed.
func Write(path string, t *Table) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return eris.Wrap(err, "tabular: add sheet")
	}

	writeRow(sheet, t.Questions)
	writeRow(sheet, t.Fields)
	for _, row := range t.Rows {
		writeRow(sheet, row)
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "tabular: save %s", path)
	}
	return nil
}

// Append adds one record to the store at path. A missing store is created
// with the canonical two header rows and the record as its only data row;
// an existing store keeps its own header order. The parent directory is
// created as needed.
func Append(path string, rec Record, s *schema.Schema) error {
	t, err := Load(path)
	switch {
	case eris.Is(err, ErrNotFound):
		if mkErr := ensureDir(path); mkErr != nil {
			return mkErr
		}
		t, err = NewTable(s.Questions(), s.IDs())
		if err != nil {
			return err
		}
	case err != nil:
		return err
	}

	t.AppendRecord(rec)
	return Write(path, t)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "tabular: create directory for %s", path)
	}
	return nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func padRow(row []string, width int) []string {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

func writeRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
