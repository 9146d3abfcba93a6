package tabular

import (
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/campuspulse/wellbeing-cli/internal/schema"
)

func writeTestStore(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	require.NoError(t, f.Save(path))
}

func TestLoad_SplitsHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.xlsx")
	writeTestStore(t, path, [][]string{
		{"Q1", "Q2", "Q3"},
		{"diet", "age", "source"},
		{"Healthy", "24", "SOL"},
		{"Unhealthy", "30", "UAL1"},
	})

	tab, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, tab.Questions)
	assert.Equal(t, []string{"diet", "age", "source"}, tab.Fields)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "Healthy", tab.Cell(0, "diet"))
	assert.Equal(t, "UAL1", tab.Cell(1, "source"))
}

func TestLoad_PadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.xlsx")
	writeTestStore(t, path, [][]string{
		{"Q1", "Q2", "Q3"},
		{"diet", "age", "source"},
		{"Healthy"},
	})

	tab, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 1)
	assert.Len(t, tab.Rows[0], tab.Width())
	assert.Equal(t, "", tab.Cell(0, "source"))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestLoad_MissingHeaders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.xlsx")
	writeTestStore(t, path, [][]string{{"only one row"}})

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header rows")
}

func TestAppend_CreatesStore(t *testing.T) {
	s := schema.Default()
	path := filepath.Join(t.TempDir(), "sol", "sol_data", "sol_data.xlsx")

	rec := Record{"diet": "Healthy", "age": "24", schema.FieldSource: "SOL"}
	require.NoError(t, Append(path, rec, s))

	tab, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Questions(), tab.Questions)
	assert.Equal(t, s.IDs(), tab.Fields)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, "Healthy", tab.Cell(0, "diet"))
	assert.Equal(t, "SOL", tab.Cell(0, schema.FieldSource))
}

func TestAppend_NewestFirst(t *testing.T) {
	s := schema.Default()
	path := filepath.Join(t.TempDir(), "data.xlsx")

	require.NoError(t, Append(path, Record{"diet": "first"}, s))
	require.NoError(t, Append(path, Record{"diet": "second"}, s))

	tab, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 2)
	assert.Equal(t, "second", tab.Cell(0, "diet"))
	assert.Equal(t, "first", tab.Cell(1, "diet"))
}

func TestAppend_FileHeaderOrderIsAuthoritative(t *testing.T) {
	// The store carries a column order that differs from the canonical
	// schema; the record must land under the file's own headers.
	path := filepath.Join(t.TempDir(), "store.xlsx")
	writeTestStore(t, path, [][]string{
		{"Age Q", "Diet Q"},
		{"age", "diet"},
	})

	require.NoError(t, Append(path, Record{"diet": "Healthy", "age": "24"}, schema.Default()))

	tab, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, []string{"24", "Healthy"}, tab.Rows[0])
}

func TestAppend_UnknownFieldSilentlyEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.xlsx")
	writeTestStore(t, path, [][]string{
		{"Diet Q"},
		{"diet"},
	})

	// The record expects a field the store header does not carry.
	err := Append(path, Record{"diet": "Healthy", "exotic_field": "x"}, schema.Default())
	require.NoError(t, err)

	tab, err := Load(path)
	require.NoError(t, err)
	require.Len(t, tab.Rows, 1)
	assert.Equal(t, []string{"Healthy"}, tab.Rows[0])
}

func TestRoundTrip(t *testing.T) {
	s := schema.Default()
	path := filepath.Join(t.TempDir(), "data.xlsx")

	rec := Record{}
	for _, id := range s.IDs() {
		rec[id] = id + "-value"
	}
	require.NoError(t, Append(path, rec, s))

	tab, err := Load(path)
	require.NoError(t, err)
	got := tab.RowRecord(0)
	for _, id := range s.IDs() {
		assert.Equal(t, rec[id], got[id], "field %s", id)
	}
}

func TestWidthInvariant(t *testing.T) {
	s := schema.Default()
	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, Append(path, Record{"diet": "Healthy"}, s))

	tab, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, len(tab.Questions), len(tab.Fields))
	for i, row := range tab.Rows {
		assert.Len(t, row, tab.Width(), "row %d", i)
	}
}
