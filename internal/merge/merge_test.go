package merge

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/campuspulse/wellbeing-cli/internal/normalize"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
)

func writeSource(t *testing.T, path string, rows [][]string) {
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

func newMerger(t *testing.T) *Merger {
	t.Helper()
	n, err := normalize.New()
	require.NoError(t, err)
	return New(schema.Default(), n)
}

func TestMerge_ConcatenatesAndTags(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	b := filepath.Join(dir, "b.xlsx")

	writeSource(t, a, [][]string{
		{"Diet Q", "Age Q"},
		{"diet", "age"},
		{"Yes, I think my diet is healthy", "24"},
	})
	writeSource(t, b, [][]string{
		{"Diet Q", "Age Q"},
		{"diet", "age"},
		{"No, I think my diet is unhealthy", "30"},
		{"I think my diet is somewhat inbetween", "21"},
	})

	m := newMerger(t)
	out, err := m.Merge(context.Background(), []Source{
		{Path: a, Tag: "UAL1"},
		{Path: b, Tag: "SOL"},
	})
	require.NoError(t, err)
	require.Len(t, out.Rows, 3)

	assert.Equal(t, "UAL1", out.Cell(0, schema.FieldSource))
	assert.Equal(t, "SOL", out.Cell(1, schema.FieldSource))
	assert.Equal(t, "Healthy", out.Cell(0, "diet"))
	assert.Equal(t, "Unhealthy", out.Cell(1, "diet"))
	assert.Equal(t, "Somewhat Inbetween", out.Cell(2, "diet"))
}

func TestMerge_CoercesNumerics(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	writeSource(t, a, [][]string{
		{"Age Q", "Cost Q", "Device Q"},
		{"age", "cost_of_study", "total_device_hours"},
		{"24", "9,250", "about 12 hours"},
		{"not a number", "", "40"},
	})

	m := newMerger(t)
	out, err := m.Merge(context.Background(), []Source{{Path: a, Tag: "SOL"}})
	require.NoError(t, err)

	assert.Equal(t, "24", out.Cell(0, "age"))
	assert.Equal(t, "9250", out.Cell(0, "cost_of_study"))
	assert.Equal(t, "12", out.Cell(0, "total_device_hours"))
	assert.Equal(t, "0", out.Cell(1, "age"), "non-numeric coerces to 0")
	assert.Equal(t, "0", out.Cell(1, "cost_of_study"))
}

func TestMerge_DropsTimetableReasons(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xlsx")
	writeSource(t, a, [][]string{
		{"Reasons Q"},
		{"timetable_reasons"},
		{"I like compact days"},
	})

	m := newMerger(t)
	out, err := m.Merge(context.Background(), []Source{{Path: a, Tag: "SOL"}})
	require.NoError(t, err)
	assert.Equal(t, "", out.Cell(0, "timetable_reasons"))
}

func TestMerge_ReadFailureAborts(t *testing.T) {
	m := newMerger(t)
	_, err := m.Merge(context.Background(), []Source{
		{Path: filepath.Join(t.TempDir(), "missing.xlsx"), Tag: "SOL"},
	})
	require.Error(t, err)
}

func TestMerge_NoSources(t *testing.T) {
	m := newMerger(t)
	_, err := m.Merge(context.Background(), nil)
	require.Error(t, err)
}
