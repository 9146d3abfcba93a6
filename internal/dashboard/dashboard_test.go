package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/campuspulse/wellbeing-cli/internal/config"
	"github.com/campuspulse/wellbeing-cli/internal/schema"
)

func writeMerged(t *testing.T, dir string, rows [][]string) config.DataConfig {
	t.Helper()
	data := config.DataConfig{Dir: dir}
	require.NoError(t, fileSave(data.MergedStore(), rows))
	return data
}

func fileSave(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	if err != nil {
		return err
	}
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	return f.Save(path)
}

func TestQuery_Denormalizes(t *testing.T) {
	data := writeMerged(t, t.TempDir(), [][]string{
		{"Diet Q", "Age Q", "Source", "Predictions"},
		{"diet", "age", "source", "predictions"},
		{"Healthy", "24", "SOL", "1"},
		{"", "", "UAL1", ""},
	})

	recs, err := Query(data, schema.Default(), "")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Healthy", recs[0]["diet"])
	assert.Equal(t, 24, recs[0]["age"])
	assert.Equal(t, 1, recs[0]["predictions"])

	assert.Equal(t, NotProvided, recs[1]["diet"])
	assert.Equal(t, 0, recs[1]["age"])
	assert.Equal(t, 0, recs[1]["predictions"])
}

func TestQuery_FilterByInstitution(t *testing.T) {
	data := writeMerged(t, t.TempDir(), [][]string{
		{"Diet Q", "Source"},
		{"diet", "source"},
		{"Healthy", "SOL"},
		{"Unhealthy", "UAL1"},
	})

	recs, err := Query(data, schema.Default(), "SOL")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Healthy", recs[0]["diet"])

	all, err := Query(data, schema.Default(), "All")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestQuery_MissingStoreIsError(t *testing.T) {
	data := config.DataConfig{Dir: t.TempDir()}
	_, err := Query(data, schema.Default(), "")
	require.Error(t, err)
}
