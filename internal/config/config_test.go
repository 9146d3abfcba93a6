package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, int64(4000), cfg.Anthropic.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Anthropic.Temperature, 1e-9)
}

func TestDataConfig_Paths(t *testing.T) {
	d := DataConfig{Dir: "/srv/data"}

	assert.Equal(t, filepath.Join("/srv/data", "merged", "merged_data.xlsx"), d.MergedStore())
	assert.Equal(t, filepath.Join("/srv/data", "sol", "sol_data", "sol_data.xlsx"), d.InstitutionStore("SOL"))
	assert.Equal(t, filepath.Join("/srv/data", "ual1", "ual1_courses.xlsx"), d.CourseCatalog(" UAL1 "))
	assert.Equal(t, filepath.Join("/srv/data", "login", "login_data.xlsx"), d.CredentialStore())
	assert.Equal(t, filepath.Join("/srv/data", "reports"), d.ReportsDir())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "chatty", Format: "json"})
	require.Error(t, err)
}
