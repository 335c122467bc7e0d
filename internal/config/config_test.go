package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Clearenv()
	cfg := LoadConfig()
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := LoadConfig()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadCostTablesFallsBackToDefaultsWhenMissing(t *testing.T) {
	tables, err := LoadCostTables(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.True(t, tables.HasCategoryChangeCost("image", "video", ""))
}

func TestLoadCostTablesReadsOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost-tables.yaml")
	content := `
category_change:
  - from: data
    to: database
    cost: 9.9
adaptive:
  - categories: [text, text, image]
    cost: 42
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	tables, err := LoadCostTables(path)
	require.NoError(t, err)
	assert.True(t, tables.HasCategoryChangeCost("data", "database", ""))
	assert.True(t, tables.HasCategoryAdaptiveCost([]string{"text", "text", "image"}))
}

func TestWriteDefaultCostTableFileRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cost-tables.yaml")
	require.NoError(t, WriteDefaultCostTableFile(path))

	tables, err := LoadCostTables(path)
	require.NoError(t, err)
	assert.True(t, tables.HasCategoryAdaptiveCost([]string{"image", "video", "audio"}))
}
