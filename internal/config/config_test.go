package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-service/internal/importer"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"IMPORT_BATCH_SIZE", "IMPORT_WORKERS", "IMPORT_CHUNK_TIMEOUT", "IMPORT_DEFAULT_SCHEMA", "IMPORT_GROUPING_STRATEGY"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 30*time.Second, cfg.ChunkTimeout)
	assert.Equal(t, "localized", cfg.DefaultSchema)
	assert.Equal(t, "prefix-merge", cfg.GroupingStrategy)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IMPORT_BATCH_SIZE", "20")
	t.Setenv("IMPORT_CHUNK_TIMEOUT", "5s")
	t.Setenv("ENVIRONMENT", "production")

	cfg := Load()

	assert.Equal(t, 20, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.ChunkTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("IMPORT_CHUNK_TIMEOUT", "soon")
	assert.Equal(t, 30*time.Second, Load().ChunkTimeout)
}

func TestLoadMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	content := `mappings:
  - name: Supplier-X
    countField: stockIndicator
    columns:
      articleNumber: "Art.-Nr."
      productName: "Name"
      price: "EK netto"
      stockIndicator: "Menge"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	names, err := LoadMappings(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"supplier-x"}, names)

	mapping, err := importer.Resolve("supplier-x")
	require.NoError(t, err)
	assert.Equal(t, "Art.-Nr.", mapping.Column(importer.FieldArticleNumber))
	assert.Equal(t, "EK netto", mapping.Column(importer.FieldPrice))
	assert.Equal(t, importer.FieldStockIndicator, mapping.CountField)
}

func TestLoadMappings_RejectsIncompleteMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	content := `mappings:
  - name: broken
    columns:
      productName: "Name"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := LoadMappings(path)
	assert.Error(t, err)

	_, err = importer.Resolve("broken")
	assert.Error(t, err)
}

func TestLoadMappings_EmptyPath(t *testing.T) {
	names, err := LoadMappings("")
	assert.NoError(t, err)
	assert.Nil(t, names)
}
