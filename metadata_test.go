package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snicETL/models"
)

func metadataComColeta(coleta string) *models.Metadata {
	return &models.Metadata{UltimaColeta: &coleta}
}

func TestLoadMetadata_CreatesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "metadata.json")

	metadata, err := loadMetadata(path)
	require.NoError(t, err)
	assert.Nil(t, metadata.UltimaColeta)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"ultima_coleta": null,
		"ultima_url": null,
		"ultima_versao": null,
		"ultima_data_atualizacao": null
	}`, string(data))
	assert.Contains(t, string(data), "\n    \"ultima_coleta\"")
}

func TestSaveAndLoadMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	coleta := "2024-03-15"

	metadata, err := loadMetadata(path)
	require.NoError(t, err)
	metadata.UltimaColeta = &coleta
	require.NoError(t, saveMetadata(path, metadata))

	loaded, err := loadMetadata(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.UltimaColeta)
	assert.Equal(t, coleta, *loaded.UltimaColeta)
	assert.Nil(t, loaded.UltimaURL)
}

func TestLoadMetadata_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metadata.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := loadMetadata(path)
	assert.Error(t, err)
}
