package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("data", "raw"), cfg.RawDataDir)
	assert.Equal(t, filepath.Join("data", "processed", "consumo_cimento_tratado.csv"), cfg.OutputPath())
	assert.Equal(t, filepath.Join("data", "metadata.json"), cfg.MetadataPath)
	assert.Equal(t, 54, cfg.ProbeStart)
	assert.Equal(t, "5432", cfg.DBPort)
}

func TestLoadConfig_File(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "yaml",
			file:    "config.yaml",
			content: "data_dir: /srv/snic\nsheets_tab: consumo\nprobe_start: 60\n",
		},
		{
			name:    "toml",
			file:    "config.toml",
			content: "data_dir = \"/srv/snic\"\nsheets_tab = \"consumo\"\nprobe_start = 60\n",
		},
		{
			name:    "json",
			file:    "config.json",
			content: `{"data_dir": "/srv/snic", "sheets_tab": "consumo", "probe_start": 60}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			cfg, err := loadConfig(path)
			require.NoError(t, err)

			assert.Equal(t, "/srv/snic", cfg.DataDir)
			assert.Equal(t, filepath.Join("/srv/snic", "raw"), cfg.RawDataDir)
			assert.Equal(t, "consumo", cfg.SheetsTab)
			assert.Equal(t, 60, cfg.ProbeStart)
			// não informado no arquivo, fica o padrão
			assert.Equal(t, 1000, cfg.ProbeLimit)
		})
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: /srv/snic\ndb_name: arquivo\n"), 0644))
	t.Setenv("DB_NAME", "ambiente")
	t.Setenv("RAW_DATA_DIR", "/tmp/brutos")

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ambiente", cfg.DBName)
	assert.Equal(t, "/tmp/brutos", cfg.RawDataDir)
	assert.Equal(t, filepath.Join("/srv/snic", "processed"), cfg.ProcessedDir)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	ini := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(ini, []byte("a=b"), 0644))

	_, err := loadConfig(ini)
	assert.Error(t, err)

	_, err = loadConfig(filepath.Join(dir, "inexistente.yaml"))
	assert.Error(t, err)

	_, err = loadConfig(dir)
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	credentials := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(credentials, []byte("{}"), 0644))

	tests := []struct {
		name    string
		mutate  func(c *Config)
		fields  []string
		wantErr bool
	}{
		{
			name:   "padrões servem para extração",
			fields: camposExtracao,
		},
		{
			name:    "sheets sem credenciais",
			fields:  camposSheets,
			wantErr: true,
		},
		{
			name: "sheets completo",
			mutate: func(c *Config) {
				c.SheetsCredentials = credentials
				c.SheetsID = "abc"
				c.SheetsTab = "consumo"
			},
			fields: camposSheets,
		},
		{
			name: "banco com porta inválida",
			mutate: func(c *Config) {
				c.DBHost, c.DBUser, c.DBName = "localhost", "postgres", "snic"
				c.DBPort = "cinco"
			},
			fields:  camposBanco,
			wantErr: true,
		},
		{
			name: "banco completo",
			mutate: func(c *Config) {
				c.DBHost, c.DBUser, c.DBName = "localhost", "postgres", "snic"
			},
			fields: camposBanco,
		},
		{
			name:    "limite de busca menor que o início",
			mutate:  func(c *Config) { c.ProbeLimit = 10 },
			fields:  camposExtracao,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.validate(tt.fields...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
