package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"snicETL/models"
)

// loadMetadata carrega o arquivo de metadados, criando-o vazio caso não exista.
func loadMetadata(path string) (*models.Metadata, error) {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de dados: %w", err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logInfo("🆕 Criando novo arquivo de metadados vazio...")
		metadata := &models.Metadata{}
		if err := saveMetadata(path, metadata); err != nil {
			return nil, err
		}
		logSuccess("✅ Arquivo criado em: %s", path)
		return metadata, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler metadados: %w", err)
	}

	var metadata models.Metadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("erro ao interpretar metadados %s: %w", path, err)
	}
	logInfo("📄 Metadados carregados de: %s", path)
	return &metadata, nil
}

// saveMetadata grava os metadados com indentação de 4 espaços.
func saveMetadata(path string, metadata *models.Metadata) error {
	data, err := json.MarshalIndent(metadata, "", "    ")
	if err != nil {
		return fmt.Errorf("erro ao serializar metadados: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("erro ao gravar metadados: %w", err)
	}
	return nil
}
