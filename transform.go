package main

import (
	"fmt"

	"snicETL/models"
)

// TransformResult é o resultado de uma execução da transformação.
// OutputPath vazio significa que nenhuma aba gerou dados e nada foi gravado.
type TransformResult struct {
	Arquivo         string
	Registros       []models.ConsumoCimento
	AbasProcessadas []string
	AbasIgnoradas   []string
	OutputPath      string
}

// Empty indica o término sem dados ("nenhuma aba processada").
func (r *TransformResult) Empty() bool {
	return r.OutputPath == ""
}

// processSheet executa limpeza, regiões, pivot e normalização de uma aba.
func processSheet(sheet RawSheet) ([]models.ConsumoCimento, bool) {
	t, ok := cleanSheet(sheet)
	if !ok {
		return nil, false
	}

	annotateRegions(&t, sheet.Name)

	registros, err := pivotSheet(t)
	if err != nil {
		logWarning("⚠️ Aba %s ignorada: %v", sheet.Name, err)
		return nil, false
	}

	normalizeRecords(registros, sheet.Name)
	return registros, true
}

// transformData transforma a planilha mais recente de cfg.RawDataDir no CSV tratado.
func transformData(cfg *Config) (*TransformResult, error) {
	latest, err := findLatestSpreadsheet(cfg.RawDataDir)
	if err != nil {
		return nil, err
	}
	logInfo("📂 Lendo arquivo: %s", latest)

	sheets, err := loadSheets(latest)
	if err != nil {
		return nil, err
	}

	res := &TransformResult{Arquivo: latest}
	var porAba [][]models.ConsumoCimento
	for _, sheet := range sheets {
		logInfo("🔹 Processando aba: %s", sheet.Name)
		registros, ok := processSheet(sheet)
		if !ok {
			res.AbasIgnoradas = append(res.AbasIgnoradas, sheet.Name)
			continue
		}
		res.AbasProcessadas = append(res.AbasProcessadas, sheet.Name)
		porAba = append(porAba, registros)
	}

	registros, merged := consolidate(porAba)
	if len(registros) == 0 {
		logWarning("⚠️ Nenhuma aba processada.")
		return res, nil
	}

	outputPath := cfg.OutputPath()
	if err := writeConsolidatedCSV(outputPath, merged); err != nil {
		return nil, fmt.Errorf("erro ao gravar CSV consolidado: %w", err)
	}
	res.Registros = registros
	res.OutputPath = outputPath

	logSuccess("✅ Arquivo consolidado salvo em: %s (%d linhas)", outputPath, len(registros))
	previewRegistros(registros, 10)
	return res, nil
}
