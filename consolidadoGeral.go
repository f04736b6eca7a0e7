package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"snicETL/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type chaveRegistro struct {
	ano, mes, estado string
}

// registrosToDataFrame monta um DataFrame só de texto com as colunas do CSV tratado.
func registrosToDataFrame(registros []models.ConsumoCimento) dataframe.DataFrame {
	cols := make([][]string, len(models.ColunasConsumoCimento))
	for i := range cols {
		cols[i] = make([]string, len(registros))
	}
	for i, r := range registros {
		for j, v := range r.Record() {
			cols[j][i] = v
		}
	}

	ss := make([]series.Series, len(cols))
	for j, name := range models.ColunasConsumoCimento {
		ss[j] = series.New(cols[j], series.String, name)
	}
	return dataframe.New(ss...)
}

// consolidate junta os registros de todas as abas, na ordem das abas.
// Um (ano, mês, estado) repetido fica só com a primeira ocorrência.
func consolidate(porAba [][]models.ConsumoCimento) ([]models.ConsumoCimento, dataframe.DataFrame) {
	var merged dataframe.DataFrame
	var registros []models.ConsumoCimento
	first := true
	seen := make(map[chaveRegistro]bool)

	for _, regs := range porAba {
		kept := make([]models.ConsumoCimento, 0, len(regs))
		for _, r := range regs {
			k := chaveRegistro{r.Ano, r.Mes, r.Estado}
			if seen[k] {
				continue
			}
			seen[k] = true
			kept = append(kept, r)
		}
		if dup := len(regs) - len(kept); dup > 0 {
			logWarning("⚠️ %d registro(s) repetido(s) de (ano, mês, estado) descartado(s).", dup)
		}
		if len(kept) == 0 {
			continue
		}

		registros = append(registros, kept...)
		df := registrosToDataFrame(kept)
		if first {
			merged = df
			first = false
		} else {
			merged = merged.RBind(df)
		}
	}
	return registros, merged
}

// writeConsolidatedCSV grava o DataFrame em UTF-8 com BOM.
func writeConsolidatedCSV(path string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("erro ao consolidar abas: %w", df.Err)
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo %s: %w", path, err)
	}
	if _, err := outFile.Write(utf8BOM); err != nil {
		outFile.Close()
		return fmt.Errorf("erro ao gravar BOM em %s: %w", path, err)
	}
	if err := df.WriteCSV(outFile); err != nil {
		outFile.Close()
		return fmt.Errorf("erro ao escrever CSV em %s: %w", path, err)
	}
	return outFile.Close()
}
