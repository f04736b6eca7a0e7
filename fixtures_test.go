package main

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// rawSheet2021 reproduz o layout da planilha do SNIC: título, cabeçalho de meses
// com coluna TOTAL, estados seguidos da linha da região, total BRASIL e rodapé.
func rawSheet2021() RawSheet {
	return RawSheet{
		Name: "2021",
		Rows: [][]string{
			{"CONSUMO APARENTE DE CIMENTO POR ESTADO"},
			{"(em toneladas)"},
			{},
			{"UF", "JAN", "FEV", "TOTAL"},
			{"ACRE", "10.5", "20", "30.5"},
			{"AMAZONAS", "5", "8", "13"},
			{"REGIÃO NORTE", "15.5", "28", "43.5"},
			{"BRASIL", "15.5", "28", "43.5"},
			{"Fonte: SNIC"},
		},
	}
}

// writeWorkbook grava uma planilha com as abas na ordem informada.
func writeWorkbook(t *testing.T, path string, sheets []RawSheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet.Name))
		} else {
			_, err := f.NewSheet(sheet.Name)
			require.NoError(t, err)
		}
		for r, row := range sheet.Rows {
			cells := make([]interface{}, len(row))
			for c, v := range row {
				// números vão como células numéricas, como no arquivo publicado
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[c] = n
				} else {
					cells[c] = v
				}
			}
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet.Name, cell, &cells))
		}
	}
	require.NoError(t, f.SaveAs(path))
}
