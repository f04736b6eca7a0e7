package main

import (
	"snicETL/models"
)

// Texto de uma célula vazia na planilha; o normalizador transforma em "0".
const valorAusente = "nan"

// pivotSheet converte as colunas de meses em linhas (ESTADO, REGIAO, MES, CONSUMO_T).
func pivotSheet(t Table) ([]models.ConsumoCimento, error) {
	idIdx, err := t.indexes([]string{colunaEstado, colunaRegiao})
	if err != nil {
		return nil, err
	}

	// meses por posição: um cabeçalho repetido não pode ler a mesma coluna duas vezes
	var meses []int
	for i, c := range t.Columns {
		if c != colunaEstado && c != colunaRegiao {
			meses = append(meses, i)
		}
	}

	long, err := t.MeltAt(idIdx, meses, "MES", "CONSUMO_T")
	if err != nil {
		return nil, err
	}

	registros := make([]models.ConsumoCimento, 0, long.Nrow())
	for _, row := range long.Rows {
		valor := row[3]
		if valor == "" {
			valor = valorAusente
		}
		registros = append(registros, models.ConsumoCimento{
			Estado:   row[0],
			Regiao:   row[1],
			Mes:      row[2],
			ConsumoT: valor,
		})
	}
	return registros, nil
}
