package main

import (
	"regexp"
	"strings"
)

const (
	colunaEstado = "ESTADO"
	colunaRegiao = "REGIAO"
)

// Linhas-marcador de região. O Centro-Oeste aparece sem o prefixo "REGIÃO".
var regionMarkers = map[string]bool{
	"REGIÃO NORTE":    true,
	"REGIÃO NORDESTE": true,
	"REGIÃO SUDESTE":  true,
	"REGIÃO SUL":      true,
	"CENTRO-OESTE":    true,
}

var palavraRegiao = regexp.MustCompile(`(?i)REGIÃO`)

// collapseSpaces junta os trechos separados por qualquer espaço Unicode (inclusive NBSP) com um espaço simples.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isRegionMarker(label string) bool {
	return regionMarkers[upperPtBR(collapseSpaces(label))]
}

// backfillRegions atribui a cada linha o marcador mais próximo na mesma linha ou abaixo dela.
// Na planilha a linha agregada da região vem depois dos seus estados.
func backfillRegions(labels []string) []string {
	var markers []int
	for i, l := range labels {
		if isRegionMarker(l) {
			markers = append(markers, i)
		}
	}

	out := make([]string, len(labels))
	m := 0
	for i := range labels {
		for m < len(markers) && markers[m] < i {
			m++
		}
		if m < len(markers) {
			out[i] = labels[markers[m]]
		}
	}
	return out
}

// annotateRegions cria a coluna REGIAO logo após ESTADO, preenche de baixo para cima
// e remove as linhas-marcador.
func annotateRegions(t *Table, aba string) {
	for _, row := range t.Rows {
		row[0] = collapseSpaces(row[0])
	}
	t.Filter(func(row []string) bool { return row[0] != "" })

	t.Columns[0] = colunaEstado
	t.InsertColumn(1, colunaRegiao, "")

	labels := make([]string, t.Nrow())
	for i, row := range t.Rows {
		labels[i] = row[0]
	}
	for i, regiao := range backfillRegions(labels) {
		t.Rows[i][1] = regiao
	}

	// Remover as linhas duplicadas de região
	t.Filter(func(row []string) bool {
		return !strings.EqualFold(strings.TrimSpace(row[0]), strings.TrimSpace(row[1]))
	})

	semRegiao := 0
	for _, row := range t.Rows {
		row[1] = strings.TrimSpace(palavraRegiao.ReplaceAllString(row[1], ""))
		if row[1] == "" {
			semRegiao++
		}
	}
	if semRegiao > 0 {
		logWarning("⚠️ Aba %s: %d linha(s) sem marcador de região abaixo delas.", aba, semRegiao)
	}
}
