package main

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	linhasCabecalho = 3 // bloco de título e legenda no topo de cada aba
	minLinhasAba    = 8 // abas com até 8 linhas estão vazias ou malformadas
	marcadorTotal   = "BRASIL"
)

var aspas = strings.NewReplacer("'", "", `"`, "")

// upperPtBR coloca o texto em caixa alta seguindo as regras do português.
func upperPtBR(s string) string {
	return cases.Upper(language.BrazilianPortuguese).String(s)
}

// normalizeLabel limpa o texto da primeira coluna: sem aspas, NFC, sem espaços nas pontas, caixa alta.
func normalizeLabel(s string) string {
	s = aspas.Replace(s)
	s = norm.NFC.String(s)
	return upperPtBR(strings.TrimSpace(s))
}

// cleanSheet remove o cabeçalho fixo, a última coluna e o rodapé a partir da linha
// do total nacional, e promove a primeira linha restante a cabeçalho.
// O segundo retorno é false quando a aba não contribui com registros.
func cleanSheet(sheet RawSheet) (Table, bool) {
	if len(sheet.Rows) <= minLinhasAba {
		logWarning("⚠️ Aba %s ignorada (poucas linhas).", sheet.Name)
		return Table{}, false
	}

	width := 0
	for _, row := range sheet.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width < 3 {
		logWarning("⚠️ Aba %s ignorada (sem colunas de meses).", sheet.Name)
		return Table{}, false
	}

	// Remover as 3 primeiras linhas e a última coluna
	grid := make([][]string, 0, len(sheet.Rows)-linhasCabecalho)
	for _, row := range sheet.Rows[linhasCabecalho:] {
		cells := make([]string, width-1)
		copy(cells, row)
		cells[0] = normalizeLabel(cells[0])
		grid = append(grid, cells)
	}

	// Tudo a partir da linha do BRASIL é agregado ou nota de rodapé
	for i, row := range grid {
		if strings.Contains(row[0], marcadorTotal) {
			grid = grid[:i]
			break
		}
	}

	if len(grid) == 0 {
		logWarning("⚠️ Aba %s sem linhas antes do total nacional.", sheet.Name)
		return Table{}, false
	}

	t := Table{Columns: grid[0], Rows: grid[1:]}

	// Colunas sem nome no cabeçalho são espaçadores do layout
	vazias := map[int]bool{}
	for i, c := range t.Columns {
		if i > 0 && strings.TrimSpace(c) == "" {
			vazias[i] = true
		}
	}
	t.DropColumns(vazias)

	vistos := map[string]bool{}
	for _, c := range t.Columns[1:] {
		mes := upperPtBR(strings.TrimSpace(c))
		if vistos[mes] {
			logWarning("⚠️ Aba %s: coluna %s repetida no cabeçalho; só a primeira entra no resultado.", sheet.Name, mes)
		}
		vistos[mes] = true
	}

	if len(t.Columns) < 2 {
		logWarning("⚠️ Aba %s sem colunas de meses no cabeçalho.", sheet.Name)
		return Table{}, false
	}
	return t, true
}
