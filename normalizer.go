package main

import (
	"regexp"
	"strings"

	"snicETL/models"
)

var nanPattern = regexp.MustCompile(`(?i)nan`)

// normalizeConsumo troca "." por "," e "nan" por "0".
// A troca de separador reproduz o arquivo publicado hoje; confirmar com a área antes de inverter.
func normalizeConsumo(v string) string {
	v = strings.TrimSpace(strings.ReplaceAll(v, ".", ","))
	return strings.TrimSpace(nanPattern.ReplaceAllString(v, "0"))
}

// normalizeRecords ajusta os registros de uma aba no lugar e preenche ANO com o nome da aba.
func normalizeRecords(registros []models.ConsumoCimento, aba string) {
	ano := strings.TrimSpace(aba)
	for i := range registros {
		r := &registros[i]
		r.ConsumoT = normalizeConsumo(r.ConsumoT)
		r.Mes = upperPtBR(strings.TrimSpace(r.Mes))
		r.Ano = ano
	}
}
