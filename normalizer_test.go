package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"snicETL/models"
)

func TestNormalizeConsumo(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234", "1,234"},
		{"10.5", "10,5"},
		{"20", "20"},
		{"nan", "0"},
		{"NaN", "0"},
		{" NAN ", "0"},
		{"", ""},
		{"   ", ""},
		{" 42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeConsumo(tt.in))
		})
	}
}

func TestNormalizeRecords(t *testing.T) {
	registros := []models.ConsumoCimento{
		{Estado: "ACRE", Regiao: "NORTE", Mes: " jan ", ConsumoT: "1.5"},
		{Estado: "ACRE", Regiao: "NORTE", Mes: "Fev", ConsumoT: "nan"},
	}

	normalizeRecords(registros, " 2021 ")

	assert.Equal(t, []models.ConsumoCimento{
		{Ano: "2021", Mes: "JAN", Estado: "ACRE", Regiao: "NORTE", ConsumoT: "1,5"},
		{Ano: "2021", Mes: "FEV", Estado: "ACRE", Regiao: "NORTE", ConsumoT: "0"},
	}, registros)
}
