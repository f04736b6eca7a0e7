package models

// Colunas do CSV tratado, na ordem em que são gravadas.
var ColunasConsumoCimento = []string{"ANO", "MES", "ESTADO", "REGIAO", "CONSUMO_T"}

// ConsumoCimento é uma linha do formato longo: um registro por (ano, mês, estado).
type ConsumoCimento struct {
	Ano      string `json:"ano" csv:"ANO"`
	Mes      string `json:"mes" csv:"MES"`
	Estado   string `json:"estado" csv:"ESTADO"`
	Regiao   string `json:"regiao" csv:"REGIAO"`
	ConsumoT string `json:"consumo_t" csv:"CONSUMO_T"`
}

// Record devolve os campos na ordem de ColunasConsumoCimento.
func (c ConsumoCimento) Record() []string {
	return []string{c.Ano, c.Mes, c.Estado, c.Regiao, c.ConsumoT}
}
