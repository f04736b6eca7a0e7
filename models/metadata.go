package models

// Metadata guarda o estado da última coleta feita no portal da CBIC.
type Metadata struct {
	UltimaColeta          *string `json:"ultima_coleta"`
	UltimaURL             *string `json:"ultima_url"`
	UltimaVersao          *string `json:"ultima_versao"`
	UltimaDataAtualizacao *string `json:"ultima_data_atualizacao"`
}
