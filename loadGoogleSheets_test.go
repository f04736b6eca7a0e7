package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheetsAPI imita os endpoints da API do Sheets usados na carga.
type fakeSheetsAPI struct {
	mu       sync.Mutex
	abas     []string
	chamadas []string
	addSheet *sheets.AddSheetRequest
	values   *sheets.ValueRange
	input    string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet:
		f.chamadas = append(f.chamadas, "get")
		ss := sheets.Spreadsheet{SpreadsheetId: "planilha"}
		for _, aba := range f.abas {
			ss.Sheets = append(ss.Sheets, &sheets.Sheet{Properties: &sheets.SheetProperties{Title: aba}})
		}
		json.NewEncoder(w).Encode(ss)
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.chamadas = append(f.chamadas, "clear")
		json.NewEncoder(w).Encode(sheets.ClearValuesResponse{})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		f.chamadas = append(f.chamadas, "batchUpdate")
		var req sheets.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Requests) > 0 {
			f.addSheet = req.Requests[0].AddSheet
		}
		json.NewEncoder(w).Encode(sheets.BatchUpdateSpreadsheetResponse{})
	case r.Method == http.MethodPut:
		f.chamadas = append(f.chamadas, "update")
		f.input = r.URL.Query().Get("valueInputOption")
		var vr sheets.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		f.values = &vr
		json.NewEncoder(w).Encode(sheets.UpdateValuesResponse{})
	default:
		http.NotFound(w, r)
	}
}

func newFakeSheetsService(t *testing.T, api *fakeSheetsAPI) *sheets.Service {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(ts.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return srv
}

func writeProcessedCSV(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	content := string(utf8BOM) +
		"ANO,MES,ESTADO,REGIAO,CONSUMO_T\n" +
		"2021,JAN,ACRE,NORTE,\"10,5\"\n" +
		"2021,FEV,EXTERIOR,,0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestReadProcessedCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tratado.csv")
	writeProcessedCSV(t, path)

	df, err := readProcessedCSV(path)
	require.NoError(t, err)

	// BOM descartado, tudo como texto
	assert.Equal(t, []string{"ANO", "MES", "ESTADO", "REGIAO", "CONSUMO_T"}, df.Names())
	assert.Equal(t, [][]interface{}{
		{"ANO", "MES", "ESTADO", "REGIAO", "CONSUMO_T"},
		{"2021", "JAN", "ACRE", "NORTE", "10,5"},
		{"2021", "FEV", "EXTERIOR", "", "0"},
	}, buildSheetValues(df))
}

func TestPublishToSheet_NewTab(t *testing.T) {
	api := &fakeSheetsAPI{abas: []string{"Outra"}}
	srv := newFakeSheetsService(t, api)
	values := [][]interface{}{{"ANO", "MES"}, {"2021", "JAN"}}

	err := publishToSheet(context.Background(), srv, "planilha", "consumo", values)
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "batchUpdate", "update"}, api.chamadas)
	require.NotNil(t, api.addSheet)
	assert.Equal(t, "consumo", api.addSheet.Properties.Title)
	assert.Equal(t, int64(12), api.addSheet.Properties.GridProperties.RowCount)
	assert.Equal(t, int64(7), api.addSheet.Properties.GridProperties.ColumnCount)
	assert.Equal(t, "RAW", api.input)
	require.NotNil(t, api.values)
	assert.Len(t, api.values.Values, 2)
}

func TestPublishToSheet_ExistingTab(t *testing.T) {
	api := &fakeSheetsAPI{abas: []string{"consumo"}}
	srv := newFakeSheetsService(t, api)

	err := publishToSheet(context.Background(), srv, "planilha", "consumo", [][]interface{}{{"ANO"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"get", "clear", "update"}, api.chamadas)
	assert.Nil(t, api.addSheet)
}

func TestLoadToGoogleSheets_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)

	err := loadToGoogleSheets(context.Background(), cfg)
	assert.ErrorContains(t, err, "configuração inválida")
}

func TestA1Sheet(t *testing.T) {
	assert.Equal(t, "'consumo'", a1Sheet("consumo"))
	assert.Equal(t, "'d''água'", a1Sheet("d'água"))
}
