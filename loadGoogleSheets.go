package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// readProcessedCSV lê o CSV tratado como texto, descartando o BOM.
func readProcessedCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao abrir CSV %s: %w", path, err)
	}
	defer f.Close()

	reader := transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	df := dataframe.ReadCSV(reader,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues([]string{}),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("erro ao ler CSV %s: %w", path, df.Err)
	}
	return df, nil
}

// buildSheetValues converte o DataFrame em cabeçalho + linhas para a API do Sheets.
func buildSheetValues(df dataframe.DataFrame) [][]interface{} {
	records := df.Records()
	values := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		values[i] = row
	}
	return values
}

// a1Sheet devolve o nome da aba entre aspas simples para a notação A1.
func a1Sheet(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

// publishToSheet limpa a aba (ou cria, se não existir) e grava values a partir de A1.
func publishToSheet(ctx context.Context, srv *sheets.Service, spreadsheetID, tab string, values [][]interface{}) error {
	logInfo("🔗 Conectando à planilha: %s", spreadsheetID)
	ss, err := srv.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("erro ao abrir planilha %s: %w", spreadsheetID, err)
	}

	exists := false
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == tab {
			exists = true
			break
		}
	}

	if exists {
		_, err = srv.Spreadsheets.Values.Clear(spreadsheetID, a1Sheet(tab), &sheets.ClearValuesRequest{}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("erro ao limpar aba %s: %w", tab, err)
		}
		logInfo("🧹 Aba '%s' limpa com sucesso.", tab)
	} else {
		rows, cols := len(values), 0
		if rows > 0 {
			cols = len(values[0])
		}
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: tab,
						GridProperties: &sheets.GridProperties{
							RowCount:    int64(rows + 10),
							ColumnCount: int64(cols + 5),
						},
					},
				},
			}},
		}
		if _, err := srv.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("erro ao criar aba %s: %w", tab, err)
		}
		logInfo("🆕 Aba '%s' criada.", tab)
	}

	_, err = srv.Spreadsheets.Values.Update(spreadsheetID, a1Sheet(tab)+"!A1", &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("erro ao enviar dados para aba %s: %w", tab, err)
	}
	return nil
}

// loadToGoogleSheets envia o CSV tratado para a aba configurada.
func loadToGoogleSheets(ctx context.Context, cfg *Config) error {
	if err := cfg.validate(camposSheets...); err != nil {
		return err
	}

	csvPath := cfg.OutputPath()
	logInfo("📂 Lendo CSV: %s", csvPath)
	df, err := readProcessedCSV(csvPath)
	if err != nil {
		return err
	}

	logInfo("🔐 Autenticando com credenciais: %s", cfg.SheetsCredentials)
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.SheetsCredentials),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return fmt.Errorf("erro ao criar serviço do Google Sheets: %w", err)
	}

	if err := publishToSheet(ctx, srv, cfg.SheetsID, cfg.SheetsTab, buildSheetValues(df)); err != nil {
		return err
	}

	logSuccess("✅ Dados enviados com sucesso para aba '%s'!", cfg.SheetsTab)
	logInfo("📊 Total de linhas: %d", df.Nrow())
	return nil
}
