package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const batchSize = 1000

func connString(cfg *Config, dbName string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, dbName, cfg.DBSSLMode)
}

func conectaDB(cfg *Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", connString(cfg, cfg.DBName))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir conexão com banco de dados: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("erro ao conectar com banco de dados: %w", err)
	}
	return db, nil
}

// loadToDatabase publica o CSV tratado numa tabela Postgres, substituindo o conteúdo anterior.
func loadToDatabase(cfg *Config) error {
	if err := cfg.validate(camposBanco...); err != nil {
		return err
	}

	// 1. Cria o banco de dados se não existir
	if err := createDatabase(cfg); err != nil {
		return err
	}

	// 2. Conecta ao banco criado
	db, err := conectaDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 3. Lê o CSV tratado
	header, rows, err := readCSVForLoad(cfg.OutputPath())
	if err != nil {
		return err
	}

	// 4. Recria a tabela e importa os dados
	if err := replaceTable(db, cfg.DBTable, header, rows); err != nil {
		return err
	}

	logSuccess("✓ Banco, tabela e dados atualizados com sucesso!")
	return nil
}

// createDatabase cria o banco de dados se não existir, a partir do banco postgres padrão.
func createDatabase(cfg *Config) error {
	db, err := sql.Open("postgres", connString(cfg, "postgres"))
	if err != nil {
		return err
	}
	defer db.Close()

	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)"
	if err := db.QueryRow(query, cfg.DBName).Scan(&exists); err != nil {
		return fmt.Errorf("erro ao verificar banco %s: %w", cfg.DBName, err)
	}

	if exists {
		logInfo("✓ Banco '%s' já existe", cfg.DBName)
		return nil
	}
	if _, err := db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(cfg.DBName)); err != nil {
		return fmt.Errorf("erro ao criar banco: %w", err)
	}
	logSuccess("✓ Banco '%s' criado", cfg.DBName)
	return nil
}

// openCSV abre o CSV tratado já sem o BOM.
func openCSV(csvFile string) (*csv.Reader, io.Closer, error) {
	f, err := os.Open(csvFile)
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao abrir CSV: %w", err)
	}
	reader := csv.NewReader(transform.NewReader(f, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	reader.Comma = ','
	return reader, f, nil
}

// readCSVForLoad lê o cabeçalho e todas as linhas do CSV tratado.
func readCSVForLoad(csvFile string) ([]string, [][]string, error) {
	reader, closer, err := openCSV(csvFile)
	if err != nil {
		return nil, nil, err
	}
	defer closer.Close()
	reader.LazyQuotes = true

	return readHeaderAndSample(reader, 0)
}

// readHeaderAndSample lê o cabeçalho e até n linhas (todas, se n <= 0).
func readHeaderAndSample(reader *csv.Reader, n int) ([]string, [][]string, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("erro ao ler cabeçalho: %w", err)
	}

	sampleRows := [][]string{}
	for n <= 0 || len(sampleRows) < n {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("erro ao ler amostra: %w", err)
		}
		sampleRows = append(sampleRows, row)
	}
	return header, sampleRows, nil
}

// buildCreateTable monta o CREATE TABLE com os tipos inferidos da amostra.
func buildCreateTable(tableName string, header []string, sampleRows [][]string) (string, []string) {
	var columns []string
	types := make([]string, len(header))
	for i, colName := range header {
		types[i] = inferType(sampleRows, i)
		columns = append(columns, fmt.Sprintf("%s %s", pq.QuoteIdentifier(cleanColumnName(colName)), types[i]))
	}

	createSQL := fmt.Sprintf("CREATE TABLE %s (\n  %s\n)",
		pq.QuoteIdentifier(tableName),
		strings.Join(columns, ",\n  "))
	return createSQL, types
}

// marcas diacríticas combinantes (U+0300 a U+036F)
var diacriticos = runes.Predicate(func(r rune) bool { return r >= 0x300 && r <= 0x36f })

// cleanColumnName converte o cabeçalho em identificador: sem acentos, minúsculo, com "_".
// "REGIÃO" vira "regiao".
func cleanColumnName(name string) string {
	semAcento, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(diacriticos)), name)
	if err == nil {
		name = semAcento
	}
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)

	var result strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func isNullValue(val string) bool {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "", "null", "na", "nan", "n/a":
		return true
	}
	return false
}

// inferType tenta inferir o tipo da coluna: INTEGER, DECIMAL (vírgula ou ponto) ou TEXT.
func inferType(rows [][]string, colIndex int) string {
	isInt := true
	isFloat := true
	validValuesCount := 0

	for _, row := range rows {
		if colIndex >= len(row) || isNullValue(row[colIndex]) {
			continue
		}
		val := strings.TrimSpace(row[colIndex])
		validValuesCount++

		if _, err := strconv.ParseInt(val, 10, 32); err != nil {
			isInt = false
		}
		if strings.Count(val, ",")+strings.Count(val, ".") > 1 {
			isFloat = false
			continue
		}
		if _, err := strconv.ParseFloat(strings.ReplaceAll(val, ",", "."), 64); err != nil {
			isFloat = false
		}
	}

	switch {
	case validValuesCount == 0:
		return "TEXT"
	case isInt:
		return "INTEGER"
	case isFloat:
		return "DECIMAL"
	}
	return "TEXT"
}

// buildReplaceTable devolve os comandos que recriam a tabela com os tipos do arquivo atual.
// Uma tabela antiga pode ter tipos inferidos de outro arquivo, por isso não é reaproveitada.
func buildReplaceTable(tableName string, header []string, rows [][]string) ([]string, []string) {
	createSQL, types := buildCreateTable(tableName, header, rows)
	return []string{
		"DROP TABLE IF EXISTS " + pq.QuoteIdentifier(tableName),
		createSQL,
	}, types
}

// replaceTable recria a tabela e insere as linhas em lotes, numa única transação.
func replaceTable(db *sql.DB, tableName string, header []string, rows [][]string) error {
	stmts, types := buildReplaceTable(tableName, header, rows)

	columns := make([]string, len(header))
	for i := range header {
		columns[i] = cleanColumnName(header[i])
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("erro ao recriar tabela %s: %w", tableName, err)
		}
	}
	logInfo("✓ Tabela '%s' recriada com %d colunas", tableName, len(header))

	recordCount := 0
	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		query, values := buildInsertBatch(tableName, columns, types, rows[start:end])
		if _, err := tx.Exec(query, values...); err != nil {
			return fmt.Errorf("erro ao inserir lote a partir da linha %d: %w", start+2, err)
		}
		recordCount = end
		fmt.Printf("\r✓ Importados %d registros...", recordCount)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	fmt.Println()
	logSuccess("✓ Importados %d registros no total", recordCount)
	return nil
}

// buildInsertBatch monta um INSERT com múltiplas linhas e os parâmetros correspondentes.
// Valores nulos viram NULL; colunas DECIMAL trocam a vírgula por ponto.
func buildInsertBatch(tableName string, header, types []string, batch [][]string) (string, []interface{}) {
	quoted := make([]string, len(header))
	for i, h := range header {
		quoted[i] = pq.QuoteIdentifier(h)
	}

	var query strings.Builder
	fmt.Fprintf(&query, "INSERT INTO %s (%s) VALUES ", pq.QuoteIdentifier(tableName), strings.Join(quoted, ", "))

	values := make([]interface{}, 0, len(batch)*len(header))
	for i, record := range batch {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString("(")
		for j := range header {
			if j > 0 {
				query.WriteString(", ")
			}
			fmt.Fprintf(&query, "$%d", len(values)+1)

			val := ""
			if j < len(record) {
				val = strings.TrimSpace(record[j])
			}
			switch {
			case isNullValue(val):
				values = append(values, nil)
			case j < len(types) && types[j] == "DECIMAL":
				values = append(values, strings.ReplaceAll(val, ",", "."))
			default:
				values = append(values, val)
			}
		}
		query.WriteString(")")
	}
	return query.String(), values
}
