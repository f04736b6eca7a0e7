package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MissingFileError indica que não há planilha .xlsx no diretório de dados brutos.
type MissingFileError struct {
	Dir string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("nenhum arquivo Excel encontrado em %s", e.Dir)
}

// RawSheet é a grade de texto de uma aba; o nome da aba é o ano.
type RawSheet struct {
	Name string
	Rows [][]string
}

// findLatestSpreadsheet devolve o .xlsx modificado mais recentemente em dir.
func findLatestSpreadsheet(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &MissingFileError{Dir: dir}
		}
		return "", fmt.Errorf("erro ao ler diretório %s: %w", dir, err)
	}

	type candidato struct {
		path  string
		mtime int64
	}
	var files []candidato
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xlsx") {
			continue
		}
		// arquivos de bloqueio do Excel aberto
		if strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidato{
			path:  filepath.Join(dir, entry.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}

	if len(files) == 0 {
		return "", &MissingFileError{Dir: dir}
	}

	// Mais recente primeiro; empate resolvido pelo nome para manter o resultado estável
	sort.Slice(files, func(i, j int) bool {
		if files[i].mtime == files[j].mtime {
			return files[i].path > files[j].path
		}
		return files[i].mtime > files[j].mtime
	})
	return files[0].path, nil
}

// loadSheets lê todas as abas do arquivo, na ordem em que aparecem na pasta de trabalho.
func loadSheets(path string) ([]RawSheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir planilha %s: %w", path, err)
	}
	defer f.Close()

	var sheets []RawSheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("erro ao ler aba %s: %w", name, err)
		}
		sheets = append(sheets, RawSheet{Name: name, Rows: rows})
	}
	return sheets, nil
}
