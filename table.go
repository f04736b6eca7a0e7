package main

import "fmt"

// Table é uma tabela orientada a linhas: nomes de colunas e linhas de texto.
// Toda linha tem exatamente len(Columns) células.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex devolve a posição da coluna ou -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Nrow é o número de linhas.
func (t *Table) Nrow() int {
	return len(t.Rows)
}

// InsertColumn insere uma coluna na posição pos, preenchida com fill.
func (t *Table) InsertColumn(pos int, name, fill string) {
	t.Columns = insertAt(t.Columns, pos, name)
	for i, row := range t.Rows {
		t.Rows[i] = insertAt(row, pos, fill)
	}
}

// DropColumns remove as colunas cujos índices estão em idx.
func (t *Table) DropColumns(idx map[int]bool) {
	if len(idx) == 0 {
		return
	}
	keep := func(cells []string) []string {
		out := make([]string, 0, len(cells)-len(idx))
		for i, c := range cells {
			if !idx[i] {
				out = append(out, c)
			}
		}
		return out
	}
	t.Columns = keep(t.Columns)
	for i, row := range t.Rows {
		t.Rows[i] = keep(row)
	}
}

// Filter mantém só as linhas para as quais keep devolve true, preservando a ordem.
func (t *Table) Filter(keep func(row []string) bool) {
	out := t.Rows[:0]
	for _, row := range t.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	t.Rows = out
}

// Melt faz o unpivot de valueCols contra idCols, resolvendo as colunas pelo nome.
// Com cabeçalhos repetidos vale a primeira ocorrência; use MeltAt para escolher por posição.
func (t *Table) Melt(idCols, valueCols []string, varName, valueName string) (Table, error) {
	idIdx, err := t.indexes(idCols)
	if err != nil {
		return Table{}, err
	}
	valIdx, err := t.indexes(valueCols)
	if err != nil {
		return Table{}, err
	}
	return t.MeltAt(idIdx, valIdx, varName, valueName)
}

// MeltAt faz o unpivot pelas posições das colunas. Para cada linha original são
// emitidas len(valIdx) linhas, na ordem de valIdx; varName recebe o nome da coluna.
func (t *Table) MeltAt(idIdx, valIdx []int, varName, valueName string) (Table, error) {
	for _, i := range append(append([]int{}, idIdx...), valIdx...) {
		if i < 0 || i >= len(t.Columns) {
			return Table{}, fmt.Errorf("coluna na posição %d não existe", i)
		}
	}

	cols := make([]string, 0, len(idIdx)+2)
	for _, ii := range idIdx {
		cols = append(cols, t.Columns[ii])
	}
	cols = append(cols, varName, valueName)

	out := Table{Columns: cols, Rows: make([][]string, 0, len(t.Rows)*len(valIdx))}
	for _, row := range t.Rows {
		for _, vi := range valIdx {
			melted := make([]string, 0, len(cols))
			for _, ii := range idIdx {
				melted = append(melted, row[ii])
			}
			melted = append(melted, t.Columns[vi], row[vi])
			out.Rows = append(out.Rows, melted)
		}
	}
	return out, nil
}

func (t *Table) indexes(names []string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = t.ColumnIndex(n)
		if idx[i] < 0 {
			return nil, fmt.Errorf("coluna %q não encontrada", n)
		}
	}
	return idx, nil
}

func insertAt(s []string, pos int, v string) []string {
	out := make([]string, 0, len(s)+1)
	out = append(out, s[:pos]...)
	out = append(out, v)
	return append(out, s[pos:]...)
}
