// Package analysis turns uploaded tabular data into descriptive
// motorsport insights and chart series.
package analysis

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Table is a parsed CSV file: a header plus rows normalized to the
// header's width.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ParseCSV reads comma-separated data into a Table. Ragged rows are
// padded or truncated to the header width rather than rejected.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty CSV file")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	width := len(header)
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		row := make([]string, width)
		copy(row, record)
		rows = append(rows, row)
	}

	return &Table{Columns: header, Rows: rows}, nil
}

// columnIndex returns the position of a named column, or -1.
func (t *Table) columnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// numericColumn extracts the values of a column that parse as numbers.
// Unparseable cells are dropped, matching a coercing numeric cast.
func (t *Table) numericColumn(name string) []float64 {
	idx := t.columnIndex(name)
	if idx < 0 {
		return nil
	}

	values := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if v, ok := parseNumber(row[idx]); ok {
			values = append(values, v)
		}
	}
	return values
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
