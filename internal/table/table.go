// Package table holds the in-memory result tables the pipelines build and
// the CSV / spreadsheet renderings of them.
package table

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Table is an ordered set of rows under fixed column headers.
type Table struct {
	headers []string
	rows    [][]string
}

// New creates a table with the given column headers.
func New(headers ...string) *Table {
	return &Table{headers: append([]string(nil), headers...)}
}

// Headers returns the column headers in order.
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Append adds a row. Short rows are padded, long rows rejected.
func (t *Table) Append(values ...string) error {
	if len(values) > len(t.headers) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.headers))
	}
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
	return nil
}

// Row returns the i-th data row.
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Records returns the header row followed by all data rows, the shape both
// the CSV writer and the Sheets values payload want.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.rows)+1)
	records = append(records, t.Headers())
	for _, row := range t.rows {
		records = append(records, append([]string(nil), row...))
	}
	return records
}

// SheetValues converts the table to the [][]interface{} shape the Google
// Sheets values API takes.
func (t *Table) SheetValues() [][]interface{} {
	records := t.Records()
	values := make([][]interface{}, len(records))
	for i, record := range records {
		row := make([]interface{}, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		values[i] = row
	}
	return values
}

// WriteCSV writes the table to path, creating parent directories.
func (t *Table) WriteCSV(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create backup folder: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
