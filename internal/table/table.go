// Copyright (c) 2025 Sam Butler.
// SPDX-License-Identifier: Apache-2.0

// Package table provides the in-memory result set returned by HMDA queries:
// an ordered set of named columns over string-valued rows, with CSV
// round-tripping. It is deliberately not a dataframe; callers needing
// filtering or sorting go through the output package.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Table is a rows-by-named-columns result set. Rows hold raw string values
// exactly as they appeared in the source CSV or JSON document.
type Table struct {
	columns []string
	rows    [][]string
}

// New creates an empty Table with the given column names.
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{columns: cols}
}

// FromRecords builds a Table from a slice of records, using the provided
// column order. Missing fields become empty strings.
func FromRecords(columns []string, records []map[string]string) *Table {
	t := New(columns)
	for _, rec := range records {
		row := make([]string, len(t.columns))
		for i, col := range t.columns {
			row[i] = rec[col]
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	for i, c := range t.columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the underlying row slice. Callers must not mutate it.
func (t *Table) Rows() [][]string {
	return t.rows
}

// Row returns row i.
func (t *Table) Row(i int) []string {
	return t.rows[i]
}

// Get returns the value at row i for the named column.
func (t *Table) Get(i int, column string) (string, bool) {
	idx, ok := t.ColumnIndex(column)
	if !ok || i < 0 || i >= len(t.rows) {
		return "", false
	}
	return t.rows[i][idx], true
}

// Append adds a row, which must match the column arity.
func (t *Table) Append(row []string) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Equal reports whether two tables have identical columns and rows.
func (t *Table) Equal(other *Table) bool {
	if other == nil || len(t.columns) != len(other.columns) || len(t.rows) != len(other.rows) {
		return false
	}
	for i, c := range t.columns {
		if other.columns[i] != c {
			return false
		}
	}
	for i, row := range t.rows {
		for j, v := range row {
			if other.rows[i][j] != v {
				return false
			}
		}
	}
	return true
}

// Read parses a CSV document. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to parse CSV: empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}

	t := New(header)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV record: %w", err)
		}
		// Tolerate ragged rows the way the upstream browser emits them:
		// short rows are padded, long rows rejected.
		if len(record) < len(t.columns) {
			padded := make([]string, len(t.columns))
			copy(padded, record)
			record = padded
		} else if len(record) > len(t.columns) {
			return nil, fmt.Errorf("CSV record has %d fields, header has %d", len(record), len(t.columns))
		}
		t.rows = append(t.rows, record)
	}

	return t, nil
}

// ReadFile parses the CSV file at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write emits the table as CSV, header first. No row-index column is added.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the table to path atomically: the document is staged in a
// temp file in the same directory and renamed into place, so a reader never
// observes a partially-written file.
func (t *Table) WriteFile(path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}

	if err := t.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close staging file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move staging file into place: %w", err)
	}

	return nil
}
