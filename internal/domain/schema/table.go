package schema

import (
	"fmt"

	"github.com/leengari/csvindex/internal/domain/data"
	"github.com/leengari/csvindex/internal/domain/errors"
)

// Table represents a loaded dataset: header order plus rows in file order
type Table struct {
	Name    string
	Path    string // file the table was loaded from
	Columns []string
	Rows    []data.Row
}

// NewTable creates an empty table with the given header
func NewTable(name, path string, columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{
		Name:    name,
		Path:    path,
		Columns: cols,
		Rows:    make([]data.Row, 0),
	}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// ColumnPosition returns the header position of name, or -1
func (t *Table) ColumnPosition(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether name is in the header
func (t *Table) HasColumn(name string) bool {
	return t.ColumnPosition(name) >= 0
}

// AddColumn appends name to the end of the header.
// Existing rows are left without a value for it until the caller fills them.
func (t *Table) AddColumn(name string) error {
	if t.HasColumn(name) {
		return &errors.ColumnExistsError{
			TableName:  t.Name,
			ColumnName: name,
		}
	}
	t.Columns = append(t.Columns, name)
	return nil
}

// Append adds a row at the end of the table
func (t *Table) Append(row data.Row) {
	t.Rows = append(t.Rows, row)
}

// SetColumn stores values[i] under name in row i.
// values must hold exactly one entry per row.
func (t *Table) SetColumn(name string, values []interface{}) error {
	if !t.HasColumn(name) {
		return &errors.ColumnNotFoundError{
			TableName:  t.Name,
			ColumnName: name,
		}
	}
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %s: got %d values for %d rows", name, len(values), len(t.Rows))
	}
	for i := range t.Rows {
		t.Rows[i].Set(name, values[i])
	}
	return nil
}
