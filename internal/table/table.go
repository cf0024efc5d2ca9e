package table

import (
	"errors"
	"fmt"
)

// ErrNoColumn is returned when a column index or name does not resolve.
var ErrNoColumn = errors.New("no such column")

// Column is a named, typed sequence of cells.
type Column struct {
	Name   string
	Type   DType
	Values []Value
}

// NewColumn builds a column from the given cells.
func NewColumn(name string, typ DType, values ...Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

func (c *Column) Len() int { return len(c.Values) }

// Table is an immutable, ordered set of equal-length columns.
type Table struct {
	name  string
	rows  int
	cols  []*Column
	index map[string]int
}

// New validates that all columns share a length and returns the table.
// Column names are indexed by first occurrence; duplicates are kept in order.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		if _, ok := t.index[c.Name]; !ok {
			t.index[c.Name] = i
		}
	}
	t.cols = cols
	return t, nil
}

// Name is the dataset label, usually the source file name.
func (t *Table) Name() string { return t.name }

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.cols) }

func (t *Table) ColumnAt(i int) (*Column, error) {
	if i < 0 || i >= len(t.cols) {
		return nil, fmt.Errorf("column index %d: %w", i, ErrNoColumn)
	}
	return t.cols[i], nil
}

func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrNoColumn)
	}
	return t.cols[i], nil
}

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}
