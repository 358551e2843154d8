// Package table holds the in-memory model shared by readers, the cleaning
// pipeline and writers: an ordered set of named columns whose cells are
// aligned on a common row index.
package table

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRagged indicates columns of different lengths within one table.
var ErrRagged = errors.New("ragged table: columns differ in length")

// Column is a named sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// NonNull counts cells that are not null.
func (c Column) NonNull() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.IsNull() {
			n++
		}
	}
	return n
}

// HasText reports whether any cell still carries raw text.
func (c Column) HasText() bool {
	for _, cell := range c.Cells {
		if cell.IsText() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the column.
func (c Column) Clone() Column {
	cells := make([]Cell, len(c.Cells))
	copy(cells, c.Cells)
	return Column{Name: c.Name, Cells: cells}
}

// Table is an ordered sequence of columns sharing one row count.
// Name identifies the source (file or company) and is used only for reporting.
type Table struct {
	Name    string
	Columns []Column
}

// FromRecords builds a table from a header and string records. Records shorter
// than the header are padded with nulls; extra trailing fields are ignored.
// Blank fields load as null, everything else as raw text.
func FromRecords(name string, header []string, records [][]string) Table {
	t := Table{Name: name, Columns: make([]Column, len(header))}
	for j, h := range header {
		t.Columns[j] = Column{Name: h, Cells: make([]Cell, len(records))}
	}
	for i, rec := range records {
		for j := range header {
			if j >= len(rec) || strings.TrimSpace(rec[j]) == "" {
				t.Columns[j].Cells[i] = Null()
				continue
			}
			t.Columns[j].Cells[i] = Text(rec[j])
		}
	}
	return t
}

// NumRows returns the shared row count (0 for a table without columns).
func (t Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// NumCols returns the number of columns.
func (t Table) NumCols() int { return len(t.Columns) }

// IsEmpty reports whether the table has no columns or no rows.
func (t Table) IsEmpty() bool { return t.NumCols() == 0 || t.NumRows() == 0 }

// Validate checks that every column has the same number of cells.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return nil
	}
	want := len(t.Columns[0].Cells)
	for _, c := range t.Columns[1:] {
		if len(c.Cells) != want {
			return fmt.Errorf("%w: column %q has %d cells, expected %d", ErrRagged, c.Name, len(c.Cells), want)
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	out := Table{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for i, c := range t.Columns {
		out.Columns[i] = c.Clone()
	}
	return out
}

// Header returns the column names in order.
func (t Table) Header() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

// Column looks up a column by exact name.
func (t Table) Column(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// Row returns the cells of row i across all columns.
func (t Table) Row(i int) []Cell {
	row := make([]Cell, len(t.Columns))
	for j, c := range t.Columns {
		row[j] = c.Cells[i]
	}
	return row
}

// RowKey returns a string that is equal for two rows exactly when all of their
// cells are equal. It is used for duplicate detection.
func (t Table) RowKey(i int) string {
	var b strings.Builder
	for _, c := range t.Columns {
		c.Cells[i].writeKey(&b)
	}
	return b.String()
}

// SelectRows returns a new table holding only the given rows, in the given order.
func (t Table) SelectRows(rows []int) Table {
	out := Table{Name: t.Name, Columns: make([]Column, len(t.Columns))}
	for j, c := range t.Columns {
		cells := make([]Cell, len(rows))
		for k, i := range rows {
			cells[k] = c.Cells[i]
		}
		out.Columns[j] = Column{Name: c.Name, Cells: cells}
	}
	return out
}

// Records renders all rows as strings, in column order.
func (t Table) Records() [][]string {
	n := t.NumRows()
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		rec := make([]string, len(t.Columns))
		for j, c := range t.Columns {
			rec[j] = c.Cells[i].String()
		}
		out[i] = rec
	}
	return out
}

// Equal reports whether two tables have the same column names and cells.
// The table names are not compared.
func (t Table) Equal(o Table) bool {
	if len(t.Columns) != len(o.Columns) {
		return false
	}
	for j := range t.Columns {
		a, b := t.Columns[j], o.Columns[j]
		if a.Name != b.Name || len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !a.Cells[i].Equal(b.Cells[i]) {
				return false
			}
		}
	}
	return true
}
