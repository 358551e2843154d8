package cleaning

import (
	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// ExpandColumn replaces text cells such as "12.5 lakh" or "2 cr" with their
// base-unit value. Text that does not match passes through unchanged; numeric
// and null cells are never touched.
func ExpandColumn(col table.Column) (table.Column, int) {
	out := col.Clone()
	n := 0
	for i, cell := range out.Cells {
		if !cell.IsText() {
			continue
		}
		sc, ok := ParseScaled(cell.Text)
		if !ok {
			continue
		}
		out.Cells[i] = table.Number(sc.Value())
		n++
	}
	return out, n
}

// Expand applies ExpandColumn to every column still holding text.
func Expand(t table.Table) (table.Table, int) {
	out := table.Table{Name: t.Name, Columns: make([]table.Column, len(t.Columns))}
	total := 0
	for i, col := range t.Columns {
		if !col.HasText() {
			out.Columns[i] = col.Clone()
			continue
		}
		var n int
		out.Columns[i], n = ExpandColumn(col)
		total += n
	}
	return out, total
}
