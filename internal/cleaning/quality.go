package cleaning

import (
	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// FilterReport records what the quality filter removed.
type FilterReport struct {
	MinNonNull     int
	DroppedColumns []string
	DuplicateRows  int
	EmptyRows      int
}

// MinNonNull returns the non-null count a column needs to be kept:
// minFillRatio × rows, truncated toward zero.
func MinNonNull(minFillRatio float64, rows int) int {
	return int(minFillRatio * float64(rows))
}

// Filter runs the three quality passes in order: sparse columns, duplicate
// rows, then all-null rows.
func Filter(t table.Table, minFillRatio float64) (table.Table, FilterReport) {
	var rep FilterReport
	rep.MinNonNull = MinNonNull(minFillRatio, t.NumRows())
	out, dropped := DropSparseColumns(t, minFillRatio)
	rep.DroppedColumns = dropped
	out, rep.DuplicateRows = DropDuplicateRows(out)
	out, rep.EmptyRows = DropEmptyRows(out)
	return out, rep
}

// DropSparseColumns removes columns with fewer than MinNonNull non-null cells.
func DropSparseColumns(t table.Table, minFillRatio float64) (table.Table, []string) {
	need := MinNonNull(minFillRatio, t.NumRows())
	out := table.Table{Name: t.Name}
	var dropped []string
	for _, c := range t.Columns {
		if c.NonNull() < need {
			dropped = append(dropped, c.Name)
			continue
		}
		out.Columns = append(out.Columns, c.Clone())
	}
	return out, dropped
}

// DropDuplicateRows keeps the first occurrence of every distinct row,
// preserving the order of survivors.
func DropDuplicateRows(t table.Table) (table.Table, int) {
	n := t.NumRows()
	seen := make(map[string]struct{}, n)
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		k := t.RowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	if len(keep) == n {
		return t.Clone(), 0
	}
	return t.SelectRows(keep), n - len(keep)
}

// DropEmptyRows removes rows in which every cell is null.
func DropEmptyRows(t table.Table) (table.Table, int) {
	n := t.NumRows()
	keep := make([]int, 0, n)
	for i := 0; i < n; i++ {
		for _, c := range t.Columns {
			if !c.Cells[i].IsNull() {
				keep = append(keep, i)
				break
			}
		}
	}
	if len(keep) == n {
		return t.Clone(), 0
	}
	return t.SelectRows(keep), n - len(keep)
}
