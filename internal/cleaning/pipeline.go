package cleaning

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// Stats describes one pipeline run.
type Stats struct {
	Table      string
	InputRows  int
	InputCols  int
	OutputRows int
	OutputCols int
	Renames    []Rename
	Columns    []ColumnReport
	Filter     FilterReport
	// ExpandedCells counts unit-suffixed cells converted to numbers.
	ExpandedCells int
	// SanitizedCells counts null, NaN, infinite or leftover text cells set to zero.
	SanitizedCells int
	// LateDuplicates counts rows that only became identical after expansion and zero-filling.
	LateDuplicates int
	// Skipped is set when the input had no rows or no columns.
	Skipped bool
}

// PercentColumns lists columns that were scaled by 1/100.
func (s Stats) PercentColumns() []string {
	var out []string
	for _, c := range s.Columns {
		if c.Percent {
			out = append(out, c.Name)
		}
	}
	return out
}

// Pipeline runs the cleaning stages in their fixed order. It holds only
// read-only configuration and is safe for concurrent use.
type Pipeline struct {
	opts    Options
	coercer *Coercer
	logger  *slog.Logger
}

// New builds a Pipeline.
func New(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		opts:    opts,
		coercer: NewCoercer(opts.ExtraCurrencySymbols),
		logger:  logger,
	}
}

// Run cleans one table. See RunWithStats.
func (p *Pipeline) Run(t table.Table) (table.Table, error) {
	out, _, err := p.RunWithStats(t)
	return out, err
}

// RunWithStats cleans one table and reports what each stage changed.
//
// A table with no rows or no columns is returned unchanged. Otherwise the
// stages run as: normalize names, coerce, quality filter, expand units,
// sanitize. Sanitation replaces NaN, ±Inf, null and any leftover text with 0,
// then duplicate rows are dropped once more because zero-filling can make
// distinct rows identical; without that pass a second run would not be a no-op.
//
// The only error is a structurally invalid table (columns of unequal length).
func (p *Pipeline) RunWithStats(t table.Table) (table.Table, Stats, error) {
	st := Stats{Table: t.Name, InputRows: t.NumRows(), InputCols: t.NumCols()}
	if err := t.Validate(); err != nil {
		return table.Table{}, st, fmt.Errorf("clean %s: %w", t.Name, err)
	}
	if t.IsEmpty() {
		st.Skipped = true
		st.OutputRows, st.OutputCols = st.InputRows, st.InputCols
		return t.Clone(), st, nil
	}
	log := p.logger.With("table", t.Name)

	out, renames := NormalizeNames(t)
	st.Renames = renames

	out, st.Columns = p.coercer.Coerce(out)
	if pc := st.PercentColumns(); len(pc) > 0 {
		log.Debug("scaled percent columns", "columns", pc)
	}

	out, st.Filter = Filter(out, p.opts.MinFillRatio)
	if len(st.Filter.DroppedColumns) > 0 {
		log.Debug("dropped sparse columns", "columns", st.Filter.DroppedColumns, "min_non_null", st.Filter.MinNonNull)
	}
	if st.Filter.DuplicateRows > 0 || st.Filter.EmptyRows > 0 {
		log.Debug("dropped rows", "duplicates", st.Filter.DuplicateRows, "empty", st.Filter.EmptyRows)
	}

	out, st.ExpandedCells = Expand(out)

	out, st.SanitizedCells = Sanitize(out)
	out, st.LateDuplicates = DropDuplicateRows(out)

	st.OutputRows, st.OutputCols = out.NumRows(), out.NumCols()
	log.Debug("cleaned table",
		"rows_in", st.InputRows, "cols_in", st.InputCols,
		"rows_out", st.OutputRows, "cols_out", st.OutputCols,
		"expanded", st.ExpandedCells, "sanitized", st.SanitizedCells)
	return out, st, nil
}

// Sanitize returns a fully dense numeric copy of t: null, NaN, ±Inf and text
// cells become 0. The second result counts replaced cells.
func Sanitize(t table.Table) (table.Table, int) {
	out := t.Clone()
	n := 0
	for j := range out.Columns {
		cells := out.Columns[j].Cells
		for i, c := range cells {
			if c.IsNumber() && !math.IsNaN(c.Num) && !math.IsInf(c.Num, 0) {
				continue
			}
			cells[i] = table.Number(0)
			n++
		}
	}
	return out, n
}
