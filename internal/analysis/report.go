// Package analysis summarizes a cleaned statement table for humans: per-column
// descriptive statistics, robust outlier counts, the strongest correlations,
// and what the cleaning pipeline changed along the way.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// LabelColumn is the optional column used to label rows.
const LabelColumn = "company_name"

// Options controls report contents.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// OutlierThreshold is the robust |z| above which a value counts as an
	// outlier. 0 disables outlier detection.
	OutlierThreshold float64
	// Correlations computes Pearson correlations among columns.
	Correlations bool
	// MaxCorrPairs limits how many pairs are listed, strongest first.
	MaxCorrPairs int
}

// DefaultOptions returns reasonable defaults for statement reports.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		OutlierThreshold: 3.5,
		Correlations:     true,
		MaxCorrPairs:     10,
	}
}

// Report is a markdown-friendly description of one cleaned table.
type Report struct {
	Name    string
	RowsIn  int
	ColsIn  int
	Rows    int
	Cols    []ColumnSummary
	Labels  []string
	Samples [][]string
	Corr    []PairCorr

	Renames        []cleaning.Rename
	Dropped        []string
	PercentCols    []string
	DuplicateRows  int
	EmptyRows      int
	LateDuplicates int
	Expanded       int
	Sanitized      int
	Warnings       []string
}

// ColumnSummary captures statistics per column.
type ColumnSummary struct {
	Name   string
	Count  int
	Zeros  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
	// Outliers (robust Z via MAD)
	OutliersCount   int
	OutliersMaxAbsZ float64
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// RowLabels returns one label per row: the company_name cell when that column
// exists, otherwise the positional index.
func RowLabels(t table.Table) []string {
	n := t.NumRows()
	labels := make([]string, n)
	col, ok := t.Column(LabelColumn)
	for i := 0; i < n; i++ {
		if ok {
			labels[i] = col.Cells[i].String()
			continue
		}
		labels[i] = strconv.Itoa(i)
	}
	return labels
}

// Build summarizes a cleaned table together with the stats of the run that
// produced it.
func Build(t table.Table, st cleaning.Stats, opt Options) *Report {
	rep := &Report{
		Name:           t.Name,
		RowsIn:         st.InputRows,
		ColsIn:         st.InputCols,
		Rows:           t.NumRows(),
		Labels:         RowLabels(t),
		Renames:        st.Renames,
		Dropped:        st.Filter.DroppedColumns,
		PercentCols:    st.PercentColumns(),
		DuplicateRows:  st.Filter.DuplicateRows,
		EmptyRows:      st.Filter.EmptyRows,
		LateDuplicates: st.LateDuplicates,
		Expanded:       st.ExpandedCells,
		Sanitized:      st.SanitizedCells,
	}
	if rep.Name == "" {
		rep.Name = st.Table
	}
	if st.Skipped {
		rep.Warnings = append(rep.Warnings, "input had no rows or no columns; returned unchanged")
	}
	if t.NumCols() == 0 && !st.Skipped {
		rep.Warnings = append(rep.Warnings, "every column was dropped by the fill-ratio filter")
	}

	series := make([][]float64, len(t.Columns))
	for i, c := range t.Columns {
		series[i] = numbers(c)
		rep.Cols = append(rep.Cols, summarize(c.Name, series[i], opt.OutlierThreshold))
	}
	if opt.Correlations {
		rep.Corr = correlations(t.Header(), series, opt.MaxCorrPairs)
	}

	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < t.NumRows() && i < sampleRows; i++ {
		row := make([]string, 0, t.NumCols()+1)
		row = append(row, rep.Labels[i])
		for _, c := range t.Row(i) {
			row = append(row, c.String())
		}
		rep.Samples = append(rep.Samples, row)
	}
	return rep
}

// numbers extracts the finite numeric values of a column.
func numbers(c table.Column) []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.IsNumber() && !math.IsNaN(cell.Num) && !math.IsInf(cell.Num, 0) {
			out = append(out, cell.Num)
		}
	}
	return out
}

func summarize(name string, vals []float64, threshold float64) ColumnSummary {
	cs := ColumnSummary{Name: name, Count: len(vals)}
	if len(vals) == 0 {
		return cs
	}
	for _, v := range vals {
		if v == 0 {
			cs.Zeros++
		}
	}
	data := stats.Float64Data(vals)
	cs.Min, _ = stats.Min(data)
	cs.Max, _ = stats.Max(data)
	cs.Mean, _ = stats.Mean(data)
	cs.Median, _ = stats.Median(data)
	cs.Std, _ = stats.StandardDeviation(data)

	if threshold > 0 && len(vals) >= 3 {
		mad, err := stats.MedianAbsoluteDeviation(data)
		if err == nil && mad > 0 {
			for _, v := range vals {
				z := 0.6745 * (v - cs.Median) / mad
				if az := math.Abs(z); az > threshold {
					cs.OutliersCount++
					if az > cs.OutliersMaxAbsZ {
						cs.OutliersMaxAbsZ = az
					}
				}
			}
		}
	}
	return cs
}

// correlations returns the strongest column pairs by |r|. Pairs involving a
// constant column have no defined correlation and are skipped.
func correlations(names []string, series [][]float64, limit int) []PairCorr {
	var pairs []PairCorr
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			a, b := series[i], series[j]
			if len(a) < 3 || len(a) != len(b) || constant(a) || constant(b) {
				continue
			}
			r, err := stats.Pearson(a, b)
			if err != nil || math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}
			pairs = append(pairs, PairCorr{A: names[i], B: names[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func constant(vals []float64) bool {
	for _, v := range vals[1:] {
		if v != vals[0] {
			return false
		}
	}
	return true
}

// Markdown renders a compact report suitable for standalone docs.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d (input %d)\n", r.Rows, r.RowsIn))
	b.WriteString(fmt.Sprintf("Columns: %d (input %d)\n\n", len(r.Cols), r.ColsIn))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		b.WriteString(fmt.Sprintf("- %s: numeric (n %d, zeros %d)", safeName(c.Name), c.Count, c.Zeros))
		if c.Count > 0 {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, median %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Median, c.Std))
		}
		if c.OutliersCount > 0 {
			b.WriteString(fmt.Sprintf("; outliers: %d (max |z|≈%.2f)", c.OutliersCount, c.OutliersMaxAbsZ))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[CLEANING]\n")
	for _, rn := range r.Renames {
		b.WriteString(fmt.Sprintf("- renamed %q → %s\n", rn.From, safeName(rn.To)))
	}
	if len(r.Dropped) > 0 {
		b.WriteString(fmt.Sprintf("- dropped sparse columns: %s\n", strings.Join(r.Dropped, ", ")))
	}
	if len(r.PercentCols) > 0 {
		b.WriteString(fmt.Sprintf("- percent columns scaled by 1/100: %s\n", strings.Join(r.PercentCols, ", ")))
	}
	b.WriteString(fmt.Sprintf("- duplicate rows removed: %d\n", r.DuplicateRows+r.LateDuplicates))
	b.WriteString(fmt.Sprintf("- empty rows removed: %d\n", r.EmptyRows))
	b.WriteString(fmt.Sprintf("- unit-suffixed cells expanded: %d\n", r.Expanded))
	b.WriteString(fmt.Sprintf("- cells zero-filled: %d\n", r.Sanitized))

	if len(r.Corr) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	if len(r.Samples) > 0 {
		b.WriteString("\n[HEAD AND SAMPLE ROWS]\n")
		b.WriteString("| row")
		for _, c := range r.Cols {
			b.WriteString(" | ")
			b.WriteString(safeName(c.Name))
		}
		b.WriteString(" |\n|")
		for i := 0; i <= len(r.Cols); i++ {
			b.WriteString(" --- |")
		}
		b.WriteString("\n")
		for _, row := range r.Samples {
			b.WriteString("| ")
			for i, v := range row {
				if i > 0 {
					b.WriteString(" | ")
				}
				b.WriteString(safeVal(v))
			}
			b.WriteString(" |\n")
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}
func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
