package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

func textColumn(name string, vals ...string) table.Column {
	cells := make([]table.Cell, len(vals))
	for i, v := range vals {
		if v == "" {
			cells[i] = table.Null()
			continue
		}
		cells[i] = table.Text(v)
	}
	return table.Column{Name: name, Cells: cells}
}

func numbers(t *testing.T, col table.Column) []float64 {
	t.Helper()
	out := make([]float64, len(col.Cells))
	for i, c := range col.Cells {
		require.True(t, c.IsNumber(), "cell %d is %s", i, c.Kind)
		out[i] = c.Num
	}
	return out
}

func TestCoerceColumnPercent(t *testing.T) {
	c := NewCoercer(nil)

	out, rep := c.CoerceColumn(textColumn("growth", "15%", "20%"))
	assert.InDeltaSlice(t, []float64{0.15, 0.20}, numbers(t, out), 1e-12)
	assert.True(t, rep.Percent)

	out, _ = c.CoerceColumn(textColumn("growth", "15%", "30"))
	assert.InDeltaSlice(t, []float64{0.15, 0.30}, numbers(t, out), 1e-12)
}

func TestCoerceColumnPercentIgnoresNulls(t *testing.T) {
	out, rep := NewCoercer(nil).CoerceColumn(textColumn("margin", "12%", "nan", ""))
	require.True(t, rep.Percent)
	assert.InDelta(t, 0.12, out.Cells[0].Num, 1e-12)
	assert.True(t, out.Cells[1].IsNull())
	assert.True(t, out.Cells[2].IsNull())
	assert.Equal(t, 1, rep.Parsed)
	assert.Equal(t, 1, rep.Nulled)
}

func TestCoerceColumnCurrencyAndFailures(t *testing.T) {
	out, rep := NewCoercer(nil).CoerceColumn(textColumn("revenue", "₹1,200.50", "Rs. 300", "n/a", "nan"))
	assert.Equal(t, table.Number(1200.50), out.Cells[0])
	assert.Equal(t, table.Number(300), out.Cells[1])
	assert.True(t, out.Cells[2].IsNull())
	assert.True(t, out.Cells[3].IsNull())
	assert.Equal(t, ColumnReport{Name: "revenue", Coerced: true, Parsed: 2, Nulled: 2}, rep)
}

func TestCoerceColumnDefersScaledCells(t *testing.T) {
	out, rep := NewCoercer(nil).CoerceColumn(textColumn("revenue", "₹120 cr", "45"))
	assert.Equal(t, table.Text("120 cr"), out.Cells[0])
	assert.Equal(t, table.Number(45), out.Cells[1])
	assert.Equal(t, 1, rep.Deferred)
}

func TestCoerceColumnSkipsNumericColumns(t *testing.T) {
	col := table.Column{Name: "x", Cells: []table.Cell{table.Number(15), table.Null(), table.Number(30)}}
	out, rep := NewCoercer(nil).CoerceColumn(col)
	assert.False(t, rep.Coerced)
	assert.Equal(t, col, out)

	out.Cells[0] = table.Number(99)
	assert.Equal(t, 15.0, col.Cells[0].Num, "returned column must be a copy")
}

func TestCoerceTable(t *testing.T) {
	in := table.FromRecords("acme", []string{"name", "eps"}, [][]string{{"Acme", "1.5"}, {"Beta", "-0.5"}})
	out, reps := NewCoercer(nil).Coerce(in)
	require.Len(t, reps, 2)
	assert.Equal(t, 0, out.Columns[0].NonNull())
	assert.Equal(t, []float64{1.5, -0.5}, numbers(t, out.Columns[1]))
	assert.True(t, in.Columns[1].Cells[0].IsText(), "input must not be mutated")
}
