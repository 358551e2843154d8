package table

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecordsPadsAndNullsBlanks(t *testing.T) {
	tbl := FromRecords("acme", []string{"a", "b", "c"}, [][]string{
		{"1", " ", "x"},
		{"2"},
	})
	require.NoError(t, tbl.Validate())
	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 3, tbl.NumCols())
	assert.True(t, tbl.Columns[1].Cells[0].IsNull())
	assert.True(t, tbl.Columns[2].Cells[1].IsNull())
	assert.Equal(t, Text("x"), tbl.Columns[2].Cells[0])
	assert.Equal(t, 0, tbl.Columns[1].NonNull())
	assert.Equal(t, 1, tbl.Columns[2].NonNull())
}

func TestValidateRagged(t *testing.T) {
	tbl := Table{Columns: []Column{
		{Name: "a", Cells: []Cell{Number(1), Number(2)}},
		{Name: "b", Cells: []Cell{Number(1)}},
	}}
	err := tbl.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRagged))
}

func TestRowKeyDistinguishesKinds(t *testing.T) {
	tbl := Table{Columns: []Column{
		{Name: "a", Cells: []Cell{Number(1), Text("1"), Null(), Number(math.NaN()), Number(math.NaN())}},
	}}
	keys := map[string]int{}
	for i := 0; i < tbl.NumRows(); i++ {
		keys[tbl.RowKey(i)]++
	}
	// NaN rows collapse onto one key; everything else stays distinct.
	assert.Len(t, keys, 4)
}

func TestRowKeyNegativeZero(t *testing.T) {
	tbl := Table{Columns: []Column{
		{Name: "a", Cells: []Cell{Number(0), Number(math.Copysign(0, -1))}},
	}}
	assert.Equal(t, tbl.RowKey(0), tbl.RowKey(1))
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "1200000000", Number(1.2e9).String())
	assert.Equal(t, "0.15", Number(0.15).String())
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "abc", Text("abc").String())
}

func TestCloneIsDeep(t *testing.T) {
	orig := Table{Name: "x", Columns: []Column{{Name: "a", Cells: []Cell{Number(1)}}}}
	cp := orig.Clone()
	cp.Columns[0].Cells[0] = Number(2)
	assert.Equal(t, 1.0, orig.Columns[0].Cells[0].Num)
	assert.False(t, orig.Equal(cp))
}

func TestSelectRowsAndRecords(t *testing.T) {
	tbl := FromRecords("t", []string{"a", "b"}, [][]string{{"1", "x"}, {"2", "y"}, {"3", ""}})
	sel := tbl.SelectRows([]int{2, 0})
	assert.Equal(t, [][]string{{"3", ""}, {"1", "x"}}, sel.Records())
	assert.Equal(t, []string{"a", "b"}, sel.Header())
	c, ok := sel.Column("b")
	require.True(t, ok)
	assert.Equal(t, 1, c.NonNull())
}
