package cleaning

import (
	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// ColumnReport summarizes what coercion did to one column.
type ColumnReport struct {
	Name string
	// Coerced is false for columns that held no raw text and were left alone.
	Coerced bool
	Parsed  int
	// Deferred counts unit-suffixed cells kept as text for the unit expander.
	Deferred int
	// Nulled counts text cells that did not parse.
	Nulled int
	// Percent is set when the column was divided by 100.
	Percent bool
}

// Coercer converts raw text cells into numbers.
type Coercer struct {
	tok *Tokenizer
}

// NewCoercer returns a Coercer that also strips the given currency symbols.
func NewCoercer(extraCurrency []string) *Coercer {
	return &Coercer{tok: NewTokenizer(extraCurrency)}
}

// CoerceColumn parses every text cell of col. Cells that fail to parse become
// null. Cells holding a magnitude-suffixed literal stay as cleaned text so the
// unit expander can pick them up later. Columns without text are returned as is.
//
// If any text cell carried a percent marker, every numeric value in the column
// is divided by 100, including values that had no marker of their own. A
// column mixing "15%" and "30" therefore yields 0.15 and 0.30.
func (c *Coercer) CoerceColumn(col table.Column) (table.Column, ColumnReport) {
	rep := ColumnReport{Name: col.Name}
	if !col.HasText() {
		return col.Clone(), rep
	}
	rep.Coerced = true
	out := table.Column{Name: col.Name, Cells: make([]table.Cell, len(col.Cells))}
	for i, cell := range col.Cells {
		if !cell.IsText() {
			out.Cells[i] = cell
			continue
		}
		tok := c.tok.Scan(cell.Text)
		if tok.Percent {
			rep.Percent = true
		}
		switch tok.Kind {
		case TokenNumber:
			out.Cells[i] = table.Number(tok.Value)
			rep.Parsed++
		case TokenScaled:
			out.Cells[i] = table.Text(tok.Residual)
			rep.Deferred++
		default:
			out.Cells[i] = table.Null()
			rep.Nulled++
		}
	}
	if rep.Percent {
		for i, cell := range out.Cells {
			if cell.IsNumber() {
				out.Cells[i] = table.Number(cell.Num / 100)
			}
		}
	}
	return out, rep
}

// Coerce applies CoerceColumn to every column of t.
func (c *Coercer) Coerce(t table.Table) (table.Table, []ColumnReport) {
	out := table.Table{Name: t.Name, Columns: make([]table.Column, len(t.Columns))}
	reports := make([]ColumnReport, len(t.Columns))
	for i, col := range t.Columns {
		out.Columns[i], reports[i] = c.CoerceColumn(col)
	}
	return out, reports
}
