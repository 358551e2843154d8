package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a Cell holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "null"
	}
}

// Cell is a single table value: null, a float64, or raw text.
type Cell struct {
	Kind Kind
	Num  float64
	Text string
}

// Null returns the missing-value marker.
func Null() Cell { return Cell{} }

// Number wraps a numeric value.
func Number(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// Text wraps raw, not yet interpreted text.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

func (c Cell) IsNull() bool   { return c.Kind == KindNull }
func (c Cell) IsNumber() bool { return c.Kind == KindNumber }
func (c Cell) IsText() bool   { return c.Kind == KindText }

// Equal compares kind and payload. Two NaN numbers are equal, matching how
// duplicate detection treats missing numeric values.
func (c Cell) Equal(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case KindNumber:
		return c.Num == o.Num || (math.IsNaN(c.Num) && math.IsNaN(o.Num))
	case KindText:
		return c.Text == o.Text
	default:
		return true
	}
}

// String formats the cell for output. Nulls render empty; numbers use the
// shortest representation that round-trips, without exponent.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText:
		return c.Text
	default:
		return ""
	}
}

func (c Cell) writeKey(b *strings.Builder) {
	switch c.Kind {
	case KindNumber:
		b.WriteString("\x00f")
		if math.IsNaN(c.Num) {
			b.WriteString("NaN")
		} else if c.Num == 0 {
			b.WriteString("0")
		} else {
			b.WriteString(strconv.FormatFloat(c.Num, 'g', -1, 64))
		}
	case KindText:
		b.WriteString("\x00s")
		b.WriteString(strconv.Itoa(len(c.Text)))
		b.WriteByte(':')
		b.WriteString(c.Text)
	default:
		b.WriteString("\x00n")
	}
}
