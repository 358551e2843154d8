package cleaning

import (
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// TokenKind is the outcome of scanning one cell.
type TokenKind uint8

const (
	// TokenNull means the text did not denote a quantity.
	TokenNull TokenKind = iota
	// TokenNumber is a plain numeric literal.
	TokenNumber
	// TokenScaled is a numeric literal followed by a magnitude unit ("12.5 lakh").
	TokenScaled
)

// Token is the typed result of scanning a raw cell.
type Token struct {
	Kind TokenKind
	// Value is the parsed number for TokenNumber.
	Value float64
	// Residual is the cell text after currency, separator and percent
	// stripping. For TokenScaled it is what the unit expander later consumes.
	Residual string
	// Percent is set when the original text carried a percent marker.
	Percent bool
}

// Unit is a magnitude suffix and its multiplier.
type Unit struct {
	Token      string
	Multiplier int64
}

// MagnitudeUnits lists recognized suffixes in match order.
var MagnitudeUnits = []Unit{
	{Token: "crore", Multiplier: 10_000_000},
	{Token: "cr", Multiplier: 10_000_000},
	{Token: "lakh", Multiplier: 100_000},
	{Token: "lac", Multiplier: 100_000},
	{Token: "thousand", Multiplier: 1_000},
	{Token: "k", Multiplier: 1_000},
}

// DefaultCurrencySymbols are stripped before parsing. "‚Çπ" is the rupee sign
// as it appears in UTF-8 files that were decoded as Mac Roman.
var DefaultCurrencySymbols = []string{"‚Çπ", "₹", "Rs.", "Rs", "INR", "$", "€", "£"}

// numericLiteral matches integers, decimals and scientific notation.
var numericLiteral = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Tokenizer scans raw cell text into typed tokens.
type Tokenizer struct {
	currency []string
}

// NewTokenizer builds a tokenizer stripping the default currency symbols plus
// extra. Symbols are NFKC-normalized like cell text and stripped longest
// first, so "Rs." goes whole before "Rs" or a shorter extra such as "R".
func NewTokenizer(extra []string) *Tokenizer {
	cur := make([]string, 0, len(DefaultCurrencySymbols)+len(extra))
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, DefaultCurrencySymbols...), extra...) {
		s = strings.TrimSpace(norm.NFKC.String(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		cur = append(cur, s)
	}
	slices.SortStableFunc(cur, func(a, b string) int { return len(b) - len(a) })
	return &Tokenizer{currency: cur}
}

// Scan classifies one raw cell. It never fails: text that is not a quantity
// yields TokenNull.
func (tk *Tokenizer) Scan(raw string) Token {
	s := norm.NFKC.String(raw)
	tok := Token{Percent: strings.Contains(s, "%")}

	s = strings.ReplaceAll(s, ",", "")
	for _, sym := range tk.currency {
		s = strings.ReplaceAll(s, sym, "")
	}
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)
	tok.Residual = s

	if v, ok := ParseNumber(s); ok {
		tok.Kind = TokenNumber
		tok.Value = v
		return tok
	}
	if _, ok := ParseScaled(s); ok {
		tok.Kind = TokenScaled
	}
	return tok
}

// ParseNumber parses a cleaned numeric literal. Accounting negatives such as
// "(123.45)" are accepted. Non-finite results are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if !numericLiteral.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	if neg {
		v = -v
	}
	if v == 0 {
		v = 0 // no negative zero
	}
	return v, true
}

// Scaled is a numeric literal with a recognized magnitude unit.
type Scaled struct {
	Literal string
	Unit    Unit
}

// Value returns Literal × Unit.Multiplier, computed in decimal and rounded to float64.
func (s Scaled) Value() float64 {
	d, err := decimal.NewFromString(s.Literal)
	if err != nil {
		return math.NaN()
	}
	v, _ := d.Mul(decimal.NewFromInt(s.Unit.Multiplier)).Float64()
	return v
}

// ParseScaled recognizes "<literal><whitespace><unit>" where the literal is
// digits with optional decimal point and comma separators, and the unit is
// one of MagnitudeUnits, case-insensitive, optionally plural or abbreviated
// ("lakhs", "Cr."). Units are tried in list order as prefixes and the first
// one that matches wins, so "crores" is crore and never cr.
func ParseScaled(s string) (Scaled, bool) {
	s = strings.TrimSpace(s)
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	digits := 0
	for i < len(s) {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
		} else if c != '.' && c != ',' {
			break
		}
		i++
	}
	if digits == 0 {
		return Scaled{}, false
	}
	lit := strings.ReplaceAll(s[:i], ",", "")
	if !numericLiteral.MatchString(lit) {
		return Scaled{}, false
	}
	lit = strings.TrimSuffix(strings.TrimPrefix(lit, "+"), ".")
	rest := strings.ToLower(strings.TrimLeftFunc(s[i:], unicode.IsSpace))
	for _, u := range MagnitudeUnits {
		if !strings.HasPrefix(rest, u.Token) {
			continue
		}
		if unitEnds(rest[len(u.Token):]) {
			return Scaled{Literal: lit, Unit: u}, true
		}
	}
	return Scaled{}, false
}

// unitEnds reports whether tail may follow a unit word: nothing, a plural
// "s", an abbreviation dot, or any non-letter.
func unitEnds(tail string) bool {
	tail = strings.TrimPrefix(tail, "s")
	tail = strings.TrimPrefix(tail, ".")
	if tail == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(tail)
	return !unicode.IsLetter(r)
}
