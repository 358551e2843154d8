package cleaning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan(t *testing.T) {
	tk := NewTokenizer(nil)
	cases := []struct {
		in       string
		kind     TokenKind
		value    float64
		residual string
		percent  bool
	}{
		{in: "₹1,200.50", kind: TokenNumber, value: 1200.50, residual: "1200.50"},
		{in: "‚Çπ1,200.50", kind: TokenNumber, value: 1200.50, residual: "1200.50"},
		{in: "Rs. 3,400", kind: TokenNumber, value: 3400, residual: "3400"},
		{in: "INR 7", kind: TokenNumber, value: 7, residual: "7"},
		{in: "$-12", kind: TokenNumber, value: -12, residual: "-12"},
		{in: "(1,234.5)", kind: TokenNumber, value: -1234.5, residual: "(1234.5)"},
		{in: " 15% ", kind: TokenNumber, value: 15, residual: "15", percent: true},
		{in: "1e3", kind: TokenNumber, value: 1000, residual: "1e3"},
		{in: "₹120 cr", kind: TokenScaled, residual: "120 cr"},
		{in: "12.5 lakh", kind: TokenScaled, residual: "12.5 lakh"},
		{in: "nan", kind: TokenNull, residual: "nan"},
		{in: "inf", kind: TokenNull, residual: "inf"},
		{in: "", kind: TokenNull},
		{in: "n/a", kind: TokenNull, residual: "n/a"},
		{in: "Acme", kind: TokenNull, residual: "Acme"},
		{in: "%", kind: TokenNull, percent: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := tk.Scan(tc.in)
			assert.Equal(t, tc.kind, got.Kind)
			assert.Equal(t, tc.residual, got.Residual)
			assert.Equal(t, tc.percent, got.Percent)
			if tc.kind == TokenNumber {
				assert.InDelta(t, tc.value, got.Value, 1e-9)
			}
		})
	}
}

func TestScanFullWidthDigits(t *testing.T) {
	got := NewTokenizer(nil).Scan("１２３")
	require.Equal(t, TokenNumber, got.Kind)
	assert.Equal(t, 123.0, got.Value)
}

func TestScanExtraCurrency(t *testing.T) {
	assert.Equal(t, TokenNull, NewTokenizer(nil).Scan("AED 50").Kind)

	got := NewTokenizer([]string{"AED", " "}).Scan("AED 50")
	require.Equal(t, TokenNumber, got.Kind)
	assert.Equal(t, 50.0, got.Value)
}

func TestScanExtraCurrencyNormalizedAndOrdered(t *testing.T) {
	// A short extra must not eat part of "Rs." before it is stripped.
	got := NewTokenizer([]string{"R"}).Scan("Rs. 1,200")
	require.Equal(t, TokenNumber, got.Kind)
	assert.Equal(t, 1200.0, got.Value)

	// Full-width symbols in config match NFKC-normalized cell text.
	got = NewTokenizer([]string{"ＡＥＤ"}).Scan("AED 50")
	require.Equal(t, TokenNumber, got.Kind)
	assert.Equal(t, 50.0, got.Value)
}

func TestParseNumberNoNegativeZero(t *testing.T) {
	for _, s := range []string{"0", "-0", "(0)", "-0.0"} {
		v, ok := ParseNumber(s)
		require.True(t, ok, s)
		assert.False(t, math.Signbit(v), "%q parsed as negative zero", s)
	}
}

func TestParseNumberRejects(t *testing.T) {
	for _, s := range []string{"", "abc", "1.2.3", "1e999", "NaN", "Infinity", "--1", "()", "12 cr"} {
		_, ok := ParseNumber(s)
		assert.False(t, ok, "%q should not parse", s)
	}
}

func TestParseScaled(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		unit string
	}{
		{"12.5 lakh", 1_250_000, "lakh"},
		{"2 cr", 20_000_000, "cr"},
		{"3 Crore", 30_000_000, "crore"},
		{"1,50,000 lac", 15_000_000_000, "lac"},
		{"4 THOUSAND", 4_000, "thousand"},
		{"7.5k", 7_500, "k"},
		{"12. k", 12_000, "k"},
		{"+0.1 cr", 1_000_000, "cr"},
		{"-2 lakh", -200_000, "lakh"},
		{"12.5 lakhs", 1_250_000, "lakh"},
		{"5 crores", 50_000_000, "crore"},
		{"5 crore", 50_000_000, "crore"},
		{"2 Cr.", 20_000_000, "cr"},
		{"3 lacs", 300_000, "lac"},
		{"2 thousands", 2_000, "thousand"},
		{"4 cr)", 40_000_000, "cr"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			sc, ok := ParseScaled(tc.in)
			require.True(t, ok)
			assert.Equal(t, tc.unit, sc.Unit.Token)
			assert.InDelta(t, tc.want, sc.Value(), 1e-6)
		})
	}
}

func TestParseScaledNoMatch(t *testing.T) {
	for _, s := range []string{"cr", "lakh 12", "12 kg", "5 cro", "3 lacks", "2 crx", "1 kilo", "12", "1.2.3 k", "abc k", ""} {
		_, ok := ParseScaled(s)
		assert.False(t, ok, "%q should not match", s)
	}
}

func TestScaledValueIsExactForDecimalInputs(t *testing.T) {
	sc, ok := ParseScaled("0.07 cr")
	require.True(t, ok)
	assert.Equal(t, 700000.0, sc.Value())
}
