package cleaning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		" Net Profit (%) ":  "net_profit_",
		"Revenue (Cr)":      "revenue_cr_",
		"Growth %":          "growth_",
		"Company Name":      "company_name",
		"EPS__basic":        "eps_basic",
		"already_clean":     "already_clean",
		"":                  "",
		"   ":               "",
		"% of Total":        "_of_total",
		"Débt/Equity":       "d_bt_equity",
		"FY2023-24 Q1":      "fy2023_24_q1",
		"__leading__trail__": "_leading_trail_",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeName(in), "input %q", in)
	}
}

func TestNormalizeNameIsStable(t *testing.T) {
	for _, s := range []string{" Net Profit (%) ", "a--b", "X"} {
		once := NormalizeName(s)
		assert.Equal(t, once, NormalizeName(once))
	}
}

func TestNormalizeNamesDeduplicates(t *testing.T) {
	in := table.FromRecords("acme", []string{"Net Profit", "net-profit", "NET PROFIT", "net_profit_2"}, [][]string{{"1", "2", "3", "4"}})
	out, renames := NormalizeNames(in)

	assert.Equal(t, []string{"net_profit", "net_profit_2", "net_profit_3", "net_profit_2_2"}, out.Header())
	assert.Len(t, renames, 4)
	assert.Equal(t, "Net Profit", in.Columns[0].Name, "input must not be mutated")
}

func TestNormalizeNamesReportsOnlyChanges(t *testing.T) {
	in := table.FromRecords("acme", []string{"revenue", "Growth %"}, [][]string{{"1", "2"}})
	_, renames := NormalizeNames(in)
	assert.Equal(t, []Rename{{From: "Growth %", To: "growth_"}}, renames)
}
