package cleaning

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/finclean-cli/internal/table"
)

// Rename records one header change made by NormalizeNames.
type Rename struct {
	From string
	To   string
}

// NormalizeName canonicalizes a column label: trimmed, lowercased, and every
// run of characters outside [a-z0-9] replaced by a single underscore.
// " Net Profit (%) " becomes "net_profit_".
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return b.String()
}

// NormalizeNames returns a copy of t with canonical, unique column names.
// When two labels canonicalize to the same name, later columns get "_2", "_3", ...
func NormalizeNames(t table.Table) (table.Table, []Rename) {
	out := t.Clone()
	seen := make(map[string]bool, len(out.Columns))
	var renames []Rename
	for i := range out.Columns {
		orig := out.Columns[i].Name
		name := NormalizeName(orig)
		if seen[name] {
			for n := 2; ; n++ {
				cand := NormalizeName(name + "_" + strconv.Itoa(n))
				if !seen[cand] {
					name = cand
					break
				}
			}
		}
		seen[name] = true
		out.Columns[i].Name = name
		if name != orig {
			renames = append(renames, Rename{From: orig, To: name})
		}
	}
	return out, renames
}
