// Package cleaning turns a raw financial statement table into a dense numeric
// table. The stages run in a fixed order (see Pipeline.Run):
//
//	names → numeric coercion → quality filter → unit expansion → sanitation
//
// Every stage is a pure function of its input table; nothing is mutated in
// place and no state survives between calls, so one Pipeline may be shared by
// any number of goroutines.
package cleaning

import "log/slog"

// DefaultMinFillRatio is the fraction of non-null cells a column needs to survive filtering.
const DefaultMinFillRatio = 0.6

// Options controls pipeline behavior.
type Options struct {
	// MinFillRatio is the minimum non-null fraction per column; columns with
	// fewer than int(MinFillRatio*rows) non-null cells are dropped.
	MinFillRatio float64
	// ExtraCurrencySymbols are stripped in addition to the built-in set.
	ExtraCurrencySymbols []string
	// Logger receives debug output about dropped columns and rows. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns the standard cleaning configuration.
func DefaultOptions() Options {
	return Options{MinFillRatio: DefaultMinFillRatio}
}
