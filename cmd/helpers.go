package cmd

import (
	"fmt"

	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/spf13/cobra"
)

// parseDelimiter maps a --delimiter value to a rune; empty means auto-detect.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %s (use ','|';'|'|'|'tab')", s)
	}
}

// readOptions merges config input settings with command flags. Flags win only
// when set on the command line.
func readOptions(cmd *cobra.Command, delimiter, encoding, sheetName string, sheetIndex, maxRows int) (parser.Options, error) {
	c := effectiveConfig()
	opt := parser.Options{
		Delimiter:  c.DelimiterRune(),
		Encoding:   c.Encoding,
		SheetName:  sheetName,
		SheetIndex: sheetIndex,
		MaxRows:    maxRows,
	}
	if cmd.Flags().Changed("delimiter") {
		d, err := parseDelimiter(delimiter)
		if err != nil {
			return opt, err
		}
		opt.Delimiter = d
	}
	if cmd.Flags().Changed("encoding") {
		enc, ok := parser.CanonicalEncoding(encoding)
		if !ok {
			return opt, fmt.Errorf("unsupported --encoding: %s (use utf-8|windows-1252|macintosh)", encoding)
		}
		opt.Encoding = enc
	}
	return opt, nil
}

// pipelineOptions builds cleaning options from config and the --min-fill flag.
func pipelineOptions(cmd *cobra.Command, minFill float64) (cleaning.Options, error) {
	c := effectiveConfig()
	opt := cleaning.DefaultOptions()
	opt.MinFillRatio = c.MinFillRatio
	opt.ExtraCurrencySymbols = c.ExtraCurrencySymbols
	if cmd.Flags().Changed("min-fill") {
		if minFill < 0 || minFill > 1 {
			return opt, fmt.Errorf("--min-fill must be within [0,1], got %g", minFill)
		}
		opt.MinFillRatio = minFill
	}
	return opt, nil
}

// addInputFlags registers the reader flags shared by clean, clean-batch and inspect.
func addInputFlags(cmd *cobra.Command, delimiter, encoding, sheetName *string, sheetIndex, maxRows *int) {
	cmd.Flags().StringVar(delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab' (auto-detect if omitted)")
	cmd.Flags().StringVar(encoding, "encoding", "", "source text encoding: utf-8 | windows-1252 | macintosh (default from config)")
	cmd.Flags().StringVar(sheetName, "sheet-name", "", "XLSX: sheet name to read")
	cmd.Flags().IntVar(sheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	cmd.Flags().IntVar(maxRows, "max-rows", 0, "maximum data rows to read (0 = unlimited)")
}
