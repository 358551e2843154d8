package cmd

import (
	"fmt"

	"github.com/KaramelBytes/finclean-cli/internal/analysis"
	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/spf13/cobra"
)

var (
	inMinFill    float64
	inSampleRows int
	inCorr       bool
	inOutlierThr float64
	inDelimiter  string
	inEncoding   string
	inSheetName  string
	inSheetIndex int
	inMaxRows    int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Clean a file in memory and print a Markdown summary of the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ropt, err := readOptions(cmd, inDelimiter, inEncoding, inSheetName, inSheetIndex, inMaxRows)
		if err != nil {
			return err
		}
		popt, err := pipelineOptions(cmd, inMinFill)
		if err != nil {
			return err
		}
		raw, err := parser.ReadFile(args[0], ropt)
		if err != nil {
			return err
		}
		out, st, err := cleaning.New(popt).RunWithStats(raw)
		if err != nil {
			return err
		}
		aopt := analysis.DefaultOptions()
		aopt.SampleRows = inSampleRows
		aopt.Correlations = inCorr
		aopt.OutlierThreshold = inOutlierThr
		fmt.Fprintln(cmd.OutOrStdout(), analysis.Build(out, st, aopt).Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Float64Var(&inMinFill, "min-fill", cleaning.DefaultMinFillRatio, "minimum non-null fraction a column needs to be kept (overrides config)")
	inspectCmd.Flags().IntVar(&inSampleRows, "sample-rows", 5, "number of sample rows to include")
	inspectCmd.Flags().BoolVar(&inCorr, "correlations", true, "compute Pearson correlations among columns")
	inspectCmd.Flags().Float64Var(&inOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based, 0 disables)")
	addInputFlags(inspectCmd, &inDelimiter, &inEncoding, &inSheetName, &inSheetIndex, &inMaxRows)
}
