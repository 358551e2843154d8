package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/finclean-cli/internal/analysis"
	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/export"
	"github.com/KaramelBytes/finclean-cli/internal/logging"
	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/KaramelBytes/finclean-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	clOutputPath string
	clReportPath string
	clMinFill    float64
	clDelimiter  string
	clEncoding   string
	clSheetName  string
	clSheetIndex int
	clMaxRows    int
	clBOM        bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean one CSV/TSV/XLSX statement into a numeric CSV",
	Long: `Clean one statement table. The output goes to --output, or to <output_dir>/<name>.csv
when omitted. Use "-o -" to print the cleaned CSV to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		ropt, err := readOptions(cmd, clDelimiter, clEncoding, clSheetName, clSheetIndex, clMaxRows)
		if err != nil {
			return err
		}
		popt, err := pipelineOptions(cmd, clMinFill)
		if err != nil {
			return err
		}
		log := logging.ForTable(nil, path)
		popt.Logger = log

		raw, err := parser.ReadFile(path, ropt)
		if err != nil {
			return err
		}
		out, st, err := cleaning.New(popt).RunWithStats(raw)
		if err != nil {
			return err
		}

		eopt := export.Options{BOMPrefix: clBOM}
		if clOutputPath == "-" {
			return export.Write(cmd.OutOrStdout(), out, eopt)
		}
		dest := clOutputPath
		if dest == "" {
			dest = filepath.Join(effectiveConfig().OutputDir, utils.ReplaceExt(path, ".csv"))
		}
		if err := export.WriteFile(dest, out, eopt); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleaned %s: rows %d→%d, columns %d→%d → %s\n",
			filepath.Base(path), st.InputRows, st.OutputRows, st.InputCols, st.OutputCols, dest)

		if clReportPath != "" {
			md := analysis.Build(out, st, analysis.DefaultOptions()).Markdown()
			if err := utils.SafeWriteFile(clReportPath, []byte(md)); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote report to %s\n", clReportPath)
		}
		log.Debug("clean finished", "output", dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clOutputPath, "output", "o", "", "output CSV path ('-' for stdout)")
	cleanCmd.Flags().StringVar(&clReportPath, "report", "", "optional path to write a Markdown summary")
	cleanCmd.Flags().Float64Var(&clMinFill, "min-fill", cleaning.DefaultMinFillRatio, "minimum non-null fraction a column needs to be kept (overrides config)")
	cleanCmd.Flags().BoolVar(&clBOM, "bom", false, "prefix output with a UTF-8 BOM for Excel")
	addInputFlags(cleanCmd, &clDelimiter, &clEncoding, &clSheetName, &clSheetIndex, &clMaxRows)
}
