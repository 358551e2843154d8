package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/finclean-cli/internal/analysis"
	"github.com/KaramelBytes/finclean-cli/internal/batch"
	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	cbOutDir     string
	cbWorkers    int
	cbReports    bool
	cbMinFill    float64
	cbDelimiter  string
	cbEncoding   string
	cbSheetName  string
	cbSheetIndex int
	cbMaxRows    int
	cbBOM        bool
	cbQuiet      bool
)

var cleanBatchCmd = &cobra.Command{
	Use:   "clean-batch <files/dirs/globs...>",
	Short: "Clean many statement files concurrently with progress and a run manifest",
	Long: `Clean every matched file into <out-dir>/<name>.csv. A failure on one file is
reported and recorded in manifest.json but does not stop the others; the command
exits non-zero if any file failed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := batch.ExpandInputs(args)
		if err != nil {
			return err
		}
		ropt, err := readOptions(cmd, cbDelimiter, cbEncoding, cbSheetName, cbSheetIndex, cbMaxRows)
		if err != nil {
			return err
		}
		popt, err := pipelineOptions(cmd, cbMinFill)
		if err != nil {
			return err
		}

		c := effectiveConfig()
		outDir := c.OutputDir
		if cmd.Flags().Changed("out-dir") {
			outDir = cbOutDir
		}
		workers := c.Workers
		if cmd.Flags().Changed("workers") {
			workers = cbWorkers
		}
		reports := c.WriteReports
		if cmd.Flags().Changed("reports") {
			reports = cbReports
		}

		out := cmd.OutOrStdout()
		opt := batch.Options{
			Workers: workers,
			Read:    ropt,
			Export:  export.Options{BOMPrefix: cbBOM},
			Report:  analysis.DefaultOptions(),
			OnResult: func(done, total int, r batch.Result) {
				if cbQuiet {
					return
				}
				if r.Err != nil {
					fmt.Fprintf(out, "[%d/%d] ⚠ %s: %v\n", done, total, filepath.Base(r.Source), r.Err)
					return
				}
				fmt.Fprintf(out, "[%d/%d] ✓ %s → %s (%d rows, %d columns)\n",
					done, total, filepath.Base(r.Source), r.Output, r.Stats.OutputRows, r.Stats.OutputCols)
			},
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		started := time.Now()
		jobs := batch.Plan(files, outDir, reports)
		results, runErr := batch.NewRunner(cleaning.New(popt), opt).Run(ctx, jobs)
		manifest := batch.NewManifest(outDir, started, time.Now(), results)
		mpath, err := manifest.Save()
		if err != nil {
			return err
		}
		if !cbQuiet {
			fmt.Fprintf(out, "✓ Cleaned %d/%d files (run %s); manifest: %s\n",
				manifest.Succeeded, len(results), manifest.RunID, mpath)
		}
		if runErr != nil {
			return runErr
		}
		if manifest.Failed > 0 {
			return fmt.Errorf("%d of %d files failed; see %s", manifest.Failed, len(results), mpath)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanBatchCmd)
	cleanBatchCmd.Flags().StringVar(&cbOutDir, "out-dir", "cleaned_data", "directory for cleaned CSVs and manifest.json (overrides config)")
	cleanBatchCmd.Flags().IntVar(&cbWorkers, "workers", 0, "files cleaned in parallel (overrides config; default NumCPU)")
	cleanBatchCmd.Flags().BoolVar(&cbReports, "reports", false, "also write <name>.summary.md per file (overrides config)")
	cleanBatchCmd.Flags().Float64Var(&cbMinFill, "min-fill", cleaning.DefaultMinFillRatio, "minimum non-null fraction a column needs to be kept (overrides config)")
	cleanBatchCmd.Flags().BoolVar(&cbBOM, "bom", false, "prefix outputs with a UTF-8 BOM for Excel")
	cleanBatchCmd.Flags().BoolVar(&cbQuiet, "quiet", false, "suppress progress and non-essential output")
	addInputFlags(cleanBatchCmd, &cbDelimiter, &cbEncoding, &cbSheetName, &cbSheetIndex, &cbMaxRows)
}
