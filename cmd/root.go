package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/finclean-cli/internal/config"
	"github.com/KaramelBytes/finclean-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "finclean",
	Short: "finclean: turn messy financial statement tables into clean numeric CSVs",
	Long: `finclean reads balance sheets, income statements and cash flow tables (CSV, TSV or XLSX),
standardizes column names, parses currency, percentages and lakh/crore units,
drops sparse columns, duplicate and empty rows, and writes a dense numeric CSV per input.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.finclean/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		logging.Setup(levelOverride("info"), formatOverride("text"), os.Stderr)
		return
	}
	cfg = c
	logging.Setup(levelOverride(cfg.LogLevel), formatOverride(cfg.LogFormat), os.Stderr)
	slog.Debug("config loaded", "file", cfgFile, "workers", cfg.Workers, "min_fill_ratio", cfg.MinFillRatio)
}

func levelOverride(level string) string {
	if debug {
		return "debug"
	}
	return level
}

func formatOverride(format string) string {
	if rootCmd.PersistentFlags().Changed("log-format") && logFormat != "" {
		return logFormat
	}
	return format
}

// effectiveConfig returns the loaded config, or defaults when loading failed.
func effectiveConfig() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		MinFillRatio: 0.6,
		Encoding:     "utf-8",
		OutputDir:    "cleaned_data",
		LogLevel:     "info",
		LogFormat:    "text",
	}
}
