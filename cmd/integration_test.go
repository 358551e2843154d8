package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const acmeCSV = "Company Name,Revenue (Cr),Growth %\n" +
	"Acme,₹120 cr,15%\n" +
	"Acme,₹120 cr,15%\n" +
	"Beta,nan,nan\n"

// runCmdErr executes the root command with args and returns captured stdout.
func runCmdErr(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that may persist Changed state across invocations
	for _, c := range []struct {
		name  string
		flags []string
	}{
		{"clean", []string{"output", "report", "min-fill", "bom", "delimiter", "encoding", "sheet-name", "sheet-index", "max-rows"}},
		{"clean-batch", []string{"out-dir", "workers", "reports", "min-fill", "bom", "quiet", "delimiter", "encoding", "sheet-name", "sheet-index", "max-rows"}},
		{"inspect", []string{"min-fill", "sample-rows", "correlations", "outlier-threshold", "delimiter", "encoding", "sheet-name", "sheet-index", "max-rows"}},
	} {
		sub, _, err := rootCmd.Find([]string{c.name})
		if err != nil {
			t.Fatalf("find %s: %v", c.name, err)
		}
		for _, name := range c.flags {
			if fl := sub.Flags().Lookup(name); fl != nil {
				_ = fl.Value.Set(fl.DefValue)
				fl.Changed = false
			}
		}
	}
	for _, name := range []string{"config", "debug", "log-format"} {
		if fl := rootCmd.PersistentFlags().Lookup(name); fl != nil {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		}
	}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCmdErr(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

func TestCLI_CleanWritesCSVAndReport(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "acme.csv")
	if err := os.WriteFile(in, []byte(acmeCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	outPath := filepath.Join(home, "out", "acme_clean.csv")
	report := filepath.Join(home, "out", "acme.md")

	stdout := runCmd(t, "clean", in, "-o", outPath, "--report", report)
	if !strings.Contains(stdout, "✓ Cleaned acme.csv: rows 3→1, columns 3→2") {
		t.Fatalf("unexpected output: %q", stdout)
	}
	body, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(body) != "revenue_cr_,growth_\n1200000000,0.15\n" {
		t.Fatalf("unexpected cleaned csv: %q", body)
	}
	md, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(md), "- dropped sparse columns: company_name") {
		t.Fatalf("report missing cleaning notes: %s", md)
	}
}

func TestCLI_CleanToStdoutWithMinFill(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "beta.csv")
	csv := "EPS,Notes\n1.5,\n2.5,\n3.5,see notes\n4.5,\n5.5,\n"
	if err := os.WriteFile(in, []byte(csv), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := runCmd(t, "clean", in, "-o", "-", "--min-fill", "0")
	if out != "eps,notes\n1.5,0\n2.5,0\n3.5,0\n4.5,0\n5.5,0\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
	out = runCmd(t, "clean", in, "-o", "-")
	if out != "eps\n1.5\n2.5\n3.5\n4.5\n5.5\n" {
		t.Fatalf("unexpected stdout with default threshold: %q", out)
	}
}

func TestCLI_CleanDefaultOutputDir(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "acme.csv")
	if err := os.WriteFile(in, []byte(acmeCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	wd, _ := os.Getwd()
	if err := os.Chdir(home); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	runCmd(t, "clean", in)
	if _, err := os.Stat(filepath.Join(home, "cleaned_data", "acme.csv")); err != nil {
		t.Fatalf("missing default output: %v", err)
	}
}

func TestCLI_InspectPrintsSummary(t *testing.T) {
	home := setHome(t)
	in := filepath.Join(home, "acme.csv")
	if err := os.WriteFile(in, []byte(acmeCSV), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := runCmd(t, "inspect", in)
	for _, want := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "revenue_cr_", "[CLEANING]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("inspect output missing %q: %s", want, out)
		}
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := setHome(t)
	runCmd(t, "config", "set", "min_fill_ratio", "0.5")
	runCmd(t, "config", "set", "delimiter", ";")

	if _, err := os.Stat(filepath.Join(home, ".finclean", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "min_fill_ratio: 0.5") || !strings.Contains(out, "delimiter: ;") {
		t.Fatalf("unexpected config show: %s", out)
	}
	if _, err := runCmdErr(t, "config", "set", "min_fill_ratio", "2"); err == nil {
		t.Fatalf("expected validation error for out-of-range ratio")
	}
	if _, err := runCmdErr(t, "config", "set", "api_key", "x"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}
