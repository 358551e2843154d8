package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/KaramelBytes/finclean-cli/internal/utils"
)

// Job is one input file and where its results go.
type Job struct {
	Source string
	Output string
	// Report is the Markdown summary path; empty disables the report.
	Report string
}

// ExpandInputs resolves command-line arguments into a sorted, de-duplicated
// file list. Arguments may be glob patterns, files, or directories; a directory
// contributes every readable table file directly inside it.
func ExpandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				add(m)
				continue
			}
			entries, err := os.ReadDir(m)
			if err != nil {
				return nil, fmt.Errorf("read dir %s: %w", m, err)
			}
			for _, e := range entries {
				if !e.IsDir() && parser.Supported(e.Name()) {
					add(filepath.Join(m, e.Name()))
				}
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// Plan assigns an output CSV (and optionally a report) in outDir to every
// source. Sources sharing a base name get "__2", "__3", ... suffixes in input
// order, skipping names already taken, so no two jobs write the same file.
func Plan(files []string, outDir string, reports bool) []Job {
	jobs := make([]Job, 0, len(files))
	taken := map[string]bool{}
	for _, src := range files {
		base := utils.ReplaceExt(src, "")
		name := base
		for idx := 2; taken[name]; idx++ {
			name = fmt.Sprintf("%s__%d", base, idx)
		}
		taken[name] = true
		job := Job{Source: src, Output: filepath.Join(outDir, name+".csv")}
		if reports {
			job.Report = filepath.Join(outDir, name+".summary.md")
		}
		jobs = append(jobs, job)
	}
	return jobs
}
