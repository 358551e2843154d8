// Package batch cleans many statement files concurrently. Each file runs
// inside its own fault boundary: a read error, a structural error or a panic
// on one table is recorded in that table's Result and never stops the others.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/finclean-cli/internal/analysis"
	"github.com/KaramelBytes/finclean-cli/internal/cleaning"
	"github.com/KaramelBytes/finclean-cli/internal/export"
	"github.com/KaramelBytes/finclean-cli/internal/logging"
	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/KaramelBytes/finclean-cli/internal/table"
	"github.com/KaramelBytes/finclean-cli/internal/utils"
)

// Stages reported in TableError.
const (
	StageStart  = "start"
	StageRead   = "read"
	StageClean  = "clean"
	StageWrite  = "write"
	StageReport = "report"
)

// TableError is a failure confined to one table.
type TableError struct {
	Table string
	Stage string
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Table, e.Stage, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// Result describes the outcome for one job.
type Result struct {
	Source   string
	Output   string
	Report   string
	Stats    cleaning.Stats
	Duration time.Duration
	// Err is nil on success and a *TableError otherwise.
	Err error
}

// Options configures a Runner.
type Options struct {
	// Workers bounds concurrency; values below 1 mean runtime.NumCPU().
	Workers int
	Read    parser.Options
	Export  export.Options
	Report  analysis.Options
	Logger  *slog.Logger
	// OnResult is called once per finished job. Calls are serialized.
	OnResult func(done, total int, r Result)
}

// Runner drives the cleaning pipeline over a set of jobs.
type Runner struct {
	pipeline *cleaning.Pipeline
	opt      Options
	logger   *slog.Logger
	read     func(path string, opt parser.Options) (table.Table, error)
}

// NewRunner returns a Runner that cleans with p.
func NewRunner(p *cleaning.Pipeline, opt Options) *Runner {
	if opt.Workers < 1 {
		opt.Workers = runtime.NumCPU()
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pipeline: p, opt: opt, logger: logger, read: parser.ReadFile}
}

// Run processes jobs with at most Workers in flight and returns one Result per
// job in input order. Cancelling ctx stops jobs that have not started yet;
// they report a StageStart error. The returned error is ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	var (
		mu   sync.Mutex
		done int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opt.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			res := r.runOne(gctx, job)
			results[i] = res
			mu.Lock()
			done++
			if r.opt.OnResult != nil {
				r.opt.OnResult(done, len(jobs), res)
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, ctx.Err()
}

func (r *Runner) runOne(ctx context.Context, job Job) (res Result) {
	start := time.Now()
	res.Source = job.Source
	log := logging.ForTable(r.logger, job.Source)
	stage := StageStart
	defer func() {
		if p := recover(); p != nil {
			res.Err = &TableError{Table: job.Source, Stage: stage, Err: fmt.Errorf("panic: %v", p)}
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			log.Error("table failed", "stage", stage, "err", res.Err)
			return
		}
		log.Debug("table cleaned", "rows", res.Stats.OutputRows, "cols", res.Stats.OutputCols, "duration", res.Duration)
	}()
	fail := func(err error) Result {
		res.Err = &TableError{Table: job.Source, Stage: stage, Err: err}
		return res
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	stage = StageRead
	raw, err := r.read(job.Source, r.opt.Read)
	if err != nil {
		return fail(err)
	}

	stage = StageClean
	out, st, err := r.pipeline.RunWithStats(raw)
	if err != nil {
		return fail(err)
	}
	res.Stats = st

	stage = StageWrite
	if err := export.WriteFile(job.Output, out, r.opt.Export); err != nil {
		return fail(err)
	}
	res.Output = job.Output

	if job.Report != "" {
		stage = StageReport
		md := analysis.Build(out, st, r.opt.Report).Markdown()
		if err := utils.SafeWriteFile(job.Report, []byte(md)); err != nil {
			return fail(err)
		}
		res.Report = job.Report
	}
	return res
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
