package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/export"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/model"
)

// Sentinel errors mapped to host exit codes.
var (
	// ErrFatal reports a pipeline-fatal run: a snare fired or a stage
	// failed with no handler.
	ErrFatal = errors.New("pipeline fatal")

	// ErrBadInput reports unusable input: unparsable patterns or a
	// missing grid.
	ErrBadInput = errors.New("bad input")

	// ErrCancelled reports cooperative cancellation; partial results are
	// discarded.
	ErrCancelled = errors.New("pipeline cancelled")
)

// StageError wraps a failure with the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error.
func (e *StageError) Unwrap() error { return e.Err }

// ErrorHandler may recover a stage error. Returning nil recovers the run;
// returning an error (the same or another) promotes it to pipeline-fatal.
type ErrorHandler func(pc *Context, err error) error

// Result is a completed run. The unexported context carries the state
// needed for incremental follow-up runs.
type Result struct {
	// Model is the recognized component model; nil for fatal runs.
	Model *model.Model

	Outcome     diag.Outcome
	Diagnostics []diag.Diagnostic

	// Artifact is the generated code, when a back-end was configured and
	// the run was not fatal.
	Artifact *export.Artifact

	// Stats holds per-stage wall time.
	Stats RunStats

	pc *Context
}

// RunStats records stage timings in execution order.
type RunStats struct {
	Stages []StageStat
}

// StageStat is one stage's timing.
type StageStat struct {
	Name     string
	Duration time.Duration
}

// Pipeline sequences the stages over a shared context. A Pipeline value is
// reusable across runs; each run gets a fresh context.
type Pipeline struct {
	opts       Options
	stages     []Stage
	handlers   map[string]ErrorHandler
	generators *export.Registry
	logger     *log.Logger
}

// New creates a pipeline with the default stages and back-ends. Options
// are validated; invalid options return an error.
func New(opts Options) (*Pipeline, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{
		opts:       opts,
		stages:     defaultStages(),
		handlers:   make(map[string]ErrorHandler),
		generators: export.DefaultRegistry(),
		logger:     newLogger(opts.LogLevel),
	}, nil
}

func newLogger(level string) *log.Logger {
	lvl := log.WarnLevel
	switch level {
	case "debug":
		lvl = log.DebugLevel
	case "info":
		lvl = log.InfoLevel
	case "error":
		lvl = log.ErrorLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		ReportTimestamp: false,
		Prefix:          "hunt",
	})
}

// WithLogger replaces the pipeline logger.
func (p *Pipeline) WithLogger(logger *log.Logger) *Pipeline {
	p.logger = logger
	return p
}

// WithGenerators replaces the back-end registry, for hosts that plug in
// their own emitters.
func (p *Pipeline) WithGenerators(reg *export.Registry) *Pipeline {
	p.generators = reg
	return p
}

// OnError installs a recovery handler for one stage.
func (p *Pipeline) OnError(stage string, h ErrorHandler) *Pipeline {
	p.handlers[stage] = h
	return p
}

// Run executes a full recognition pass over the grid with the given
// pattern sources. The returned Result always carries the diagnostics,
// even for fatal runs; err is one of the sentinel errors or nil.
func (p *Pipeline) Run(ctx context.Context, g *grid.Grid, sources []string) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: no grid", ErrBadInput)
	}

	pc := &Context{
		Grid:       g,
		Sources:    sources,
		Options:    p.opts,
		Diags:      diag.NewList(),
		Generators: p.generators,
		Logger:     p.logger,
	}
	return p.runStages(ctx, pc, p.stages)
}

func (p *Pipeline) runStages(ctx context.Context, pc *Context, stages []Stage) (*Result, error) {
	res := &Result{pc: pc}
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			pc.Diags.Addf(diag.KindCancelled, diag.SeverityFatal, "run cancelled before %s", stage.Name())
			return p.finish(res, pc), ErrCancelled
		}

		start := time.Now()
		err := stage.Run(ctx, pc)
		res.Stats.Stages = append(res.Stats.Stages, StageStat{Name: stage.Name(), Duration: time.Since(start)})

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				pc.Diags.Addf(diag.KindCancelled, diag.SeverityFatal, "run cancelled during %s", stage.Name())
				return p.finish(res, pc), ErrCancelled
			}
			err = p.dispatchError(pc, stage.Name(), err)
			if err != nil {
				pc.Diags.Addf(diag.KindStageFailed, diag.SeverityFatal, "%v", err)
				p.logger.Error("stage failed", "stage", stage.Name(), "err", err)
				return p.finish(res, pc), p.classify(err)
			}
		}

		// Snare-induced fatal flags abort at the stage boundary.
		if pc.Diags.HasFatal() {
			p.logger.Warn("fatal flag raised", "after", stage.Name())
			return p.finish(res, pc), ErrFatal
		}
	}
	return p.finish(res, pc), nil
}

// dispatchError routes a stage error through its handler, if any.
func (p *Pipeline) dispatchError(pc *Context, stage string, err error) error {
	serr := &StageError{Stage: stage, Err: err}
	if h, ok := p.handlers[stage]; ok {
		return h(pc, serr)
	}
	return serr
}

// classify maps a fatal stage error to the host-facing sentinel.
func (p *Pipeline) classify(err error) error {
	var serr *StageError
	if errors.As(err, &serr) && serr.Stage == "parse_patterns" {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	return fmt.Errorf("%w: %v", ErrFatal, err)
}

// finish snapshots the context into the result. Fatal runs produce no
// model and no artifact.
func (p *Pipeline) finish(res *Result, pc *Context) *Result {
	res.Outcome = pc.Diags.Outcome()
	res.Diagnostics = pc.Diags.Entries()
	if res.Outcome != diag.OutcomeFatal {
		res.Model = pc.Model
		res.Artifact = pc.Artifact
	}
	return res
}
