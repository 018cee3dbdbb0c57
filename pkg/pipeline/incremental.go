package pipeline

import (
	"context"
	"fmt"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/match"
)

// RunIncremental applies a change delta to a previous run instead of
// recomputing everything. The pattern registry is reused as-is (pattern
// sources do not change between deltas); candidates are re-extracted, but
// only those overlapping the delta are re-matched. Stages that are not
// incremental-capable, such as code generation, re-run in full.
//
// The result is equivalent to a fresh Run over the edited grid, modulo
// diagnostic ordering.
func (p *Pipeline) RunIncremental(ctx context.Context, prev *Result, g *grid.Grid, delta match.Delta) (*Result, error) {
	if !p.opts.Incremental {
		return nil, fmt.Errorf("%w: pipeline options do not enable incremental runs", ErrBadInput)
	}
	if prev == nil || prev.pc == nil || prev.pc.Registry == nil {
		return nil, fmt.Errorf("%w: no previous run to update", ErrBadInput)
	}
	if g == nil {
		return nil, fmt.Errorf("%w: no grid", ErrBadInput)
	}

	pc := &Context{
		Grid:       g,
		Sources:    prev.pc.Sources,
		Options:    p.opts,
		Diags:      diag.NewList(),
		Registry:   prev.pc.Registry,
		Program:    prev.pc.Program,
		Engine:     prev.pc.Engine,
		Generators: p.generators,
		Logger:     p.logger,
	}

	stages := []Stage{
		extractCandidatesStage{},
		incrementalMatchStage{prev: prev.pc.Outcomes, delta: delta},
		buildHierarchyStage{},
		generateCodeStage{},
	}
	return p.runStages(ctx, pc, stages)
}

// incrementalMatchStage re-matches only the candidates the delta touches,
// carrying previous outcomes forward for the rest.
type incrementalMatchStage struct {
	prev  map[string]*match.Outcome
	delta match.Delta
}

func (incrementalMatchStage) Name() string      { return "match_patterns" }
func (incrementalMatchStage) Incremental() bool { return true }

func (s incrementalMatchStage) Run(ctx context.Context, pc *Context) error {
	if pc.Engine == nil {
		pc.Engine = match.NewEngine(pc.Registry)
	}
	outcomes, err := pc.Engine.Reevaluate(ctx, pc.Grid, pc.Candidates, s.prev, s.delta, pc.Diags)
	if err != nil {
		return err
	}
	pc.Outcomes = outcomes
	reportUnmatchedRequired(pc)
	pc.Logger.Debug("incremental rematch", "candidates", len(pc.Candidates))
	return nil
}
