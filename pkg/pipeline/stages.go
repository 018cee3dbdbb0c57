package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/export"
	"github.com/deadcoast/hunt/pkg/extract"
	"github.com/deadcoast/hunt/pkg/match"
	"github.com/deadcoast/hunt/pkg/model"
	"github.com/deadcoast/hunt/pkg/parser"
	"github.com/deadcoast/hunt/pkg/pattern"
)

// Stage is one pipeline step. Stages read earlier context slots and write
// their own; they must consult ctx between units of work so cancellation
// is observed promptly.
type Stage interface {
	// Name is the stable stage identifier used for error handlers.
	Name() string

	// Run executes the stage against the shared run context.
	Run(ctx context.Context, pc *Context) error

	// Incremental reports whether the stage can consume a change delta.
	Incremental() bool
}

// parsePatternsStage lexes, parses, compiles and registers the pattern
// bundle. Sources are concatenated in declaration order.
type parsePatternsStage struct{}

func (parsePatternsStage) Name() string      { return "parse_patterns" }
func (parsePatternsStage) Incremental() bool { return true }

func (parsePatternsStage) Run(_ context.Context, pc *Context) error {
	source := strings.Join(pc.Sources, "\n")

	prog, err := parser.Parse(source, pc.Diags, parser.Options{
		StrictAlignment: pc.Options.StrictAlignment,
	})
	if err != nil {
		return fmt.Errorf("pattern source unparsable: %w", err)
	}
	pc.Program = prog

	pc.Registry = pattern.NewRegistry()
	compiler := pattern.NewCompiler(pc.Options.DefaultThreshold)
	pattern.CompileAndRegister(pc.Registry, compiler, prog, pc.Diags)

	pc.Logger.Debug("patterns registered", "count", pc.Registry.Len())
	return nil
}

// extractCandidatesStage floods the grid into candidates.
type extractCandidatesStage struct{}

func (extractCandidatesStage) Name() string      { return "extract_candidates" }
func (extractCandidatesStage) Incremental() bool { return true }

func (extractCandidatesStage) Run(_ context.Context, pc *Context) error {
	pc.Candidates = extract.NewExtractor().Extract(pc.Grid, pc.Diags)
	pc.Logger.Debug("candidates extracted", "count", len(pc.Candidates))
	return nil
}

// matchPatternsStage evaluates every pattern against every candidate.
type matchPatternsStage struct{}

func (matchPatternsStage) Name() string      { return "match_patterns" }
func (matchPatternsStage) Incremental() bool { return true }

func (matchPatternsStage) Run(ctx context.Context, pc *Context) error {
	pc.Engine = match.NewEngine(pc.Registry)
	outcomes, err := pc.Engine.EvaluateAll(ctx, pc.Grid, pc.Candidates, pc.Diags)
	if err != nil {
		return err
	}
	pc.Outcomes = outcomes
	reportUnmatchedRequired(pc)
	pc.Logger.Debug("candidates matched", "count", len(outcomes))
	return nil
}

// reportUnmatchedRequired warns for every req pattern that won no
// candidate in this run.
func reportUnmatchedRequired(pc *Context) {
	won := make(map[string]bool)
	for _, o := range pc.Outcomes {
		if o.Pattern != nil {
			won[o.Pattern.Name] = true
		}
	}
	for _, p := range pc.Registry.List() {
		if p.Required && !won[p.Name] {
			pc.Diags.Addf(diag.KindPatternUnmatched, diag.SeverityWarn,
				"required pattern %q matched no candidate", p.Name)
		}
	}
}

// buildHierarchyStage turns outcomes into components, applies boil
// reductions, and builds the containment forest.
type buildHierarchyStage struct{}

func (buildHierarchyStage) Name() string      { return "build_hierarchy" }
func (buildHierarchyStage) Incremental() bool { return true }

func (buildHierarchyStage) Run(_ context.Context, pc *Context) error {
	m := model.New()
	for _, cand := range pc.Candidates {
		outcome := pc.Outcomes[cand.ID]
		if outcome == nil {
			outcome = &match.Outcome{CandidateID: cand.ID}
		}

		comp := model.NewComponent(cand.ID, outcome.Type(), cand.BBox)
		comp.Confidence = outcome.Confidence
		for k, v := range outcome.Props {
			comp.SetProp(k, v)
		}
		comp.SetProp("borderStyle", cand.BorderStyle.String())
		if cand.BoundaryIncomplete {
			comp.SetProp("boundaryIncomplete", true)
		}
		comp.Annotations = append(comp.Annotations, outcome.Annotations...)
		applyBoilReductions(comp)

		if err := m.AddComponent(comp); err != nil {
			return err
		}
	}

	builder := model.NewHierarchyBuilder()
	builder.CellSize = pc.Options.SpatialCellSize
	builder.Build(m, pc.Diags)

	pc.Model = m
	pc.Logger.Debug("hierarchy built", "components", m.Len(), "roots", len(m.Roots()))
	return nil
}

// applyBoilReductions runs the reductions the core understands against the
// annotated target property; anything else stays an annotation for the
// back-end to interpret.
func applyBoilReductions(c *model.Component) {
	for _, ann := range c.Annotations {
		if ann.Kind != "boil" || ann.Target == "" {
			continue
		}
		val := c.StringProp(ann.Target)
		if val == "" {
			continue
		}
		for _, directive := range ann.Directives {
			switch directive {
			case "trim_whitespace":
				val = strings.TrimSpace(val)
			case "lowercase":
				val = strings.ToLower(val)
			case "uppercase":
				val = strings.ToUpper(val)
			}
		}
		c.SetProp(ann.Target, val)
	}
}

// generateCodeStage invokes the configured back-end, if any. It is not
// incremental-capable: artifacts are regenerated from scratch.
type generateCodeStage struct{}

func (generateCodeStage) Name() string      { return "generate_code" }
func (generateCodeStage) Incremental() bool { return false }

func (generateCodeStage) Run(_ context.Context, pc *Context) error {
	if pc.Options.Generator == "" {
		return nil
	}

	gen := pc.Generators.Get(pc.Options.Generator)
	if gen == nil {
		return fmt.Errorf("unknown generator back-end %q", pc.Options.Generator)
	}

	opts := export.DefaultOptions()
	if pc.Options.GeneratorTitle != "" {
		opts.Title = pc.Options.GeneratorTitle
	}
	art, err := gen.Generate(pc.Model, opts)
	if err != nil {
		return fmt.Errorf("generator %q failed: %w", gen.Name(), err)
	}
	pc.Artifact = art
	pc.Logger.Debug("artifact generated", "framework", art.Framework, "bytes", len(art.Text))
	return nil
}

// defaultStages returns the fixed stage sequence.
func defaultStages() []Stage {
	return []Stage{
		parsePatternsStage{},
		extractCandidatesStage{},
		matchPatternsStage{},
		buildHierarchyStage{},
		generateCodeStage{},
	}
}
