package pipeline

import (
	"github.com/charmbracelet/log"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/export"
	"github.com/deadcoast/hunt/pkg/extract"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/match"
	"github.com/deadcoast/hunt/pkg/model"
	"github.com/deadcoast/hunt/pkg/parser"
	"github.com/deadcoast/hunt/pkg/pattern"
)

// Context is the per-run state shared between stages: each well-known slot
// is written by exactly one stage and readable by every later one. It is
// created at run start and discarded at the end.
type Context struct {
	// Inputs.
	Grid    *grid.Grid
	Sources []string
	Options Options

	// Diagnostics accumulate across all stages.
	Diags *diag.List

	// parse_patterns output.
	Program  *parser.Program
	Registry *pattern.Registry

	// extract_candidates output.
	Candidates []*extract.Candidate

	// match_patterns output.
	Engine   *match.Engine
	Outcomes map[string]*match.Outcome

	// build_hierarchy output.
	Model *model.Model

	// generate_code collaborators and output.
	Generators *export.Registry
	Artifact   *export.Artifact

	Logger *log.Logger
}
