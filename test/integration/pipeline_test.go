package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/match"
	"github.com/deadcoast/hunt/pkg/model"
	"github.com/deadcoast/hunt/pkg/pipeline"
)

const standardPatterns = `##--#
Single-row bracketed push button.
#--##
<Button:
  [INIT =
    {param trap = (val max_height:(val 1), "buttons are single-row")}
    {param tag = (val "[", "]")}
    {param pluck:buttonText = (val "\[(.+?)\]")}
  ]
>
<EXEC: track>
##--#
Boxed top-level window.
#--##
<Window:
  [INIT =
    {param tag = (val "┌", "└")}
    {param trap = (val min_height:(val 2), "windows span rows")}
  ]
>
<EXEC: gather>
`

func run(t *testing.T, opts pipeline.Options, gridText string, patterns string) (*pipeline.Result, error) {
	t.Helper()
	p, err := pipeline.New(opts)
	require.NoError(t, err)
	return p.Run(context.Background(), grid.FromString(gridText), []string{patterns})
}

// Scenario: button recognition on a minimal grid.
func TestIntegration_ButtonRecognition(t *testing.T) {
	res, err := run(t, pipeline.DefaultOptions(), "  [Submit]  ", standardPatterns)
	require.NoError(t, err)
	require.Equal(t, diag.OutcomeOK, res.Outcome)

	buttons := res.Model.ByType("button")
	require.Len(t, buttons, 1, "exactly one button component")

	btn := res.Model.Component(buttons[0])
	assert.Equal(t, "Submit", btn.StringProp("buttonText"))
	assert.Equal(t, 1.0, btn.Confidence)
}

// Scenario: nested window produces a containment edge.
func TestIntegration_NestedWindow(t *testing.T) {
	gridText := strings.Join([]string{
		"┌──────────────────┐",
		"│                  │",
		"│      [OK]        │",
		"│                  │",
		"│                  │",
		"│                  │",
		"│                  │",
		"└──────────────────┘",
	}, "\n")

	res, err := run(t, pipeline.DefaultOptions(), gridText, standardPatterns)
	require.NoError(t, err)
	require.Equal(t, 2, res.Model.Len())

	windows := res.Model.ByType("window")
	buttons := res.Model.ByType("button")
	require.Len(t, windows, 1)
	require.Len(t, buttons, 1)

	assert.Equal(t, windows[0], res.Model.Parent(buttons[0]))
	assert.Len(t, res.Model.Children(windows[0]), 1)
	assert.Empty(t, res.Model.Children(buttons[0]))
	require.NoError(t, res.Model.Validate())
}

// Scenario: a misaligned tier-2 close is reported but the pattern still
// compiles and matches.
func TestIntegration_AlignmentFailure(t *testing.T) {
	misaligned := `<Button:
  [INIT =
    {param tag = (val "[", "]")}
    {param pluck:buttonText = (val "\[(.+?)\]")}
   ]
>
`
	res, err := run(t, pipeline.DefaultOptions(), "  [Go]  ", misaligned)
	require.NoError(t, err)

	count := 0
	for _, d := range res.Diagnostics {
		if d.Kind == diag.KindBracketUnaligned {
			count++
		}
	}
	require.Equal(t, 1, count, "exactly one E_BRACKET_UNALIGNED")

	buttons := res.Model.ByType("button")
	require.Len(t, buttons, 1, "the block still compiled into a working pattern")
	assert.Equal(t, "Go", res.Model.Component(buttons[0]).StringProp("buttonText"))
}

// Scenario: duplicate registration keeps the first pattern.
func TestIntegration_DuplicateRegistration(t *testing.T) {
	src := standardPatterns + `<Button:
  [INIT =
    {param tag = (val "(", ")")}
  ]
>
`
	res, err := run(t, pipeline.DefaultOptions(), "  [Go]  ", src)
	require.NoError(t, err)

	found := false
	for _, d := range res.Diagnostics {
		if d.Kind == diag.KindPatternDuplicate {
			found = true
		}
	}
	assert.True(t, found, "expected E_PATTERN_DUPLICATE")
	assert.Len(t, res.Model.ByType("button"), 1, "first registration stays active")
}

// Scenario: a failing snare aborts the run with no components and no
// generated artifact.
func TestIntegration_SnareAbort(t *testing.T) {
	src := standardPatterns + `<RequireWindow:
  [INIT =
    {param snare = (val grid_has_border, "grid must contain a window")}
  ]
>
<EXEC: validate>
`
	opts := pipeline.DefaultOptions()
	opts.Generator = "text"

	res, err := run(t, opts, "   nothing here   ", src)
	require.ErrorIs(t, err, pipeline.ErrFatal)
	assert.Equal(t, diag.OutcomeFatal, res.Outcome)
	assert.Nil(t, res.Model)
	assert.Nil(t, res.Artifact)

	found := false
	for _, d := range res.Diagnostics {
		if d.Kind == diag.KindSnareTriggered {
			found = true
		}
	}
	assert.True(t, found, "expected F_SNARE_TRIGGERED")
}

// Scenario: incremental edit re-evaluates only the touched candidate and
// matches a full re-run.
func TestIntegration_IncrementalEdit(t *testing.T) {
	gridText := strings.Join([]string{
		"┌──────────────────┐",
		"│                  │",
		"│      [OK]        │",
		"│                  │",
		"└──────────────────┘",
	}, "\n")

	opts := pipeline.DefaultOptions()
	opts.Incremental = true
	p, err := pipeline.New(opts)
	require.NoError(t, err)

	g := grid.FromString(gridText)
	first, err := p.Run(context.Background(), g, []string{standardPatterns})
	require.NoError(t, err)

	winID := first.Model.ByType("window")[0]

	g2 := g.Apply(9, 2, 'X') // [OK] -> [OX]
	inc, err := p.RunIncremental(context.Background(), first, g2, match.CellDelta(9, 2))
	require.NoError(t, err)

	require.NotNil(t, inc.Model.Component(winID), "window id must be stable")
	btnID := inc.Model.ByType("button")[0]
	assert.Equal(t, "OX", inc.Model.Component(btnID).StringProp("buttonText"))

	full, err := p.Run(context.Background(), g2, []string{standardPatterns})
	require.NoError(t, err)
	require.Equal(t, full.Model.Len(), inc.Model.Len())
	for i, fc := range full.Model.Components() {
		ic := inc.Model.Components()[i]
		assert.Equal(t, fc.ID, ic.ID)
		assert.Equal(t, fc.Type, ic.Type)
		assert.Equal(t, fc.Props, ic.Props)
	}
}

// End-to-end artifact generation through each built-in back-end.
func TestIntegration_GeneratorBackends(t *testing.T) {
	gridText := strings.Join([]string{
		"┌──────────┐",
		"│  [OK]    │",
		"│          │",
		"└──────────┘",
	}, "\n")

	tests := []struct {
		backend string
		probe   string
	}{
		{"text", "button"},
		{"json", `"components"`},
		{"svg", "<svg"},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			opts := pipeline.DefaultOptions()
			opts.Generator = tt.backend

			res, err := run(t, opts, gridText, standardPatterns)
			require.NoError(t, err)
			require.NotNil(t, res.Artifact)
			assert.Equal(t, tt.backend, res.Artifact.Framework)
			assert.Contains(t, res.Artifact.Text, tt.probe)
		})
	}
}

// The contains subgraph stays a forest for a deeply nested layout.
func TestIntegration_DeepNestingForest(t *testing.T) {
	gridText := strings.Join([]string{
		"┌────────────────────────────┐",
		"│ ┌──────────────────────┐   │",
		"│ │  ┌────────────────┐  │   │",
		"│ │  │  [Go]          │  │   │",
		"│ │  └────────────────┘  │   │",
		"│ └──────────────────────┘   │",
		"└────────────────────────────┘",
	}, "\n")

	res, err := run(t, pipeline.DefaultOptions(), gridText, standardPatterns)
	require.NoError(t, err)
	require.NoError(t, res.Model.Validate())

	// Each box nests in its immediate parent.
	var chain []*model.Component
	for _, c := range res.Model.Components() {
		if c.Type != "button" {
			chain = append(chain, c)
		}
	}
	require.Len(t, chain, 3)
	assert.Equal(t, "", res.Model.Parent(chain[0].ID))
	assert.Equal(t, chain[0].ID, res.Model.Parent(chain[1].ID))
	assert.Equal(t, chain[1].ID, res.Model.Parent(chain[2].ID))

	btn := res.Model.ByType("button")[0]
	assert.Equal(t, chain[2].ID, res.Model.Parent(btn))
}
