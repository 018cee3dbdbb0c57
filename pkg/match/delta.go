package match

import (
	"context"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/extract"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/pattern"
)

// DeltaKind classifies a change delta.
type DeltaKind int

const (
	// DeltaCell is a single-cell edit.
	DeltaCell DeltaKind = iota
	// DeltaRegion is a rectangular edit.
	DeltaRegion
	// DeltaFull invalidates the whole grid.
	DeltaFull
)

// Delta describes a grid change offered to incremental-capable stages.
type Delta struct {
	Kind DeltaKind

	// X, Y locate a cell delta.
	X, Y int

	// Region bounds a region delta.
	Region grid.Rect
}

// CellDelta builds a single-cell delta.
func CellDelta(x, y int) Delta {
	return Delta{Kind: DeltaCell, X: x, Y: y}
}

// Overlaps reports whether the delta touches the rectangle.
func (d Delta) Overlaps(r grid.Rect) bool {
	switch d.Kind {
	case DeltaCell:
		return r.Contains(d.X, d.Y)
	case DeltaRegion:
		return r.Intersects(d.Region)
	default:
		return true
	}
}

// Reevaluate re-runs matching for only the candidates whose bounding box
// overlaps the delta, carrying previous outcomes forward for the rest. The
// caller supplies the edited grid and the candidates extracted from it;
// candidate identity is preserved by the deterministic id assignment.
func (e *Engine) Reevaluate(ctx context.Context, g *grid.Grid, cands []*extract.Candidate, prev map[string]*Outcome, delta Delta, diags *diag.List) (map[string]*Outcome, error) {
	if delta.Kind == DeltaFull || prev == nil {
		return e.EvaluateAll(ctx, g, cands, diags)
	}

	// Grid-level validate patterns re-run on every delta: the grid is
	// what changed.
	for _, p := range e.reg.List() {
		if p.Kind == pattern.KindValidate {
			e.evaluatePattern(p, g, nil, diags)
		}
	}

	out := make(map[string]*Outcome, len(cands))
	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if old, ok := prev[cand.ID]; ok && !delta.Overlaps(cand.BBox) {
			out[cand.ID] = old
			continue
		}
		out[cand.ID] = e.evaluateCandidate(g, cand, diags)
	}
	return out, nil
}
