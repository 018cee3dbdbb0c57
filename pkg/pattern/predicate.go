package pattern

import (
	"fmt"
	"strings"

	"github.com/deadcoast/hunt/pkg/extract"
	"github.com/deadcoast/hunt/pkg/grid"
)

// PredicateContext is what a trap/snare/scent predicate can see: the run's
// grid and the candidate under evaluation.
type PredicateContext struct {
	Grid      *grid.Grid
	Candidate *extract.Candidate
}

// Predicate is a compiled structural check drawn from the built-in table.
type Predicate struct {
	// Name is the snake_case predicate identifier from the source.
	Name string

	fn func(PredicateContext) bool
}

// Eval runs the predicate.
func (p *Predicate) Eval(pc PredicateContext) bool {
	return p.fn(pc)
}

// CompilePredicate resolves a predicate name and its arguments against the
// built-in table. Unknown names return an error; the enclosing pattern is
// dropped.
func CompilePredicate(name string, intArg int, strArg string) (*Predicate, error) {
	var fn func(PredicateContext) bool

	switch name {
	case "has_border":
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && len(pc.Candidate.Boundary) > 0 &&
				pc.Candidate.BorderStyle != grid.FamilyNone
		}
	case "border_complete":
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && !pc.Candidate.BoundaryIncomplete
		}
	case "grid_has_border":
		fn = func(pc PredicateContext) bool {
			if pc.Grid == nil {
				return false
			}
			for y := 0; y < pc.Grid.Height(); y++ {
				for x := 0; x < pc.Grid.Width(); x++ {
					if pc.Grid.IsBoundaryAt(x, y) {
						return true
					}
				}
			}
			return false
		}
	case "non_empty_interior":
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && strings.TrimSpace(pc.Candidate.InteriorText()) != ""
		}
	case "min_width":
		n := intArg
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && pc.Candidate.BBox.Width >= n
		}
	case "min_height":
		n := intArg
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && pc.Candidate.BBox.Height >= n
		}
	case "max_width":
		n := intArg
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && pc.Candidate.BBox.Width <= n
		}
	case "max_height":
		n := intArg
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && pc.Candidate.BBox.Height <= n
		}
	case "contains_text":
		s := strArg
		fn = func(pc PredicateContext) bool {
			return pc.Candidate != nil && strings.Contains(pc.Candidate.InteriorText(), s)
		}
	default:
		return nil, fmt.Errorf("unknown predicate %q", name)
	}

	return &Predicate{Name: name, fn: fn}, nil
}
