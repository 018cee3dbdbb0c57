package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deadcoast/hunt/pkg/grid"
)

// Candidate is a region extracted from the grid, before pattern
// classification. Ids are assigned in deterministic emission order
// (bounding-box area descending, then top-left y, then x) so repeated runs
// over the same grid agree.
type Candidate struct {
	// ID is unique within one run, of the form cand-0001.
	ID string

	// BBox is the axis-aligned bounding box covering boundary and interior.
	BBox grid.Rect

	// Interior lists the non-boundary cells inside the bounding box.
	Interior []grid.Point

	// Boundary lists the boundary cells collected for this candidate.
	Boundary []grid.Point

	// Rows holds the verbatim grid rows of the bounding box, border
	// included, preserving interior spaces and layout.
	Rows []string

	// BorderStyle is the majority family of the boundary characters.
	BorderStyle grid.BorderFamily

	// BoundaryIncomplete marks candidates whose border had a gap wider
	// than one cell.
	BoundaryIncomplete bool
}

// InteriorText returns the rows joined with newlines. Pluck rules run their
// regexes against this text.
func (c *Candidate) InteriorText() string {
	return strings.Join(c.Rows, "\n")
}

// BoundaryText returns the boundary characters in row-major order. Tag
// rules use it together with InteriorText for literal lookup.
func (c *Candidate) BoundaryText(g *grid.Grid) string {
	pts := make([]grid.Point, len(c.Boundary))
	copy(pts, c.Boundary)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	var sb strings.Builder
	for _, p := range pts {
		sb.WriteRune(g.CharAt(p.X, p.Y))
	}
	return sb.String()
}

// sortCandidates orders candidates by bounding-box area descending, then
// top-left y, then x, and assigns ids in that order.
func sortCandidates(cands []*Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		ai, aj := cands[i].BBox.Area(), cands[j].BBox.Area()
		if ai != aj {
			return ai > aj
		}
		if cands[i].BBox.Y != cands[j].BBox.Y {
			return cands[i].BBox.Y < cands[j].BBox.Y
		}
		return cands[i].BBox.X < cands[j].BBox.X
	})
	for i, c := range cands {
		c.ID = fmt.Sprintf("cand-%04d", i+1)
	}
}
