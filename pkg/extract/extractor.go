package extract

import (
	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
)

// Minimum bounding-box size for box candidates. Anything smaller is border
// noise, not a component.
const (
	minBoxWidth  = 2
	minBoxHeight = 2
)

// Extractor produces candidates from a grid. The zero value is ready to use.
type Extractor struct{}

// NewExtractor creates an extractor with default settings.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs the two-phase extraction: boundary marking, then 4-connected
// flood fill. Connected boundary sets become box candidates; bracketed
// single-row spans become inline candidates. An empty grid produces no
// candidates; extraction never aborts the pipeline.
func (e *Extractor) Extract(g *grid.Grid, diags *diag.List) []*Candidate {
	if g == nil || g.Width() == 0 || g.Height() == 0 {
		return nil
	}

	boundary := markBoundaries(g)
	repairGaps(g, boundary)
	var cands []*Candidate
	cands = append(cands, boxCandidates(g, boundary, diags)...)
	cands = append(cands, inlineCandidates(g, boundary)...)
	sortCandidates(cands)
	return cands
}

// repairGaps closes single-cell holes in a border line before connectivity
// is computed. A hole is repaired only when the characters on both sides
// belong to the same family and actually connect toward the hole, so the
// space between two side-by-side boxes is never bridged ('┐' does not
// connect rightward).
func repairGaps(g *grid.Grid, boundary []bool) {
	w, h := g.Width(), g.Height()

	var fill []int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if boundary[y*w+x] {
				continue
			}
			l, r := g.CharAt(x-1, y), g.CharAt(x+1, y)
			u, d := g.CharAt(x, y-1), g.CharAt(x, y+1)
			if x > 0 && x < w-1 && boundary[y*w+x-1] && boundary[y*w+x+1] &&
				grid.SameFamily(l, r) &&
				grid.Connections(l)&grid.ConnRight != 0 && grid.Connections(r)&grid.ConnLeft != 0 {
				fill = append(fill, y*w+x)
				continue
			}
			if y > 0 && y < h-1 && boundary[(y-1)*w+x] && boundary[(y+1)*w+x] &&
				grid.SameFamily(u, d) &&
				grid.Connections(u)&grid.ConnDown != 0 && grid.Connections(d)&grid.ConnUp != 0 {
				fill = append(fill, y*w+x)
			}
		}
	}
	for _, idx := range fill {
		boundary[idx] = true
	}
}

// markBoundaries is phase 1: classify every cell against the border table.
func markBoundaries(g *grid.Grid) []bool {
	w, h := g.Width(), g.Height()
	marks := make([]bool, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.IsBoundaryAt(x, y) {
				marks[y*w+x] = true
			}
		}
	}
	return marks
}

// boxCandidates groups boundary cells into connected components and emits
// one candidate per component whose bounding box is at least 2x2. Interior
// cells are gathered by 4-connected flood fill within the box.
func boxCandidates(g *grid.Grid, boundary []bool, diags *diag.List) []*Candidate {
	w, h := g.Width(), g.Height()
	comp := make([]int, w*h)
	for i := range comp {
		comp[i] = -1
	}

	next := 0
	var boxes []*Candidate
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if !boundary[idx] || comp[idx] != -1 {
				continue
			}

			// Walk over this boundary component.
			cells := []grid.Point{{X: x, Y: y}}
			comp[idx] = next
			for head := 0; head < len(cells); head++ {
				p := cells[head]
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						if dx == 0 && dy == 0 {
							continue
						}
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || nx >= w || ny < 0 || ny >= h {
							continue
						}
						// Two line-drawing characters join only where each draws
						// toward the other, so the parallel borders of nested boxes
						// stay apart; any other boundary cell joins all 8 neighbours.
						a, b := grid.Connections(g.CharAt(p.X, p.Y)), grid.Connections(g.CharAt(nx, ny))
						if a != 0 && b != 0 && !((dy == 0 && dx == 1 && a&grid.ConnRight != 0 && b&grid.ConnLeft != 0) ||
							(dy == 0 && dx == -1 && a&grid.ConnLeft != 0 && b&grid.ConnRight != 0) ||
							(dx == 0 && dy == 1 && a&grid.ConnDown != 0 && b&grid.ConnUp != 0) ||
							(dx == 0 && dy == -1 && a&grid.ConnUp != 0 && b&grid.ConnDown != 0)) {
							continue
						}
						ni := ny*w + nx
						if boundary[ni] && comp[ni] == -1 {
							comp[ni] = next
							cells = append(cells, grid.Point{X: nx, Y: ny})
						}
					}
				}
			}
			next++

			bbox := boundsOf(cells)
			if bbox.Width < minBoxWidth || bbox.Height < minBoxHeight {
				continue
			}
			boxes = append(boxes, buildBox(g, boundary, cells, bbox, diags))
		}
	}
	return boxes
}

func boundsOf(cells []grid.Point) grid.Rect {
	minX, minY := cells[0].X, cells[0].Y
	maxX, maxY := minX, minY
	for _, p := range cells[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return grid.Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

func buildBox(g *grid.Grid, boundary []bool, cells []grid.Point, bbox grid.Rect, diags *diag.List) *Candidate {
	c := &Candidate{
		BBox:     bbox,
		Boundary: cells,
	}

	// Phase 2: 4-connected fill over non-boundary cells inside the box.
	c.Interior = fillInterior(g, boundary, bbox)

	for y := bbox.Y; y < bbox.Y+bbox.Height; y++ {
		c.Rows = append(c.Rows, string(g.Region(bbox.X, y, bbox.X+bbox.Width-1, y).Row(0)))
	}

	c.BorderStyle = majorityFamily(g, cells)
	if !perimeterComplete(g, boundary, bbox) {
		c.BoundaryIncomplete = true
		diags.Addf(diag.KindBoundaryIncomplete, diag.SeverityWarn,
			"candidate at (%d,%d) %dx%d has an unclosed border", bbox.X, bbox.Y, bbox.Width, bbox.Height)
	}
	return c
}

// fillInterior flood-fills non-boundary cells inside the box, seeded from
// every non-boundary cell so disjoint pockets are all collected.
func fillInterior(g *grid.Grid, boundary []bool, bbox grid.Rect) []grid.Point {
	w := g.Width()
	var interior []grid.Point
	seen := make(map[grid.Point]bool)

	for y := bbox.Y; y < bbox.Y+bbox.Height; y++ {
		for x := bbox.X; x < bbox.X+bbox.Width; x++ {
			start := grid.Point{X: x, Y: y}
			if boundary[y*w+x] || seen[start] {
				continue
			}
			stack := []grid.Point{start}
			seen[start] = true
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				interior = append(interior, p)
				for _, d := range [4]grid.Point{{X: 1}, {X: -1}, {Y: 1}, {Y: -1}} {
					np := grid.Point{X: p.X + d.X, Y: p.Y + d.Y}
					if !bbox.Contains(np.X, np.Y) || seen[np] || boundary[np.Y*w+np.X] {
						continue
					}
					seen[np] = true
					stack = append(stack, np)
				}
			}
		}
	}
	return interior
}

// perimeterComplete reports whether every bounding-box ring cell is a
// boundary cell. Single-cell gaps were already closed by repairGaps, so any
// remaining hole means the border genuinely does not close.
func perimeterComplete(g *grid.Grid, boundary []bool, bbox grid.Rect) bool {
	w := g.Width()
	for _, p := range perimeter(bbox) {
		if !boundary[p.Y*w+p.X] {
			return false
		}
	}
	return true
}

// perimeter returns the ring cells of a rect in clockwise order starting at
// the top-left corner.
func perimeter(b grid.Rect) []grid.Point {
	var ring []grid.Point
	for x := b.X; x < b.X+b.Width; x++ {
		ring = append(ring, grid.Point{X: x, Y: b.Y})
	}
	for y := b.Y + 1; y < b.Y+b.Height; y++ {
		ring = append(ring, grid.Point{X: b.X + b.Width - 1, Y: y})
	}
	if b.Height > 1 {
		for x := b.X + b.Width - 2; x >= b.X; x-- {
			ring = append(ring, grid.Point{X: x, Y: b.Y + b.Height - 1})
		}
	}
	if b.Width > 1 {
		for y := b.Y + b.Height - 2; y > b.Y; y-- {
			ring = append(ring, grid.Point{X: b.X, Y: y})
		}
	}
	return ring
}

func majorityFamily(g *grid.Grid, cells []grid.Point) grid.BorderFamily {
	counts := make(map[grid.BorderFamily]int)
	for _, p := range cells {
		counts[grid.ClassifyBorder(g.CharAt(p.X, p.Y))]++
	}
	best := grid.FamilyNone
	bestN := 0
	for _, f := range [5]grid.BorderFamily{grid.FamilySingle, grid.FamilyDouble, grid.FamilyHeavy, grid.FamilyRounded, grid.FamilyCustom} {
		if counts[f] > bestN {
			best, bestN = f, counts[f]
		}
	}
	return best
}

// inlineCandidates emits bracketed spans like [OK] found on a single row.
// The brackets are the boundary set; the text between is the interior. A
// span is emitted only when the brackets are isolated cells, not part of a
// larger connected border.
func inlineCandidates(g *grid.Grid, boundary []bool) []*Candidate {
	w, h := g.Width(), g.Height()
	var cands []*Candidate

	// A bracket that continues a border run on its own row is part of that
	// border, not a span delimiter.
	isolated := func(x, y int) bool {
		if x > 0 && boundary[y*w+x-1] {
			return false
		}
		if x < w-1 && boundary[y*w+x+1] {
			return false
		}
		return true
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g.CharAt(x, y) != '[' || !isolated(x, y) {
				continue
			}
			end := -1
			for x2 := x + 1; x2 < w; x2++ {
				ch := g.CharAt(x2, y)
				if ch == ']' {
					end = x2
					break
				}
				if grid.IsBoundary(ch) {
					break
				}
			}
			if end < 0 || end == x+1 || !isolated(end, y) {
				continue
			}

			bbox := grid.Rect{X: x, Y: y, Width: end - x + 1, Height: 1}
			c := &Candidate{
				BBox:        bbox,
				Boundary:    []grid.Point{{X: x, Y: y}, {X: end, Y: y}},
				BorderStyle: grid.FamilyCustom,
				Rows:        []string{string(g.Region(x, y, end, y).Row(0))},
			}
			for ix := x + 1; ix < end; ix++ {
				c.Interior = append(c.Interior, grid.Point{X: ix, Y: y})
			}
			cands = append(cands, c)
			x = end
		}
	}
	return cands
}
