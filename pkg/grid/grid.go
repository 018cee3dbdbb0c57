package grid

import (
	"strings"
)

// Empty is the sentinel returned for reads outside the grid bounds.
const Empty rune = 0

// Point represents a 2D cell coordinate.
type Point struct {
	X, Y int
}

// Rect represents axis-aligned rectangular bounds. Width and Height are in
// cells; a Rect with Width or Height zero contains nothing.
type Rect struct {
	X, Y, Width, Height int
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Area returns the number of cells covered by the rectangle.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Intersects reports whether two rectangles share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

// StrictlyInside reports whether r lies entirely inside o with at least
// margin cells of clearance on every side.
func (r Rect) StrictlyInside(o Rect, margin int) bool {
	return r.X >= o.X+margin && r.Y >= o.Y+margin &&
		r.X+r.Width <= o.X+o.Width-margin &&
		r.Y+r.Height <= o.Y+o.Height-margin
}

// Grid is a rectangular buffer of Unicode scalar values. It is immutable
// after construction for the duration of a pipeline run; edits produce a
// new Grid via Apply.
type Grid struct {
	width  int
	height int
	cells  []rune
}

// New builds a grid from text lines. Lines shorter than the longest line
// are padded with spaces so the buffer is rectangular.
func New(lines []string) *Grid {
	width := 0
	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
		if len(rows[i]) > width {
			width = len(rows[i])
		}
	}

	g := &Grid{
		width:  width,
		height: len(lines),
		cells:  make([]rune, width*len(lines)),
	}
	for y, row := range rows {
		for x := 0; x < width; x++ {
			if x < len(row) {
				g.cells[y*width+x] = row[x]
			} else {
				g.cells[y*width+x] = ' '
			}
		}
	}
	return g
}

// FromString builds a grid from newline-separated text. A trailing newline
// does not produce an extra empty row.
func FromString(text string) *Grid {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return New(nil)
	}
	return New(strings.Split(text, "\n"))
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// CharAt returns the rune at (x, y), or Empty if the coordinate is outside
// the bounds. It never fails.
func (g *Grid) CharAt(x, y int) rune {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return Empty
	}
	return g.cells[y*g.width+x]
}

// Row returns row y as a rune slice, or nil if y is out of bounds.
// The returned slice is a copy.
func (g *Grid) Row(y int) []rune {
	if y < 0 || y >= g.height {
		return nil
	}
	row := make([]rune, g.width)
	copy(row, g.cells[y*g.width:(y+1)*g.width])
	return row
}

// RowString returns row y as a string, or "" if y is out of bounds.
func (g *Grid) RowString(y int) string {
	r := g.Row(y)
	if r == nil {
		return ""
	}
	return string(r)
}

// Region returns a copy of the inclusive rectangle (x1,y1)-(x2,y2) as a new
// grid. Out-of-bounds cells are filled with spaces.
func (g *Grid) Region(x1, y1, x2, y2 int) *Grid {
	if x2 < x1 || y2 < y1 {
		return New(nil)
	}
	width := x2 - x1 + 1
	height := y2 - y1 + 1
	sub := &Grid{width: width, height: height, cells: make([]rune, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ch := g.CharAt(x1+x, y1+y)
			if ch == Empty {
				ch = ' '
			}
			sub.cells[y*width+x] = ch
		}
	}
	return sub
}

// Apply returns a new grid with the given cell replaced. The receiver is
// unchanged. Out-of-bounds coordinates return the receiver unchanged.
func (g *Grid) Apply(x, y int, ch rune) *Grid {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return g
	}
	next := &Grid{width: g.width, height: g.height, cells: make([]rune, len(g.cells))}
	copy(next.cells, g.cells)
	next.cells[y*g.width+x] = ch
	return next
}

// String renders the grid as newline-joined rows.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(g.RowString(y))
	}
	return sb.String()
}
