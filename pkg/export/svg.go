package export

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/deadcoast/hunt/pkg/model"
)

// Type colors for the SVG preview. Unlisted types fall back to gray.
var svgTypeColors = map[string]string{
	"window":  "#4a90d9",
	"panel":   "#7cb342",
	"button":  "#f4a742",
	"label":   "#9575cd",
	"input":   "#4db6ac",
	"unknown": "#9e9e9e",
}

// SVGGenerator renders component bounding boxes as a layout preview.
// Every box uses the same fill opacity; containers are drawn before their
// children.
type SVGGenerator struct{}

// NewSVGGenerator creates the svg back-end.
func NewSVGGenerator() *SVGGenerator {
	return &SVGGenerator{}
}

// Name returns "svg".
func (g *SVGGenerator) Name() string { return "svg" }

// Generate renders the model to an SVG document.
func (g *SVGGenerator) Generate(m *model.Model, opts Options) (*Artifact, error) {
	cw, ch := opts.CellWidth, opts.CellHeight
	if cw <= 0 {
		cw = 10
	}
	if ch <= 0 {
		ch = 18
	}

	maxX, maxY := 1, 1
	for _, c := range m.Components() {
		if x := c.BBox.X + c.BBox.Width; x > maxX {
			maxX = x
		}
		if y := c.BBox.Y + c.BBox.Height; y > maxY {
			maxY = y
		}
	}

	const margin = 20
	width := maxX*cw + 2*margin
	height := maxY*ch + 2*margin

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height)
	if opts.Title != "" {
		canvas.Title(opts.Title)
	}
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	// Draw containers before their children so nesting stacks correctly.
	for _, root := range m.Roots() {
		g.drawComponent(canvas, m, root, cw, ch, margin, 0)
	}

	canvas.End()
	return &Artifact{Framework: "svg", Text: buf.String()}, nil
}

func (g *SVGGenerator) drawComponent(canvas *svg.SVG, m *model.Model, c *model.Component, cw, ch, margin, depth int) {
	color, ok := svgTypeColors[c.Type]
	if !ok {
		color = svgTypeColors["unknown"]
	}

	x := margin + c.BBox.X*cw
	y := margin + c.BBox.Y*ch
	w := c.BBox.Width * cw
	h := c.BBox.Height * ch

	style := fmt.Sprintf("fill:%s;fill-opacity:0.25;stroke:%s;stroke-width:2", color, color)
	canvas.Rect(x, y, w, h, style)

	label := c.Type
	if text := c.StringProp("buttonText"); text != "" {
		label = fmt.Sprintf("%s: %s", c.Type, text)
	}
	canvas.Text(x+4, y+14, label, "font-family:monospace;font-size:11px;fill:#333333")

	for _, id := range m.Children(c.ID) {
		g.drawComponent(canvas, m, m.Component(id), cw, ch, margin, depth+1)
	}
}
