package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deadcoast/hunt/pkg/model"
)

// TextGenerator renders the component tree as indented text for debugging
// and quick inspection.
type TextGenerator struct{}

// NewTextGenerator creates the text back-end.
func NewTextGenerator() *TextGenerator {
	return &TextGenerator{}
}

// Name returns "text".
func (g *TextGenerator) Name() string { return "text" }

// Generate renders a header, the containment tree, and the auxiliary
// relationship list.
func (g *TextGenerator) Generate(m *model.Model, opts Options) (*Artifact, error) {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = "HUNT layout"
	}
	sb.WriteString(fmt.Sprintf("== %s ==\n", title))
	sb.WriteString(fmt.Sprintf("components: %d\n\n", m.Len()))

	for _, root := range m.Roots() {
		g.writeComponent(&sb, m, root, 0)
	}

	aux := auxiliaryEdges(m)
	if len(aux) > 0 {
		sb.WriteString("\nrelationships:\n")
		for _, r := range aux {
			sb.WriteString(fmt.Sprintf("  %s -%s-> %s\n", r.Source, r.Label, r.Target))
		}
	}

	return &Artifact{Framework: "text", Text: sb.String()}, nil
}

func (g *TextGenerator) writeComponent(sb *strings.Builder, m *model.Model, c *model.Component, depth int) {
	indent := strings.Repeat("  ", depth)
	sb.WriteString(fmt.Sprintf("%s%s [%s] at (%d,%d) %dx%d",
		indent, c.ID, c.Type, c.BBox.X, c.BBox.Y, c.BBox.Width, c.BBox.Height))

	if len(c.Props) > 0 {
		keys := make([]string, 0, len(c.Props))
		for k := range c.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, c.Props[k])
		}
		sb.WriteString(" {" + strings.Join(parts, ", ") + "}")
	}
	sb.WriteByte('\n')

	for _, id := range m.Children(c.ID) {
		g.writeComponent(sb, m, m.Component(id), depth+1)
	}
}

func auxiliaryEdges(m *model.Model) []model.Relationship {
	var out []model.Relationship
	for _, r := range m.Relationships() {
		if r.Label != model.LabelContains {
			out = append(out, r)
		}
	}
	return out
}
