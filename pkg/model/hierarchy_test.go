package model

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
)

func buildModel(t *testing.T, comps ...*Component) *Model {
	t.Helper()
	m := New()
	for _, c := range comps {
		mustAdd(t, m, c)
	}
	NewHierarchyBuilder().Build(m, diag.NewList())
	return m
}

func TestBuildSimpleContainment(t *testing.T) {
	m := buildModel(t,
		newComp("win", "window", 0, 0, 20, 8),
		newComp("btn", "button", 6, 2, 4, 1),
	)

	if m.Parent("btn") != "win" {
		t.Errorf("Parent(btn) = %q, want win", m.Parent("btn"))
	}
	if len(m.Children("win")) != 1 {
		t.Errorf("Children(win) = %v, want one child", m.Children("win"))
	}
	if len(m.Children("btn")) != 0 {
		t.Errorf("Children(btn) = %v, want none", m.Children("btn"))
	}
}

func TestBuildThreeLevelNesting(t *testing.T) {
	m := buildModel(t,
		newComp("outer", "window", 0, 0, 30, 20),
		newComp("panel", "panel", 2, 2, 20, 12),
		newComp("btn", "button", 4, 4, 6, 1),
	)

	// The button's parent is the innermost container, not the window.
	if m.Parent("btn") != "panel" {
		t.Errorf("Parent(btn) = %q, want panel", m.Parent("btn"))
	}
	if m.Parent("panel") != "outer" {
		t.Errorf("Parent(panel) = %q, want outer", m.Parent("panel"))
	}
}

func TestBuildSharedBorderNotContained(t *testing.T) {
	// The inner box touches the outer border; the 1-cell margin excludes it.
	m := buildModel(t,
		newComp("a", "window", 0, 0, 10, 10),
		newComp("b", "panel", 0, 2, 5, 5),
	)

	if m.Parent("b") != "" {
		t.Errorf("Parent(b) = %q, want no parent for border-touching box", m.Parent("b"))
	}
}

func TestBuildAlignmentEdges(t *testing.T) {
	m := buildModel(t,
		newComp("win", "window", 0, 0, 40, 10),
		newComp("b1", "button", 4, 4, 6, 1),
		newComp("b2", "button", 14, 4, 6, 1),
		newComp("b3", "button", 4, 7, 6, 1),
	)

	has := func(src string, label Label, tgt string) bool {
		for _, r := range m.Relationships() {
			if r == (Relationship{Source: src, Label: label, Target: tgt}) {
				return true
			}
		}
		return false
	}

	if !has("b1", LabelAlignsH, "b2") {
		t.Error("b1 and b2 share a row; want aligns_h")
	}
	if !has("b1", LabelAlignsV, "b3") {
		t.Error("b1 and b3 share a column; want aligns_v")
	}
	if has("b1", LabelAlignsH, "b3") {
		t.Error("b1 and b3 are on different rows; no aligns_h")
	}
	if !has("b1", LabelSibling, "b2") || !has("b2", LabelSibling, "b3") {
		t.Error("same-typed siblings should chain with sibling_in_group")
	}
}

func TestBuildLabelEdges(t *testing.T) {
	m := buildModel(t,
		newComp("win", "window", 0, 0, 40, 10),
		newComp("lbl", "label", 2, 4, 6, 1),
		newComp("fld", "input", 10, 4, 12, 1),
	)

	found := false
	for _, r := range m.Relationships() {
		if r.Label == LabelLabels && r.Source == "lbl" && r.Target == "fld" {
			found = true
		}
	}
	if !found {
		t.Error("label left of input should produce a labels edge")
	}
}

// TestBuildForestProperty: for arbitrary component layouts, the contains
// subgraph is always a forest with every component reachable from a root.
func TestBuildForestProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		m := New()
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		for i := 0; i < n; i++ {
			x := rapid.IntRange(0, 30).Draw(rt, "x")
			y := rapid.IntRange(0, 30).Draw(rt, "y")
			w := rapid.IntRange(2, 20).Draw(rt, "w")
			h := rapid.IntRange(2, 20).Draw(rt, "h")
			c := NewComponent(fmt.Sprintf("c%02d", i), "panel", grid.Rect{X: x, Y: y, Width: w, Height: h})
			if err := m.AddComponent(c); err != nil {
				rt.Fatalf("AddComponent: %v", err)
			}
		}

		diags := diag.NewList()
		NewHierarchyBuilder().Build(m, diags)

		if err := m.Validate(); err != nil {
			rt.Fatalf("model invariant violated: %v", err)
		}
		for _, c := range m.Components() {
			if p := m.Parent(c.ID); p != "" {
				parent := m.Component(p)
				if !c.BBox.StrictlyInside(parent.BBox, 1) {
					rt.Fatalf("%s nested in %s without strict containment", c.ID, p)
				}
			}
		}
	})
}
