package model

import (
	"testing"

	"github.com/deadcoast/hunt/pkg/grid"
)

func newComp(id, typ string, x, y, w, h int) *Component {
	return NewComponent(id, typ, grid.Rect{X: x, Y: y, Width: w, Height: h})
}

func mustAdd(t *testing.T, m *Model, c *Component) {
	t.Helper()
	if err := m.AddComponent(c); err != nil {
		t.Fatalf("AddComponent(%s): %v", c.ID, err)
	}
}

func TestAddComponentDuplicate(t *testing.T) {
	m := New()
	mustAdd(t, m, newComp("a", "button", 0, 0, 4, 1))
	if err := m.AddComponent(newComp("a", "button", 0, 0, 4, 1)); err == nil {
		t.Error("duplicate id must be rejected")
	}
}

func TestAddRelationshipValidation(t *testing.T) {
	m := New()
	mustAdd(t, m, newComp("a", "window", 0, 0, 10, 10))
	mustAdd(t, m, newComp("b", "button", 2, 2, 4, 1))

	tests := []struct {
		name    string
		src     string
		label   Label
		tgt     string
		wantErr bool
	}{
		{"valid_contains", "a", LabelContains, "b", false},
		{"duplicate_triple", "a", LabelContains, "b", true},
		{"dead_target", "a", LabelContains, "zzz", true},
		{"dead_source", "zzz", LabelLabels, "b", true},
		{"bad_label", "a", Label("decorates"), "b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.AddRelationship(tt.src, tt.label, tt.tgt)
			if (err != nil) != tt.wantErr {
				t.Errorf("AddRelationship() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestContainsForestInvariants(t *testing.T) {
	m := New()
	mustAdd(t, m, newComp("a", "window", 0, 0, 20, 20))
	mustAdd(t, m, newComp("b", "panel", 1, 1, 10, 10))
	mustAdd(t, m, newComp("c", "button", 2, 2, 4, 1))

	if err := m.AddRelationship("a", LabelContains, "b"); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRelationship("b", LabelContains, "c"); err != nil {
		t.Fatal(err)
	}

	// Second parent rejected.
	if err := m.AddRelationship("a", LabelContains, "c"); err == nil {
		t.Error("a component may have at most one contains parent")
	}
	// Cycle rejected.
	if err := m.AddRelationship("c", LabelContains, "a"); err == nil {
		t.Error("contains cycle must be rejected")
	}
	// Auxiliary edges may still close cycles.
	if err := m.AddRelationship("c", LabelControls, "a"); err != nil {
		t.Errorf("auxiliary edge should be allowed: %v", err)
	}

	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	roots := m.Roots()
	if len(roots) != 1 || roots[0].ID != "a" {
		t.Errorf("Roots() = %v, want [a]", roots)
	}
	if kids := m.Children("b"); len(kids) != 1 || kids[0] != "c" {
		t.Errorf("Children(b) = %v, want [c]", kids)
	}
}

func TestRemoveRelationship(t *testing.T) {
	m := New()
	mustAdd(t, m, newComp("a", "window", 0, 0, 10, 10))
	mustAdd(t, m, newComp("b", "button", 2, 2, 4, 1))
	if err := m.AddRelationship("a", LabelContains, "b"); err != nil {
		t.Fatal(err)
	}

	m.RemoveRelationship("a", LabelContains, "b")
	if m.Parent("b") != "" {
		t.Error("Parent should be cleared after removing the contains edge")
	}
	if len(m.Relationships()) != 0 {
		t.Error("edge list should be empty")
	}
	// Re-adding is now legal.
	if err := m.AddRelationship("a", LabelContains, "b"); err != nil {
		t.Errorf("re-add after removal: %v", err)
	}
}
