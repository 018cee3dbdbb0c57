package model

import (
	"sort"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/grid"
)

// containMargin shrinks containment queries by one cell so components that
// merely share a border line are not nested.
const containMargin = 1

// HierarchyBuilder turns a flat component set into a containment forest
// plus alignment and label edges.
type HierarchyBuilder struct {
	// CellSize configures the spatial index used for containment queries.
	CellSize int
}

// NewHierarchyBuilder creates a builder with the default index cell size.
func NewHierarchyBuilder() *HierarchyBuilder {
	return &HierarchyBuilder{CellSize: grid.DefaultCellSize}
}

// Build adds containment and auxiliary edges to the model in place. The
// model's components must already be final; Build only adds edges.
func (b *HierarchyBuilder) Build(m *Model, diags *diag.List) {
	b.buildContainment(m)
	b.buildAlignment(m)
	b.buildLabels(m)
	b.buildSiblingGroups(m)
	b.checkCycles(m, diags)
}

// buildContainment assigns each component to its smallest strict container.
// Components are processed by area ascending so an inner component is
// claimed by its immediate container before any larger ancestor sees it.
func (b *HierarchyBuilder) buildContainment(m *Model) {
	comps := m.Components()

	index := grid.NewSpatialIndex(b.CellSize)
	for _, c := range comps {
		index.Insert(c.ID, c.BBox)
	}

	order := make([]*Component, len(comps))
	copy(order, comps)
	sort.SliceStable(order, func(i, j int) bool {
		ai, aj := order[i].BBox.Area(), order[j].BBox.Area()
		if ai != aj {
			return ai < aj
		}
		if order[i].BBox.Y != order[j].BBox.Y {
			return order[i].BBox.Y < order[j].BBox.Y
		}
		return order[i].BBox.X < order[j].BBox.X
	})

	for _, container := range order {
		bb := container.BBox
		if bb.Width <= 2*containMargin || bb.Height <= 2*containMargin {
			continue
		}
		hits := index.QueryRect(
			bb.X+containMargin, bb.Y+containMargin,
			bb.X+bb.Width-1-containMargin, bb.Y+bb.Height-1-containMargin,
		)
		for _, id := range hits {
			if id == container.ID {
				continue
			}
			inner := m.Component(id)
			if !inner.BBox.StrictlyInside(bb, containMargin) {
				continue
			}
			if m.Parent(id) != "" {
				continue
			}
			// AddRelationship re-checks the forest invariants.
			_ = m.AddRelationship(container.ID, LabelContains, id)
		}
	}
}

// buildAlignment links siblings whose midlines coincide within one cell:
// aligns_h for shared horizontal bands, aligns_v for shared columns.
func (b *HierarchyBuilder) buildAlignment(m *Model) {
	for _, group := range b.siblingGroups(m) {
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				a, c := group[i], group[j]
				if midDiff(a.BBox.Y, a.BBox.Height, c.BBox.Y, c.BBox.Height) <= 1 {
					_ = m.AddRelationship(a.ID, LabelAlignsH, c.ID)
				}
				if midDiff(a.BBox.X, a.BBox.Width, c.BBox.X, c.BBox.Width) <= 1 {
					_ = m.AddRelationship(a.ID, LabelAlignsV, c.ID)
				}
			}
		}
	}
}

func midDiff(p1, len1, p2, len2 int) int {
	m1 := 2*p1 + len1 - 1
	m2 := 2*p2 + len2 - 1
	d := m1 - m2
	if d < 0 {
		d = -d
	}
	// Midlines are compared in half-cell units.
	return d / 2
}

// buildLabels connects each label-typed component to the first control of
// its sibling group that sits to its right (gap of at most 2 columns) or
// below it (gap of at most 1 row), when the label does not enclose it.
func (b *HierarchyBuilder) buildLabels(m *Model) {
	for _, group := range b.siblingGroups(m) {
		for _, label := range group {
			if label.Type != "label" {
				continue
			}
			for _, ctl := range group {
				if ctl.ID == label.ID || ctl.Type == "label" || ctl.Type == TypeUnknown {
					continue
				}
				if ctl.BBox.StrictlyInside(label.BBox, 0) {
					continue
				}
				if labelLeftOf(label.BBox, ctl.BBox) || labelAbove(label.BBox, ctl.BBox) {
					_ = m.AddRelationship(label.ID, LabelLabels, ctl.ID)
					break
				}
			}
		}
	}
}

// labelLeftOf: the label ends just left of the control and shares its row
// band.
func labelLeftOf(label, ctl grid.Rect) bool {
	gap := ctl.X - (label.X + label.Width)
	if gap < 0 || gap > 2 {
		return false
	}
	return midDiff(label.Y, label.Height, ctl.Y, ctl.Height) <= 1
}

// labelAbove: the label sits directly above the control with overlapping
// columns.
func labelAbove(label, ctl grid.Rect) bool {
	gap := ctl.Y - (label.Y + label.Height)
	if gap < 0 || gap > 1 {
		return false
	}
	return label.X < ctl.X+ctl.Width && ctl.X < label.X+label.Width
}

// buildSiblingGroups links runs of same-typed siblings in reading order.
func (b *HierarchyBuilder) buildSiblingGroups(m *Model) {
	for _, group := range b.siblingGroups(m) {
		byType := make(map[string][]*Component)
		for _, c := range group {
			if c.Type != TypeUnknown {
				byType[c.Type] = append(byType[c.Type], c)
			}
		}
		types := make([]string, 0, len(byType))
		for t := range byType {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			comps := byType[t]
			for i := 0; i+1 < len(comps); i++ {
				_ = m.AddRelationship(comps[i].ID, LabelSibling, comps[i+1].ID)
			}
		}
	}
}

// siblingGroups returns components grouped by their contains parent, with
// the parentless components forming the root group. Group members keep
// insertion order.
func (b *HierarchyBuilder) siblingGroups(m *Model) [][]*Component {
	groups := make(map[string][]*Component)
	var keys []string
	for _, c := range m.Components() {
		key := m.Parent(c.ID)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], c)
	}
	out := make([][]*Component, 0, len(keys))
	for _, k := range keys {
		out = append(out, groups[k])
	}
	return out
}

// checkCycles is the post-build invariant check. The strict-inside rule
// makes cycles impossible, but a violation would corrupt every later
// stage, so it is verified and offending edges are dropped with a warning.
func (b *HierarchyBuilder) checkCycles(m *Model, diags *diag.List) {
	if err := m.Validate(); err == nil {
		return
	}

	for _, c := range m.Components() {
		seen := map[string]bool{}
		cur := c.ID
		for cur != "" {
			if seen[cur] {
				parent := m.Parent(cur)
				m.RemoveRelationship(parent, LabelContains, cur)
				diags.AddComponent(diag.KindModelCycle, diag.SeverityWarn, cur,
					"containment cycle detected; dropped edge %s -contains-> %s", parent, cur)
				break
			}
			seen[cur] = true
			cur = m.Parent(cur)
		}
	}
}
