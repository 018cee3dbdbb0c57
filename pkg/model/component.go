package model

import (
	"github.com/deadcoast/hunt/pkg/grid"
)

// TypeUnknown is assigned to candidates no pattern matched.
const TypeUnknown = "unknown"

// Component is a classified candidate. Mutation goes through the model's
// API so the indexes stay consistent.
type Component struct {
	// ID is the stable identifier, equal to the originating candidate's.
	ID string `json:"id"`

	// Type is the best-matching pattern's type tag, or unknown.
	Type string `json:"type"`

	// Confidence is the aggregate confidence of the winning pattern.
	Confidence float64 `json:"confidence"`

	// Props holds extracted properties: string, int, bool, or a nested
	// map. Keys are unique by construction.
	Props map[string]interface{} `json:"props,omitempty"`

	// BBox is the originating candidate's bounding box.
	BBox grid.Rect `json:"bbox"`

	// Annotations carry boil/cook directives for the generator.
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Annotation is a generation directive attached by a Boil or Cook rule.
// The core records them; back-ends interpret them.
type Annotation struct {
	Kind       string   `json:"kind"` // "boil" or "cook"
	Target     string   `json:"target,omitempty"`
	Directives []string `json:"directives,omitempty"`
}

// NewComponent creates a component with an initialized property map.
func NewComponent(id, typ string, bbox grid.Rect) *Component {
	return &Component{
		ID:    id,
		Type:  typ,
		BBox:  bbox,
		Props: make(map[string]interface{}),
	}
}

// SetProp sets a property value, replacing any previous value for the key.
func (c *Component) SetProp(key string, value interface{}) {
	if c.Props == nil {
		c.Props = make(map[string]interface{})
	}
	c.Props[key] = value
}

// Prop returns a property value.
func (c *Component) Prop(key string) (interface{}, bool) {
	v, ok := c.Props[key]
	return v, ok
}

// StringProp returns a string property, or "" when absent or not a string.
func (c *Component) StringProp(key string) string {
	if s, ok := c.Props[key].(string); ok {
		return s
	}
	return ""
}
