package export

import (
	"encoding/json"
	"fmt"

	"github.com/deadcoast/hunt/pkg/model"
)

// jsonModel is the serialized shape of a component model.
type jsonModel struct {
	Components    []*model.Component   `json:"components"`
	Relationships []model.Relationship `json:"relationships"`
}

// JSONGenerator serializes the model. Components appear in insertion order
// and relationships in edge order, so output is deterministic.
type JSONGenerator struct{}

// NewJSONGenerator creates the json back-end.
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Name returns "json".
func (g *JSONGenerator) Name() string { return "json" }

// Generate renders the model as JSON, indented unless Compact is set.
func (g *JSONGenerator) Generate(m *model.Model, opts Options) (*Artifact, error) {
	doc := jsonModel{
		Components:    m.Components(),
		Relationships: m.Relationships(),
	}

	var data []byte
	var err error
	if opts.Compact {
		data, err = json.Marshal(doc)
	} else {
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, fmt.Errorf("json generation failed: %w", err)
	}
	return &Artifact{Framework: "json", Text: string(data)}, nil
}
