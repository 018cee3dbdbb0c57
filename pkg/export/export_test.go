package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/model"
)

func sampleModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()

	win := model.NewComponent("cand-0001", "window", grid.Rect{X: 0, Y: 0, Width: 20, Height: 8})
	btn := model.NewComponent("cand-0002", "button", grid.Rect{X: 6, Y: 3, Width: 4, Height: 1})
	btn.SetProp("buttonText", "OK")

	if err := m.AddComponent(win); err != nil {
		t.Fatal(err)
	}
	if err := m.AddComponent(btn); err != nil {
		t.Fatal(err)
	}
	if err := m.AddRelationship("cand-0001", model.LabelContains, "cand-0002"); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestDefaultRegistryBackends(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range []string{"text", "json", "svg"} {
		if reg.Get(name) == nil {
			t.Errorf("Get(%q) = nil, want built-in back-end", name)
		}
	}
	names := reg.List()
	if len(names) != 3 {
		t.Errorf("List() = %v, want 3 names", names)
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	reg := NewRegistry()
	reg.Register(NewTextGenerator())
	reg.Register(NewTextGenerator())
}

func TestJSONGenerator(t *testing.T) {
	art, err := NewJSONGenerator().Generate(sampleModel(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if art.Framework != "json" {
		t.Errorf("Framework = %q, want json", art.Framework)
	}

	var doc struct {
		Components    []map[string]interface{} `json:"components"`
		Relationships []map[string]interface{} `json:"relationships"`
	}
	if err := json.Unmarshal([]byte(art.Text), &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(doc.Components) != 2 || len(doc.Relationships) != 1 {
		t.Errorf("components=%d relationships=%d, want 2 and 1",
			len(doc.Components), len(doc.Relationships))
	}
}

func TestTextGeneratorTree(t *testing.T) {
	art, err := NewTextGenerator().Generate(sampleModel(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	lines := strings.Split(art.Text, "\n")
	var winLine, btnLine string
	for _, line := range lines {
		if strings.Contains(line, "cand-0001") {
			winLine = line
		}
		if strings.Contains(line, "cand-0002") {
			btnLine = line
		}
	}
	if winLine == "" || btnLine == "" {
		t.Fatalf("missing component lines in:\n%s", art.Text)
	}
	if !strings.HasPrefix(btnLine, "  ") {
		t.Error("contained button should be indented under its window")
	}
	if !strings.Contains(btnLine, "buttonText=OK") {
		t.Errorf("button line should include props: %q", btnLine)
	}
}

func TestSVGGenerator(t *testing.T) {
	art, err := NewSVGGenerator().Generate(sampleModel(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(art.Text, "<svg") || !strings.Contains(art.Text, "</svg>") {
		t.Error("output is not an SVG document")
	}
	// One rect per component plus the background.
	if got := strings.Count(art.Text, "<rect"); got != 3 {
		t.Errorf("rect count = %d, want 3", got)
	}
	if !strings.Contains(art.Text, "button: OK") {
		t.Error("button label should include its text property")
	}
}
