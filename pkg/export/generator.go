package export

import (
	"fmt"
	"sync"

	"github.com/deadcoast/hunt/pkg/model"
)

// Options configures a generation pass. Back-ends read what they need and
// ignore the rest.
type Options struct {
	// Title is an optional document or window title.
	Title string

	// CellWidth and CellHeight scale grid cells to output units for
	// visual back-ends.
	CellWidth  int
	CellHeight int

	// Compact disables indentation for serialization back-ends.
	Compact bool
}

// DefaultOptions returns sensible generation defaults.
func DefaultOptions() Options {
	return Options{
		Title:      "HUNT layout",
		CellWidth:  10,
		CellHeight: 18,
	}
}

// Artifact is a generated-code result. The pipeline hands it to the host
// without inspecting Text.
type Artifact struct {
	Framework string `json:"framework"`
	Text      string `json:"text"`
}

// Generator is the back-end contract: one operation from model to artifact.
type Generator interface {
	// Name returns the back-end's registration name.
	Name() string

	// Generate renders the component model, or fails with an error the
	// pipeline reports as a stage error.
	Generate(m *model.Model, opts Options) (*Artifact, error)
}

// Registry holds the available back-ends for one pipeline run. Registries
// are explicit values owned by the run; there is no process-wide instance.
type Registry struct {
	mu    sync.RWMutex
	named map[string]Generator
	order []string
}

// NewRegistry creates an empty back-end registry.
func NewRegistry() *Registry {
	return &Registry{named: make(map[string]Generator)}
}

// DefaultRegistry returns a registry with the built-in back-ends: text,
// json, and svg.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewTextGenerator())
	r.Register(NewJSONGenerator())
	r.Register(NewSVGGenerator())
	return r
}

// Register adds a back-end. Panics on a duplicate name; back-ends are
// wired at pipeline construction, so a duplicate is a programming error.
func (r *Registry) Register(g Generator) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.named[g.Name()]; exists {
		panic(fmt.Sprintf("generator %q already registered", g.Name()))
	}
	r.named[g.Name()] = g
	r.order = append(r.order, g.Name())
}

// Get retrieves a back-end by name. Returns nil if not found.
func (r *Registry) Get(name string) Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.named[name]
}

// List returns all registered back-end names in registration order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
