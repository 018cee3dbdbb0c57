package pattern

import (
	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/parser"
)

// Registry maps qualified names to compiled patterns. It is owned by one
// pipeline run: populated before matching starts, read-only afterwards.
// There is deliberately no process-wide instance.
type Registry struct {
	byName map[string]*Pattern
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Pattern)}
}

// Register adds a pattern under its name. Re-registration of an existing
// name is rejected with E_PATTERN_DUPLICATE unless the new pattern carries
// the prohib modifier, which explicitly replaces while keeping the original
// registration order.
func (r *Registry) Register(p *Pattern, diags *diag.List) bool {
	if existing, ok := r.byName[p.Name]; ok {
		if !p.Replace {
			diags.Addf(diag.KindPatternDuplicate, diag.SeverityError,
				"pattern %q is already registered; use prohib to replace", p.Name)
			return false
		}
		p.Order = existing.Order
		r.byName[p.Name] = p
		return true
	}

	p.Order = len(r.order)
	r.byName[p.Name] = p
	r.order = append(r.order, p.Name)
	return true
}

// Get returns a pattern by name, or nil.
func (r *Registry) Get(name string) *Pattern {
	return r.byName[name]
}

// List returns all patterns in registration order.
func (r *Registry) List() []*Pattern {
	out := make([]*Pattern, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

// Len returns the number of registered patterns.
func (r *Registry) Len() int {
	return len(r.order)
}

// CompileAndRegister is the convenience path used by the pipeline: compile
// a program and register every resulting pattern.
func CompileAndRegister(r *Registry, c *Compiler, prog *parser.Program, diags *diag.List) {
	for _, p := range c.Compile(prog, diags) {
		r.Register(p, diags)
	}
}
