package match

import (
	"context"
	"strings"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/extract"
	"github.com/deadcoast/hunt/pkg/grid"
	"github.com/deadcoast/hunt/pkg/model"
	"github.com/deadcoast/hunt/pkg/pattern"
)

// DefaultTrapPenalty is the confidence factor applied when a trap
// predicate fails.
const DefaultTrapPenalty = 0.5

// Outcome is the aggregate result of matching one candidate: the winning
// pattern (nil for unknown), its confidence, the extracted properties, and
// any generation annotations.
type Outcome struct {
	CandidateID string
	Pattern     *pattern.Pattern
	Confidence  float64
	Props       map[string]interface{}
	Annotations []model.Annotation
}

// Type returns the component type implied by the outcome.
func (o *Outcome) Type() string {
	if o.Pattern == nil {
		return model.TypeUnknown
	}
	return o.Pattern.TypeTag()
}

// Engine evaluates every registered pattern against candidates. The
// registry is read-only for the engine's lifetime.
type Engine struct {
	reg *pattern.Registry

	// TrapPenalty scales confidence on trap failure.
	TrapPenalty float64
}

// NewEngine creates an engine over a populated registry.
func NewEngine(reg *pattern.Registry) *Engine {
	return &Engine{reg: reg, TrapPenalty: DefaultTrapPenalty}
}

// EvaluateAll matches every candidate and runs grid-level validate
// patterns. Cancellation is checked between candidates; an observed cancel
// returns ctx.Err with partial results discarded by the caller.
func (e *Engine) EvaluateAll(ctx context.Context, g *grid.Grid, cands []*extract.Candidate, diags *diag.List) (map[string]*Outcome, error) {
	// Validate-kind patterns assert structure once per run, against the
	// grid alone, so a snare can fire even on a grid with no candidates.
	for _, p := range e.reg.List() {
		if p.Kind == pattern.KindValidate {
			e.evaluatePattern(p, g, nil, diags)
		}
	}

	out := make(map[string]*Outcome, len(cands))
	for _, cand := range cands {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[cand.ID] = e.evaluateCandidate(g, cand, diags)
	}
	return out, nil
}

// evaluateCandidate picks the best pattern for one candidate.
func (e *Engine) evaluateCandidate(g *grid.Grid, cand *extract.Candidate, diags *diag.List) *Outcome {
	best := &Outcome{CandidateID: cand.ID}
	var bestPattern *pattern.Pattern

	for _, p := range e.reg.List() {
		if p.Kind == pattern.KindValidate {
			continue
		}
		res := e.evaluatePattern(p, g, cand, diags)
		if res == nil || res.Confidence < p.Threshold {
			continue
		}
		if bestPattern == nil || betterMatch(res.Confidence, p, best.Confidence, bestPattern) {
			best = res
			bestPattern = p
		}
	}

	if bestPattern == nil {
		return &Outcome{CandidateID: cand.ID, Confidence: 0}
	}
	return best
}

// betterMatch applies the selection order: confidence, then rule count,
// then registration order.
func betterMatch(conf float64, p *pattern.Pattern, bestConf float64, bestP *pattern.Pattern) bool {
	if conf != bestConf {
		return conf > bestConf
	}
	if len(p.Rules) != len(bestP.Rules) {
		return len(p.Rules) > len(bestP.Rules)
	}
	return p.Order < bestP.Order
}

// evaluatePattern runs every rule of one pattern against one candidate
// (candidate may be nil for grid-level validate patterns). Returns nil on a
// snare failure or a rule evaluation failure. When a rule drives confidence
// to 0, the remaining rules are skipped and the outcome is returned with
// confidence 0.
func (e *Engine) evaluatePattern(p *pattern.Pattern, g *grid.Grid, cand *extract.Candidate, diags *diag.List) (out *Outcome) {
	candID := ""
	if cand != nil {
		candID = cand.ID
	}
	defer func() {
		// A rule evaluation failure is scoped to (candidate, pattern):
		// report it and zero this pattern's confidence.
		if r := recover(); r != nil {
			diags.AddComponent(diag.KindRuleRuntime, diag.SeverityError, candID,
				"pattern %s: rule evaluation failed: %v", p.Name, r)
			out = nil
		}
	}()

	out = &Outcome{
		CandidateID: candID,
		Pattern:     p,
		Confidence:  1.0,
		Props:       make(map[string]interface{}),
	}
	pc := pattern.PredicateContext{Grid: g, Candidate: cand}

	for _, rule := range orderedRules(p.Rules) {
		conf, participates, fatal := e.evaluateRule(rule, p, g, cand, pc, out, diags)
		if fatal {
			return nil
		}
		if !participates {
			continue
		}
		if p.Aggregate == pattern.AggregateMin {
			if conf < out.Confidence {
				out.Confidence = conf
			}
		} else {
			out.Confidence *= conf
		}
		if out.Confidence == 0 {
			// A zero-confidence rule short-circuits the pattern.
			return out
		}
	}
	return out
}

// evaluateRule returns the rule confidence, whether it participates in
// aggregation, and whether it records the whole match as false.
func (e *Engine) evaluateRule(rule *pattern.Rule, p *pattern.Pattern, g *grid.Grid, cand *extract.Candidate, pc pattern.PredicateContext, out *Outcome, diags *diag.List) (conf float64, participates, fatal bool) {
	switch rule.Kind {
	case pattern.RuleTag:
		if cand == nil || len(rule.Literals) == 0 {
			return 0, false, false
		}
		haystack := cand.InteriorText() + "\n" + cand.BoundaryText(g)
		found := 0
		for _, lit := range rule.Literals {
			if lit != "" && containsLiteral(haystack, lit) {
				found++
			}
		}
		return float64(found) / float64(len(rule.Literals)), true, false

	case pattern.RulePluck:
		if cand == nil {
			return 0, false, false
		}
		text := cand.InteriorText()
		for _, re := range rule.Patterns {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			value := m[0]
			if len(m) > 1 {
				value = m[1]
			}
			out.Props[rule.Target] = value
			return 1.0, true, false
		}
		// No regex matched: half confidence, no property.
		return 0.5, true, false

	case pattern.RuleTrap:
		if rule.Predicate.Eval(pc) {
			return 1.0, true, false
		}
		diags.AddComponent(diag.KindTrapFailed, diag.SeverityWarn, out.CandidateID,
			"pattern %s: %s", p.Name, rule.Message)
		penalty := e.TrapPenalty
		if penalty <= 0 || penalty > 1 {
			penalty = DefaultTrapPenalty
		}
		return penalty, true, false

	case pattern.RuleSnare:
		if rule.Predicate.Eval(pc) {
			return 1.0, true, false
		}
		diags.AddComponent(diag.KindSnareTriggered, diag.SeverityFatal, out.CandidateID,
			"pattern %s: %s", p.Name, rule.Message)
		return 0, false, true

	case pattern.RuleScent:
		if !rule.Predicate.Eval(pc) {
			diags.AddComponent(diag.KindScent, diag.SeverityInfo, out.CandidateID,
				"pattern %s: %s", p.Name, rule.Message)
		}
		return 1.0, false, false

	case pattern.RuleBoil, pattern.RuleCook:
		kind := "boil"
		if rule.Kind == pattern.RuleCook {
			kind = "cook"
		}
		out.Annotations = append(out.Annotations, model.Annotation{
			Kind:       kind,
			Target:     rule.Target,
			Directives: rule.Directives,
		})
		return 1.0, false, false
	}
	return 1.0, false, false
}

func containsLiteral(haystack, lit string) bool {
	return lit != "" && strings.Contains(haystack, lit)
}

// orderedRules places trap and snare rules first, preserving declaration
// order within each group, so failed preconditions exit before the
// expensive rules run.
func orderedRules(rules []*pattern.Rule) []*pattern.Rule {
	out := make([]*pattern.Rule, 0, len(rules))
	for _, r := range rules {
		if r.Kind == pattern.RuleTrap || r.Kind == pattern.RuleSnare {
			out = append(out, r)
		}
	}
	for _, r := range rules {
		if r.Kind != pattern.RuleTrap && r.Kind != pattern.RuleSnare {
			out = append(out, r)
		}
	}
	return out
}
