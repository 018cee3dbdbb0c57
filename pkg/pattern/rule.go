package pattern

import (
	"regexp"

	"github.com/deadcoast/hunt/pkg/diag"
)

// RuleKind discriminates the rule variants.
type RuleKind int

const (
	// RuleTag classifies a candidate if any literal appears in its
	// boundary or interior text.
	RuleTag RuleKind = iota

	// RulePluck extracts a named property with the first matching regex.
	RulePluck

	// RuleTrap asserts a predicate; failure is a warning and scales
	// confidence down.
	RuleTrap

	// RuleSnare asserts a predicate; failure is fatal to the pipeline.
	RuleSnare

	// RuleScent asserts a predicate; failure is advisory only.
	RuleScent

	// RuleBoil records a reduction applied to extracted data during
	// hierarchy building and generation.
	RuleBoil

	// RuleCook records a code-generation directive.
	RuleCook
)

// String names the rule kind for diagnostics and JSON output.
func (k RuleKind) String() string {
	switch k {
	case RuleTag:
		return "tag"
	case RulePluck:
		return "pluck"
	case RuleTrap:
		return "trap"
	case RuleSnare:
		return "snare"
	case RuleScent:
		return "scent"
	case RuleBoil:
		return "boil"
	case RuleCook:
		return "cook"
	default:
		return "unknown"
	}
}

// Rule is one compiled matching operation. Only the fields relevant to the
// kind are set; dispatch is by Kind, not by type hierarchy.
type Rule struct {
	Kind RuleKind

	// Target is the pluck property name, the boil target, or the cook
	// directive key.
	Target string

	// Literals are the tag literals to look up.
	Literals []string

	// Patterns are the compiled pluck regexes, in declaration order.
	// RawPatterns keeps the sources for reports.
	Patterns    []*regexp.Regexp
	RawPatterns []string

	// Predicate is the compiled trap/snare/scent check.
	Predicate *Predicate

	// Message accompanies predicate failures.
	Message string

	// Directives are the boil/cook values.
	Directives []string

	// Span locates the gamma block this rule came from.
	Span diag.Span
}

// IsAssertion reports whether the rule is a trap, snare or scent. The
// matching engine moves trap and snare rules ahead of the other rules of a
// pattern so failed preconditions exit early; scent rules keep their
// declared position.
func (r *Rule) IsAssertion() bool {
	return r.Kind == RuleTrap || r.Kind == RuleSnare || r.Kind == RuleScent
}
