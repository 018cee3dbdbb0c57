package pattern

// Kind is the pattern category, selected by an EXEC modifier.
type Kind string

const (
	// KindTrack patterns classify interactive controls.
	KindTrack Kind = "track"
	// KindGather patterns collect grouped content.
	KindGather Kind = "gather"
	// KindHarvest patterns extract data-bearing regions.
	KindHarvest Kind = "harvest"
	// KindCook patterns exist to drive code generation.
	KindCook Kind = "cook"
	// KindValidate patterns assert structure without classifying.
	KindValidate Kind = "validate"
)

// knownKinds maps EXEC modifier names to pattern kinds.
var knownKinds = map[string]Kind{
	"track":    KindTrack,
	"gather":   KindGather,
	"harvest":  KindHarvest,
	"cook":     KindCook,
	"validate": KindValidate,

	// Alpha head kinds written in PascalCase resolve too; Gather also
	// absorbs the GET alias, which the lexer normalizes.
	"Track":    KindTrack,
	"Gather":   KindGather,
	"Harvest":  KindHarvest,
	"Cook":     KindCook,
	"Validate": KindValidate,
}

// Aggregation selects how per-rule confidences combine.
type Aggregation int

const (
	// AggregateProduct multiplies rule confidences (the default).
	AggregateProduct Aggregation = iota
	// AggregateMin takes the minimum rule confidence.
	AggregateMin
)

// Pattern is a compiled, named specification. Immutable after compilation;
// its lifetime equals the registry that owns it.
type Pattern struct {
	// Name is the qualified registration name.
	Name string

	// Kind is the pattern category.
	Kind Kind

	// Rules run in declaration order, trap and snare rules first.
	Rules []*Rule

	// Threshold is the minimum aggregate confidence for a match, in [0,1].
	Threshold float64

	// Aggregate selects product or min combination.
	Aggregate Aggregation

	// DisplayName and Doc are static metadata from META and the leading
	// docstring.
	DisplayName string
	Doc         string

	// Replace allows re-registration over an existing name (the prohib
	// modifier).
	Replace bool

	// Required patterns warn when they match no candidate in a run (the
	// req modifier).
	Required bool

	// Floop records the floop modifier; it has no core semantics.
	Floop bool

	// Order is the registration sequence number, used as a tie-breaker.
	Order int
}

// TypeTag is the component type assigned to candidates matched by this
// pattern: the display name when set, else the pattern name, with its first
// letter lowercased.
func (p *Pattern) TypeTag() string {
	if p.DisplayName != "" {
		return lowerFirst(p.DisplayName)
	}
	return lowerFirst(p.Name)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] - 'A' + 'a'
	}
	return string(r)
}
