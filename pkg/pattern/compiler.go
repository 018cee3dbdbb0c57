package pattern

import (
	"fmt"
	"regexp"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/parser"
)

// Compiler lowers parsed programs to patterns.
type Compiler struct {
	// DefaultThreshold is used when a pattern's META has no threshold.
	DefaultThreshold float64
}

// NewCompiler creates a compiler with the given default threshold.
// Thresholds outside (0, 1] fall back to 0.5.
func NewCompiler(defaultThreshold float64) *Compiler {
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = 0.5
	}
	return &Compiler{DefaultThreshold: defaultThreshold}
}

// Compile lowers every alpha block to a pattern. A bad regex or unknown
// predicate is fatal for that pattern only: it is reported, the pattern is
// skipped, and compilation continues.
func (c *Compiler) Compile(prog *parser.Program, diags *diag.List) []*Pattern {
	var out []*Pattern
	for i, alpha := range prog.Alphas {
		p, ok := c.compileAlpha(alpha, i, diags)
		if ok {
			out = append(out, p)
		}
	}
	return out
}

func (c *Compiler) compileAlpha(alpha *parser.AlphaBlock, index int, diags *diag.List) (*Pattern, bool) {
	p := &Pattern{
		Name:      alpha.Name,
		Kind:      KindTrack,
		Threshold: c.DefaultThreshold,
		Doc:       alpha.Doc,
	}
	if p.Name == "" {
		p.Name = fmt.Sprintf("pattern-%02d", index+1)
	}
	if k, ok := knownKinds[alpha.Name]; ok && alpha.Name != "" {
		// A kind used as the head identifier names the kind, not the
		// pattern; keep it as both kind and implicit name.
		p.Kind = k
	}

	c.applyExec(p, alpha.Exec)

	for _, beta := range alpha.Betas {
		switch beta.Name {
		case "INIT", "INIT_GATHER", "RULES":
			for _, gamma := range beta.Gammas {
				if !c.compileRule(p, gamma, diags) {
					return nil, false
				}
			}
		case "META":
			c.applyMeta(p, beta, diags)
		default:
			diags.AddSpan(diag.KindUnknownParam, diag.SeverityWarn, beta.Span,
				"unknown section %q in pattern %s", beta.Name, p.Name)
		}
	}
	return p, true
}

func (c *Compiler) applyExec(p *Pattern, exec *parser.ExecClause) {
	if exec == nil {
		return
	}
	for _, mod := range exec.Modifiers {
		switch {
		case mod.Name == "prohib":
			p.Replace = true
		case mod.Name == "req":
			p.Required = true
		case mod.Name == "floop":
			p.Floop = true
		default:
			if k, ok := knownKinds[mod.Name]; ok {
				p.Kind = k
			}
		}
	}
}

func (c *Compiler) applyMeta(p *Pattern, beta *parser.BetaBlock, diags *diag.List) {
	for _, gamma := range beta.Gammas {
		switch gamma.Key {
		case "threshold":
			if n, ok := firstInt(gamma.Delta); ok && n >= 0 && n <= 100 {
				p.Threshold = float64(n) / 100.0
			} else {
				diags.AddSpan(diag.KindUnknownParam, diag.SeverityWarn, gamma.Span,
					"threshold must be an integer percentage 0-100")
			}
		case "aggregate":
			if s, ok := firstIdent(gamma.Delta); ok && s == "min" {
				p.Aggregate = AggregateMin
			}
		case "display":
			if s, ok := firstString(gamma.Delta); ok {
				p.DisplayName = s
			}
		default:
			diags.AddSpan(diag.KindUnknownParam, diag.SeverityWarn, gamma.Span,
				"unknown META parameter %q", gamma.Key)
		}
	}
}

// compileRule lowers one gamma block. Returns false when the whole pattern
// must be dropped.
func (c *Compiler) compileRule(p *Pattern, gamma *parser.GammaBlock, diags *diag.List) bool {
	switch gamma.Key {
	case "tag":
		rule := &Rule{Kind: RuleTag, Target: gamma.Qualifier, Span: gamma.Span}
		for _, v := range stringValues(gamma.Delta) {
			rule.Literals = append(rule.Literals, v)
		}
		p.Rules = append(p.Rules, rule)

	case "pluck":
		rule := &Rule{Kind: RulePluck, Target: gamma.Qualifier, Span: gamma.Span}
		if rule.Target == "" {
			diags.AddSpan(diag.KindUnknownParam, diag.SeverityWarn, gamma.Span,
				"pluck without a target property in pattern %s", p.Name)
			return true
		}
		for _, src := range stringValues(gamma.Delta) {
			re, err := regexp.Compile(src)
			if err != nil {
				diags.AddSpan(diag.KindBadRegex, diag.SeverityError, gamma.Span,
					"pattern %s: bad regex %q: %v", p.Name, src, err)
				return false
			}
			rule.Patterns = append(rule.Patterns, re)
			rule.RawPatterns = append(rule.RawPatterns, src)
		}
		p.Rules = append(p.Rules, rule)

	case "trap", "snare", "scent":
		rule, ok := c.compileAssertion(p, gamma, diags)
		if !ok {
			return false
		}
		p.Rules = append(p.Rules, rule)

	case "boil":
		p.Rules = append(p.Rules, &Rule{
			Kind:       RuleBoil,
			Target:     gamma.Qualifier,
			Directives: identAndStringValues(gamma.Delta),
			Span:       gamma.Span,
		})

	case "cook", "from", "format":
		target := gamma.Qualifier
		if gamma.Key != "cook" {
			target = gamma.Key
		}
		p.Rules = append(p.Rules, &Rule{
			Kind:       RuleCook,
			Target:     target,
			Directives: identAndStringValues(gamma.Delta),
			Span:       gamma.Span,
		})

	default:
		diags.AddSpan(diag.KindUnknownParam, diag.SeverityWarn, gamma.Span,
			"unknown rule parameter %q in pattern %s", gamma.Key, p.Name)
	}
	return true
}

func (c *Compiler) compileAssertion(p *Pattern, gamma *parser.GammaBlock, diags *diag.List) (*Rule, bool) {
	kind := map[string]RuleKind{"trap": RuleTrap, "snare": RuleSnare, "scent": RuleScent}[gamma.Key]
	rule := &Rule{Kind: kind, Span: gamma.Span}

	if gamma.Delta == nil || len(gamma.Delta.Values) == 0 || gamma.Delta.Values[0].Kind != parser.ValueIdent {
		diags.AddSpan(diag.KindUnknownPredicate, diag.SeverityError, gamma.Span,
			"pattern %s: %s requires a predicate identifier", p.Name, gamma.Key)
		return nil, false
	}

	head := gamma.Delta.Values[0]
	intArg, strArg := predicateArgs(head.Args)
	pred, err := CompilePredicate(head.Ident, intArg, strArg)
	if err != nil {
		diags.AddSpan(diag.KindUnknownPredicate, diag.SeverityError, gamma.Span,
			"pattern %s: %v", p.Name, err)
		return nil, false
	}
	rule.Predicate = pred

	for _, v := range gamma.Delta.Values[1:] {
		if v.Kind == parser.ValueString {
			rule.Message = v.Str
			break
		}
	}
	if rule.Message == "" {
		rule.Message = fmt.Sprintf("%s %s failed", gamma.Key, pred.Name)
	}
	return rule, true
}

func predicateArgs(args *parser.DeltaBlock) (int, string) {
	if args == nil {
		return 0, ""
	}
	intArg, strArg := 0, ""
	for _, v := range args.Values {
		switch v.Kind {
		case parser.ValueInt:
			intArg = v.Int
		case parser.ValueString:
			strArg = v.Str
		}
	}
	return intArg, strArg
}

func stringValues(delta *parser.DeltaBlock) []string {
	if delta == nil {
		return nil
	}
	var out []string
	for _, v := range delta.Values {
		if v.Kind == parser.ValueString {
			out = append(out, v.Str)
		}
	}
	return out
}

func identAndStringValues(delta *parser.DeltaBlock) []string {
	if delta == nil {
		return nil
	}
	var out []string
	for _, v := range delta.Values {
		switch v.Kind {
		case parser.ValueString:
			out = append(out, v.Str)
		case parser.ValueIdent:
			out = append(out, v.Ident)
		}
	}
	return out
}

func firstInt(delta *parser.DeltaBlock) (int, bool) {
	if delta != nil {
		for _, v := range delta.Values {
			if v.Kind == parser.ValueInt {
				return v.Int, true
			}
		}
	}
	return 0, false
}

func firstIdent(delta *parser.DeltaBlock) (string, bool) {
	if delta != nil {
		for _, v := range delta.Values {
			if v.Kind == parser.ValueIdent {
				return v.Ident, true
			}
		}
	}
	return "", false
}

func firstString(delta *parser.DeltaBlock) (string, bool) {
	if delta != nil {
		for _, v := range delta.Values {
			if v.Kind == parser.ValueString {
				return v.Str, true
			}
		}
	}
	return "", false
}
