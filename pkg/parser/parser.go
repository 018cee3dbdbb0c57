package parser

import (
	"errors"
	"strconv"

	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/lexer"
)

// ErrUnbalanced aborts parsing of a file whose bracket structure cannot be
// resynchronized: a close bracket with no matching open.
var ErrUnbalanced = errors.New("unbalanced brackets")

// Options controls parser behavior.
type Options struct {
	// StrictAlignment promotes bracket misalignment from a recoverable
	// error to a fatal diagnostic.
	StrictAlignment bool
}

// Parse tokenizes and parses HUNT source. Recoverable problems go to the
// diagnostics list; the returned error is non-nil only for ErrUnbalanced.
func Parse(source string, diags *diag.List, opts Options) (*Program, error) {
	return ParseTokens(lexer.Tokens(source, diags), diags, opts)
}

// ParseTokens parses an already-lexed token stream.
func ParseTokens(toks []lexer.Token, diags *diag.List, opts Options) (*Program, error) {
	p := &parser{toks: toks, diags: diags, opts: opts}
	return p.parseProgram()
}

type parser struct {
	toks       []lexer.Token
	pos        int
	diags      *diag.List
	opts       Options
	pendingDoc string
}

func (p *parser) peek() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.KindEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekAt(off int) lexer.Token {
	if p.pos+off >= len(p.toks) {
		return lexer.Token{Kind: lexer.KindEOF}
	}
	return p.toks[p.pos+off]
}

func (p *parser) advance() lexer.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func span(tok lexer.Token) diag.Span {
	return diag.At(tok.Line, tok.Col)
}

// alignmentSeverity is error by default; strict mode makes it fatal.
func (p *parser) alignmentSeverity() diag.Severity {
	if p.opts.StrictAlignment {
		return diag.SeverityFatal
	}
	return diag.SeverityError
}

// checkClose enforces vertical reachability on tiers 1 and 2: a close
// bracket on a later line than its open must sit in the open's column.
// Single-line blocks are exempt.
func (p *parser) checkClose(open, close lexer.Token, tier string) {
	if close.Line > open.Line && close.Col != open.Col {
		p.diags.AddSpan(diag.KindBracketUnaligned, p.alignmentSeverity(), span(close),
			"%s close at column %d does not match open at column %d", tier, close.Col, open.Col)
	}
}

// checkNestedOpen enforces that a nested tier-2 open sits strictly right of
// the enclosing tier-1 open.
func (p *parser) checkNestedOpen(outer, inner lexer.Token) {
	if inner.Line > outer.Line && inner.Col <= outer.Col {
		p.diags.AddSpan(diag.KindBracketUnaligned, p.alignmentSeverity(), span(inner),
			"nested open at column %d must be right of enclosing open at column %d", inner.Col, outer.Col)
	}
}

func (p *parser) checkCase(tok lexer.Token, required lexer.IdentCase, tier string) {
	if tok.Kind == lexer.KindIdent && !tok.Case.Matches(required) {
		p.diags.AddSpan(diag.KindWrongNamingCase, diag.SeverityWarn, span(tok),
			"%s identifier %q should be %s", tier, tok.Text, required)
	}
}

// skipTo drops tokens until one of the wanted kinds (or EOF) is next,
// reporting the first skipped token.
func (p *parser) skipTo(context string, wanted ...lexer.Kind) {
	first := p.peek()
	p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(first),
		"unexpected %s in %s", first.Kind, context)
	for {
		tok := p.peek()
		if tok.Kind == lexer.KindEOF {
			return
		}
		for _, k := range wanted {
			if tok.Kind == k {
				return
			}
		}
		p.advance()
	}
}

func (p *parser) missingClose(open lexer.Token, kind lexer.Kind, tier string) {
	p.diags.AddSpan(diag.KindMissingClose, diag.SeverityError, span(open),
		"missing %s for %s opened at %d:%d", kind, tier, open.Line, open.Col)
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}
	for {
		switch tok := p.peek(); tok.Kind {
		case lexer.KindEOF:
			return prog, nil
		case lexer.KindDoc:
			p.pendingDoc = tok.Text
			p.advance()
		case lexer.KindAlphaOpen:
			prog.Alphas = append(prog.Alphas, p.parseAlpha())
		case lexer.KindAlphaClose, lexer.KindBetaClose, lexer.KindGammaClose, lexer.KindDeltaClose:
			p.diags.AddSpan(diag.KindUnbalancedBrackets, diag.SeverityFatal, span(tok),
				"close bracket %s with no matching open", tok.Kind)
			return prog, ErrUnbalanced
		default:
			p.skipTo("program", lexer.KindAlphaOpen, lexer.KindDoc)
		}
	}
}

func (p *parser) parseAlpha() *AlphaBlock {
	open := p.advance() // '<'
	alpha := &AlphaBlock{Span: span(open), Doc: p.pendingDoc}
	p.pendingDoc = ""

	if tok := p.peek(); tok.Kind == lexer.KindIdent {
		alpha.Name = tok.Text
		alpha.NameCase = tok.Case
		p.checkCase(tok, lexer.CasePascal, "tier-1")
		p.advance()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected pattern name after '<', found %s", tok.Kind)
	}

	if p.peek().Kind == lexer.KindBridge {
		p.advance()
	}

	for {
		switch tok := p.peek(); tok.Kind {
		case lexer.KindBetaOpen:
			p.checkNestedOpen(open, tok)
			alpha.Betas = append(alpha.Betas, p.parseBeta())
		case lexer.KindAlphaClose:
			p.checkClose(open, tok, "tier-1")
			p.advance()
			alpha.Exec = p.parseExecIfPresent()
			return alpha
		case lexer.KindEOF:
			p.missingClose(open, lexer.KindAlphaClose, "tier-1 block")
			return alpha
		default:
			p.skipTo("tier-1 block", lexer.KindBetaOpen, lexer.KindAlphaClose)
		}
	}
}

// parseExecIfPresent consumes a following <EXEC: ...> clause if one starts
// at the current position.
func (p *parser) parseExecIfPresent() *ExecClause {
	if p.peek().Kind != lexer.KindAlphaOpen || !p.peekAt(1).IsKeyword("EXEC") {
		return nil
	}
	open := p.advance() // '<'
	p.advance()         // EXEC
	exec := &ExecClause{Span: span(open)}

	if p.peek().Kind == lexer.KindBridge {
		p.advance()
		exec.Modifiers = p.parseModifierChain()
	}

	if tok := p.peek(); tok.Kind == lexer.KindAlphaClose {
		p.checkClose(open, tok, "tier-1")
		p.advance()
	} else {
		p.missingClose(open, lexer.KindAlphaClose, "EXEC clause")
	}
	return exec
}

func (p *parser) parseModifierChain() []*Modifier {
	var mods []*Modifier
	chainOp := ""
	for {
		tok := p.peek()
		if tok.Kind != lexer.KindIdent && tok.Kind != lexer.KindKeyword {
			if len(mods) == 0 {
				p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
					"expected modifier after ':', found %s", tok.Kind)
			}
			return mods
		}
		p.advance()
		mod := &Modifier{Name: tok.Text, ChainOp: chainOp, Span: span(tok)}
		if tok.Kind == lexer.KindIdent {
			p.checkCase(tok, lexer.CaseCamel, "modifier")
		}

		if p.peek().Kind == lexer.KindBridge {
			p.advance()
			mod.Value = p.parseValue()
		}
		mods = append(mods, mod)

		switch p.peek().Kind {
		case lexer.KindLink:
			chainOp = "&"
			p.advance()
		case lexer.KindChain:
			chainOp = "@@"
			p.advance()
		default:
			return mods
		}
	}
}

func (p *parser) parseBeta() *BetaBlock {
	open := p.advance() // '['
	beta := &BetaBlock{Span: span(open)}

	switch tok := p.peek(); {
	case tok.Kind == lexer.KindIdent:
		beta.Name = tok.Text
		beta.NameCase = tok.Case
		p.checkCase(tok, lexer.CaseScreaming, "tier-2")
		p.advance()
	case tok.IsKeyword("INIT"):
		beta.Name = tok.Text
		beta.NameCase = lexer.CaseScreaming
		p.advance()
	default:
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected section name after '[', found %s", tok.Kind)
	}

	if tok := p.peek(); tok.Kind == lexer.KindAssign {
		p.advance()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected '=' after section name, found %s", tok.Kind)
	}

	for {
		switch tok := p.peek(); tok.Kind {
		case lexer.KindGammaOpen:
			beta.Gammas = append(beta.Gammas, p.parseGamma())
		case lexer.KindBetaClose:
			p.checkClose(open, tok, "tier-2")
			p.advance()
			return beta
		case lexer.KindAlphaClose, lexer.KindEOF:
			// Synthesize the close at the expected column and let the
			// enclosing block continue.
			p.missingClose(open, lexer.KindBetaClose, "tier-2 block")
			return beta
		default:
			p.skipTo("tier-2 block", lexer.KindGammaOpen, lexer.KindBetaClose, lexer.KindAlphaClose)
		}
	}
}

func (p *parser) parseGamma() *GammaBlock {
	open := p.advance() // '{'
	gamma := &GammaBlock{Span: span(open)}

	if tok := p.peek(); tok.Kind == lexer.KindIdent && tok.Text == "param" {
		p.advance()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected 'param' after '{', found %s", tok.Kind)
	}

	if tok := p.peek(); tok.Kind == lexer.KindIdent {
		gamma.Key = tok.Text
		p.checkCase(tok, lexer.CaseCamel, "tier-3")
		p.advance()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected parameter key, found %s", tok.Kind)
	}

	if p.peek().Kind == lexer.KindBridge {
		p.advance()
		if tok := p.peek(); tok.Kind == lexer.KindIdent {
			gamma.Qualifier = tok.Text
			p.checkCase(tok, lexer.CaseCamel, "tier-3")
			p.advance()
		}
	}

	if p.peek().Kind == lexer.KindAssign {
		p.advance()
	}

	if p.peek().Kind == lexer.KindDeltaOpen {
		gamma.Delta = p.parseDelta()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(p.peek()),
			"expected '(' value block, found %s", p.peek().Kind)
	}

	if p.peek().Kind == lexer.KindGammaClose {
		p.advance()
	} else {
		p.missingClose(open, lexer.KindGammaClose, "tier-3 block")
	}
	return gamma
}

func (p *parser) parseDelta() *DeltaBlock {
	open := p.advance() // '('
	delta := &DeltaBlock{Span: span(open)}

	if tok := p.peek(); tok.Kind == lexer.KindIdent && tok.Text == "val" {
		p.advance()
	} else {
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected 'val' after '(', found %s", tok.Kind)
	}

	for {
		v := p.parseValue()
		if v != nil {
			delta.Values = append(delta.Values, v)
		}
		switch p.peek().Kind {
		case lexer.KindComma:
			p.advance()
		case lexer.KindDeltaClose:
			p.advance()
			return delta
		default:
			p.missingClose(open, lexer.KindDeltaClose, "tier-4 block")
			return delta
		}
	}
}

func (p *parser) parseValue() *Value {
	tok := p.peek()
	switch tok.Kind {
	case lexer.KindString:
		p.advance()
		return &Value{Kind: ValueString, Str: tok.Text, Span: span(tok)}
	case lexer.KindInt:
		p.advance()
		n, _ := strconv.Atoi(tok.Text)
		return &Value{Kind: ValueInt, Int: n, Span: span(tok)}
	case lexer.KindBool:
		p.advance()
		return &Value{Kind: ValueBool, Bool: tok.Text == "true", Span: span(tok)}
	case lexer.KindIdent:
		p.advance()
		p.checkCase(tok, lexer.CaseSnake, "tier-4")
		v := &Value{Kind: ValueIdent, Ident: tok.Text, Span: span(tok)}
		if p.peek().Kind == lexer.KindBridge && p.peekAt(1).Kind == lexer.KindDeltaOpen {
			p.advance()
			v.Args = p.parseDelta()
		}
		return v
	default:
		p.diags.AddSpan(diag.KindUnexpectedToken, diag.SeverityError, span(tok),
			"expected value, found %s", tok.Kind)
		return nil
	}
}
