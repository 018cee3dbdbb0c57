package lexer

import (
	"fmt"
	"strings"
	"unicode"
)

// Kind identifies a token class.
type Kind int

const (
	// KindEOF terminates every token stream.
	KindEOF Kind = iota

	// KindAlphaOpen is '<', tier-1 open.
	KindAlphaOpen
	// KindAlphaClose is '>', tier-1 close.
	KindAlphaClose
	// KindBetaOpen is '[', tier-2 open.
	KindBetaOpen
	// KindBetaClose is ']', tier-2 close.
	KindBetaClose
	// KindGammaOpen is '{', tier-3 open.
	KindGammaOpen
	// KindGammaClose is '}', tier-3 close.
	KindGammaClose
	// KindDeltaOpen is '(', tier-4 open.
	KindDeltaOpen
	// KindDeltaClose is ')', tier-4 close.
	KindDeltaClose

	// KindBridge is ':'.
	KindBridge
	// KindChain is '@@'.
	KindChain
	// KindLink is '&'.
	KindLink
	// KindAssign is '='.
	KindAssign
	// KindComma is ','.
	KindComma

	// KindIdent is an identifier; Token.Case classifies its naming style.
	KindIdent
	// KindKeyword covers EXEC, INIT, req, prohib and floop.
	KindKeyword
	// KindBool is the literal true or false.
	KindBool
	// KindString is a double-quoted string literal with escapes resolved.
	KindString
	// KindInt is an integer literal.
	KindInt
	// KindDoc is a docstring block delimited by ##--# and #--##.
	KindDoc
)

// String names the kind for error messages.
func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "eof"
	case KindAlphaOpen:
		return "'<'"
	case KindAlphaClose:
		return "'>'"
	case KindBetaOpen:
		return "'['"
	case KindBetaClose:
		return "']'"
	case KindGammaOpen:
		return "'{'"
	case KindGammaClose:
		return "'}'"
	case KindDeltaOpen:
		return "'('"
	case KindDeltaClose:
		return "')'"
	case KindBridge:
		return "':'"
	case KindChain:
		return "'@@'"
	case KindLink:
		return "'&'"
	case KindAssign:
		return "'='"
	case KindComma:
		return "','"
	case KindIdent:
		return "identifier"
	case KindKeyword:
		return "keyword"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindDoc:
		return "docstring"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// IdentCase classifies the naming style of an identifier. CBHS ties each
// bracket tier to one style.
type IdentCase int

const (
	// CaseUnknown marks identifiers that match no recognized style.
	CaseUnknown IdentCase = iota
	// CasePascal is PascalCase.
	CasePascal
	// CaseScreaming is SCREAMING_SNAKE_CASE.
	CaseScreaming
	// CaseCamel is camelCase.
	CaseCamel
	// CaseSnake is snake_case.
	CaseSnake
	// CaseLower is a single lowercase word, valid as both camelCase and
	// snake_case.
	CaseLower
)

// String names the case style for diagnostics.
func (c IdentCase) String() string {
	switch c {
	case CasePascal:
		return "PascalCase"
	case CaseScreaming:
		return "SCREAMING_SNAKE_CASE"
	case CaseCamel:
		return "camelCase"
	case CaseSnake:
		return "snake_case"
	case CaseLower:
		return "lowercase"
	default:
		return "unknown"
	}
}

// ClassifyIdent determines the naming style of an identifier.
func ClassifyIdent(s string) IdentCase {
	if s == "" {
		return CaseUnknown
	}
	hasUnderscore := strings.ContainsRune(s, '_')
	hasUpper := strings.IndexFunc(s, unicode.IsUpper) >= 0
	hasLower := strings.IndexFunc(s, unicode.IsLower) >= 0
	first := rune(s[0])

	switch {
	case hasUnderscore && !hasLower:
		return CaseScreaming
	case hasUnderscore && !hasUpper:
		return CaseSnake
	case hasUnderscore:
		return CaseUnknown
	case !hasLower:
		return CaseScreaming
	case unicode.IsUpper(first):
		return CasePascal
	case hasUpper:
		return CaseCamel
	default:
		return CaseLower
	}
}

// Matches reports whether the classified case satisfies the required tier
// style. CaseLower satisfies both camelCase and snake_case; an all-caps
// single word satisfies SCREAMING_SNAKE_CASE.
func (c IdentCase) Matches(required IdentCase) bool {
	if c == required {
		return true
	}
	if c == CaseLower && (required == CaseCamel || required == CaseSnake) {
		return true
	}
	return false
}

// Token is one lexeme with its source position. Line and Col are 1-based;
// Col counts runes, which is what the CBHS alignment rules compare.
type Token struct {
	Kind Kind
	Text string
	Case IdentCase
	Line int
	Col  int
}

// Is reports whether the token has the given kind.
func (t Token) Is(k Kind) bool { return t.Kind == k }

// IsKeyword reports whether the token is the given keyword.
func (t Token) IsKeyword(word string) bool {
	return t.Kind == KindKeyword && t.Text == word
}

// keywords recognized by the lexer. GET is an accepted alias for Gather and
// is normalized during scanning, so it does not appear here.
var keywords = map[string]bool{
	"EXEC":   true,
	"INIT":   true,
	"req":    true,
	"prohib": true,
	"floop":  true,
}
