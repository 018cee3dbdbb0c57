package parser

import (
	"github.com/deadcoast/hunt/pkg/diag"
	"github.com/deadcoast/hunt/pkg/lexer"
)

// Program is the root AST node: a sequence of alpha blocks.
type Program struct {
	Alphas []*AlphaBlock
}

// AlphaBlock is a tier-1 block: the definition of one pattern.
type AlphaBlock struct {
	// Name is the PascalCase head identifier.
	Name string

	// NameCase records how the head identifier was actually cased.
	NameCase lexer.IdentCase

	// Doc is the docstring immediately preceding the block, if any.
	Doc string

	Betas []*BetaBlock
	Exec  *ExecClause

	// Span is the position of the opening '<'; its column anchors the
	// vertical-reachability check for this block.
	Span diag.Span
}

// ExecClause is the optional <EXEC: ...> group following an alpha block.
type ExecClause struct {
	Modifiers []*Modifier
	Span      diag.Span
}

// Modifier is one element of an EXEC modifier chain.
type Modifier struct {
	// Name is the camelCase modifier identifier, or a keyword such as
	// prohib or req.
	Name string

	// Value is the optional argument after the bridge.
	Value *Value

	// ChainOp is the operator joining this modifier to the previous one:
	// "&" or "@@". Empty for the first modifier.
	ChainOp string

	Span diag.Span
}

// BetaBlock is a tier-2 block holding a rule list or metadata section.
type BetaBlock struct {
	// Name is the SCREAMING_SNAKE_CASE section identifier (INIT, META, ...).
	Name string

	NameCase lexer.IdentCase
	Gammas   []*GammaBlock
	Span     diag.Span
}

// GammaBlock is a tier-3 block: one parameter, which the compiler lowers to
// one rule.
type GammaBlock struct {
	// Key is the camelCase parameter key (tag, pluck, trap, ...).
	Key string

	// Qualifier is the optional identifier after the bridge, e.g. the
	// pluck target in {param pluck:buttonText = ...}.
	Qualifier string

	Delta *DeltaBlock
	Span  diag.Span
}

// DeltaBlock is a tier-4 block: the (val ...) value list.
type DeltaBlock struct {
	Values []*Value
	Span   diag.Span
}

// ValueKind discriminates the Value variants.
type ValueKind int

const (
	// ValueString is a double-quoted literal.
	ValueString ValueKind = iota
	// ValueInt is an integer literal.
	ValueInt
	// ValueBool is true or false.
	ValueBool
	// ValueIdent is a snake_case identifier, optionally parameterized with
	// a nested delta block.
	ValueIdent
)

// Value is a delta-block value.
type Value struct {
	Kind ValueKind
	Str  string
	Int  int
	Bool bool

	// Ident and Args are set for ValueIdent; Args holds the nested
	// delta block of ident:(val ...) forms.
	Ident string
	Args  *DeltaBlock

	Span diag.Span
}
