package parser

import (
	"strings"
	"testing"

	"github.com/deadcoast/hunt/pkg/diag"
)

func parseSrc(t *testing.T, src string) (*Program, *diag.List, error) {
	t.Helper()
	diags := diag.NewList()
	prog, err := Parse(src, diags, Options{})
	return prog, diags, err
}

const buttonSrc = `##--#
Matches bracketed push buttons.
#--##
<Button:
  [INIT =
    {param tag = (val "[", "]")}
    {param pluck:buttonText = (val "\[(.+?)\]")}
  ]
>
<EXEC: track>
`

func TestParseButtonPattern(t *testing.T) {
	prog, diags, err := parseSrc(t, buttonSrc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	if len(prog.Alphas) != 1 {
		t.Fatalf("alphas = %d, want 1", len(prog.Alphas))
	}

	alpha := prog.Alphas[0]
	if alpha.Name != "Button" {
		t.Errorf("Name = %q, want Button", alpha.Name)
	}
	if alpha.Doc != "Matches bracketed push buttons." {
		t.Errorf("Doc = %q", alpha.Doc)
	}
	if len(alpha.Betas) != 1 || alpha.Betas[0].Name != "INIT" {
		t.Fatalf("betas = %+v, want one INIT section", alpha.Betas)
	}

	gammas := alpha.Betas[0].Gammas
	if len(gammas) != 2 {
		t.Fatalf("gammas = %d, want 2", len(gammas))
	}
	if gammas[0].Key != "tag" || len(gammas[0].Delta.Values) != 2 {
		t.Errorf("gamma 0 = %+v", gammas[0])
	}
	if gammas[1].Key != "pluck" || gammas[1].Qualifier != "buttonText" {
		t.Errorf("gamma 1 = %+v", gammas[1])
	}
	if gammas[1].Delta.Values[0].Str != `\[(.+?)\]` {
		t.Errorf("regex literal = %q", gammas[1].Delta.Values[0].Str)
	}

	if alpha.Exec == nil || len(alpha.Exec.Modifiers) != 1 || alpha.Exec.Modifiers[0].Name != "track" {
		t.Errorf("Exec = %+v, want track modifier", alpha.Exec)
	}
}

func TestParseUnalignedBetaClose(t *testing.T) {
	src := strings.Join([]string{
		"<Button:",
		"  [INIT =",
		"    {param tag = (val \"[\")}",
		"   ]", // close at column 4, open at column 3
		">",
	}, "\n")

	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !diags.HasKind(diag.KindBracketUnaligned) {
		t.Error("expected E_BRACKET_UNALIGNED")
	}
	// Parsing continues; the block still exists.
	if len(prog.Alphas) != 1 || len(prog.Alphas[0].Betas) != 1 {
		t.Errorf("misaligned block should still parse: %+v", prog.Alphas)
	}
}

func TestParseAlignedEmitsNoAlignmentDiagnostics(t *testing.T) {
	_, diags, err := parseSrc(t, buttonSrc)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diags.HasKind(diag.KindBracketUnaligned) {
		t.Error("perfectly aligned program must emit no E_BRACKET_UNALIGNED")
	}
}

func TestParseStrictAlignmentFatal(t *testing.T) {
	src := "<Button:\n  [INIT =\n   ]\n>"
	diags := diag.NewList()
	if _, err := Parse(src, diags, Options{StrictAlignment: true}); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !diags.HasFatal() {
		t.Error("strict alignment should promote misalignment to fatal")
	}
}

func TestParseWrongNamingCase(t *testing.T) {
	src := "<button:\n  [init =\n  ]\n>"
	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diags.CountKind(diag.KindWrongNamingCase) == 0 {
		t.Error("expected W_WRONG_NAMING_CASE diagnostics")
	}
	// Wrong case never stops parsing.
	if len(prog.Alphas) != 1 || prog.Alphas[0].Name != "button" {
		t.Errorf("program = %+v", prog.Alphas)
	}
}

func TestParseMissingCloseSynthesized(t *testing.T) {
	src := "<Button:\n  [INIT =\n>"
	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v (missing close must be recoverable)", err)
	}
	if !diags.HasKind(diag.KindMissingClose) {
		t.Error("expected E_MISSING_CLOSE")
	}
	if len(prog.Alphas) != 1 || len(prog.Alphas[0].Betas) != 1 {
		t.Errorf("block should survive synthesized close: %+v", prog.Alphas)
	}
}

func TestParseStrayCloseIsFatal(t *testing.T) {
	_, diags, err := parseSrc(t, ">\n<A:\n>")
	if err == nil {
		t.Fatal("stray close at top level must return ErrUnbalanced")
	}
	if !diags.HasKind(diag.KindUnbalancedBrackets) {
		t.Error("expected E_UNBALANCED_BRACKETS")
	}
}

func TestParseSkipsStrayTokens(t *testing.T) {
	src := "<Button:\n  42 ,\n  [INIT =\n  ]\n>"
	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !diags.HasKind(diag.KindUnexpectedToken) {
		t.Error("expected E_UNEXPECTED_TOKEN for stray tokens")
	}
	if len(prog.Alphas) != 1 || len(prog.Alphas[0].Betas) != 1 {
		t.Errorf("parser should resynchronize at '[': %+v", prog.Alphas)
	}
}

func TestParseModifierChain(t *testing.T) {
	src := "<Button:\n>\n<EXEC: track & prohib @@ weight:80>"
	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	mods := prog.Alphas[0].Exec.Modifiers
	if len(mods) != 3 {
		t.Fatalf("modifiers = %d, want 3", len(mods))
	}
	if mods[1].Name != "prohib" || mods[1].ChainOp != "&" {
		t.Errorf("mods[1] = %+v", mods[1])
	}
	if mods[2].Name != "weight" || mods[2].ChainOp != "@@" || mods[2].Value == nil || mods[2].Value.Int != 80 {
		t.Errorf("mods[2] = %+v", mods[2])
	}
}

func TestParseNestedValueArgs(t *testing.T) {
	src := "<Guard:\n  [INIT =\n    {param snare = (val min_width:(val 4), \"too narrow\")}\n  ]\n>"
	prog, diags, err := parseSrc(t, src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diags.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}

	vals := prog.Alphas[0].Betas[0].Gammas[0].Delta.Values
	if len(vals) != 2 {
		t.Fatalf("values = %d, want 2", len(vals))
	}
	if vals[0].Kind != ValueIdent || vals[0].Ident != "min_width" || vals[0].Args == nil {
		t.Errorf("vals[0] = %+v, want parameterized ident", vals[0])
	}
	if vals[0].Args.Values[0].Int != 4 {
		t.Errorf("nested arg = %+v, want 4", vals[0].Args.Values[0])
	}
}
