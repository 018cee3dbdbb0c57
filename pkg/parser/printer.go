package parser

import (
	"fmt"
	"strings"
)

// Format pretty-prints the program in canonical CBHS layout: tier-1 opens
// in column 1, tier-2 opens in column 3, closes vertically aligned with
// their opens. Re-parsing the output yields an equivalent AST.
func (prog *Program) Format() string {
	var sb strings.Builder
	for i, alpha := range prog.Alphas {
		if i > 0 {
			sb.WriteByte('\n')
		}
		formatAlpha(&sb, alpha)
	}
	return sb.String()
}

func formatAlpha(sb *strings.Builder, alpha *AlphaBlock) {
	if alpha.Doc != "" {
		sb.WriteString("##--#\n")
		sb.WriteString(alpha.Doc)
		sb.WriteString("\n#--##\n")
	}

	sb.WriteString("<")
	sb.WriteString(alpha.Name)
	sb.WriteString(":\n")
	for _, beta := range alpha.Betas {
		formatBeta(sb, beta)
	}
	sb.WriteString(">\n")

	if alpha.Exec != nil {
		sb.WriteString("<EXEC")
		if len(alpha.Exec.Modifiers) > 0 {
			sb.WriteString(": ")
			for _, mod := range alpha.Exec.Modifiers {
				if mod.ChainOp != "" {
					sb.WriteString(" ")
					sb.WriteString(mod.ChainOp)
					sb.WriteString(" ")
				}
				sb.WriteString(mod.Name)
				if mod.Value != nil {
					sb.WriteString(":")
					sb.WriteString(formatValue(mod.Value))
				}
			}
		}
		sb.WriteString(">\n")
	}
}

func formatBeta(sb *strings.Builder, beta *BetaBlock) {
	sb.WriteString("  [")
	sb.WriteString(beta.Name)
	sb.WriteString(" =\n")
	for _, gamma := range beta.Gammas {
		sb.WriteString("    ")
		formatGamma(sb, gamma)
		sb.WriteByte('\n')
	}
	sb.WriteString("  ]\n")
}

func formatGamma(sb *strings.Builder, gamma *GammaBlock) {
	sb.WriteString("{param ")
	sb.WriteString(gamma.Key)
	if gamma.Qualifier != "" {
		sb.WriteString(":")
		sb.WriteString(gamma.Qualifier)
	}
	sb.WriteString(" = ")
	sb.WriteString(formatDelta(gamma.Delta))
	sb.WriteString("}")
}

func formatDelta(delta *DeltaBlock) string {
	if delta == nil {
		return "(val)"
	}
	parts := make([]string, len(delta.Values))
	for i, v := range delta.Values {
		parts[i] = formatValue(v)
	}
	return "(val " + strings.Join(parts, ", ") + ")"
}

func formatValue(v *Value) string {
	switch v.Kind {
	case ValueString:
		return quote(v.Str)
	case ValueInt:
		return fmt.Sprintf("%d", v.Int)
	case ValueBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case ValueIdent:
		if v.Args != nil {
			return v.Ident + ":" + formatDelta(v.Args)
		}
		return v.Ident
	default:
		return ""
	}
}

// quote re-escapes a string literal so the lexer reads back the same text.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, ch := range s {
		switch ch {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		default:
			sb.WriteRune(ch)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
