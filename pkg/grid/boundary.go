package grid

// BorderFamily groups box-drawing characters into the five recognized
// border styles. Candidates are labeled with the majority family of their
// boundary cells.
type BorderFamily int

const (
	// FamilyNone marks characters that are not boundary characters.
	FamilyNone BorderFamily = iota

	// FamilySingle covers the single-line box-drawing set (U+2500 block).
	FamilySingle

	// FamilyDouble covers the double-line set.
	FamilyDouble

	// FamilyHeavy covers the heavy-line set.
	FamilyHeavy

	// FamilyRounded covers single lines with rounded corners.
	FamilyRounded

	// FamilyCustom covers ASCII approximations: +, -, |, = and brackets.
	FamilyCustom
)

// String returns the label used on candidates and in JSON output.
func (f BorderFamily) String() string {
	switch f {
	case FamilySingle:
		return "single"
	case FamilyDouble:
		return "double"
	case FamilyHeavy:
		return "heavy"
	case FamilyRounded:
		return "rounded"
	case FamilyCustom:
		return "custom"
	default:
		return "none"
	}
}

// borderTable is the fixed classification table. Rounded corners share their
// straight segments with the single family, so only corner characters are
// classed rounded. A box's label is the per-character majority, so a rounded
// box whose straight segments outnumber its corners is labelled single.
var borderTable = map[rune]BorderFamily{
	// Single-line.
	'─': FamilySingle, '│': FamilySingle,
	'┌': FamilySingle, '┐': FamilySingle, '└': FamilySingle, '┘': FamilySingle,
	'├': FamilySingle, '┤': FamilySingle, '┬': FamilySingle, '┴': FamilySingle,
	'┼': FamilySingle,

	// Double-line.
	'═': FamilyDouble, '║': FamilyDouble,
	'╔': FamilyDouble, '╗': FamilyDouble, '╚': FamilyDouble, '╝': FamilyDouble,
	'╠': FamilyDouble, '╣': FamilyDouble, '╦': FamilyDouble, '╩': FamilyDouble,
	'╬': FamilyDouble,

	// Heavy.
	'━': FamilyHeavy, '┃': FamilyHeavy,
	'┏': FamilyHeavy, '┓': FamilyHeavy, '┗': FamilyHeavy, '┛': FamilyHeavy,
	'┣': FamilyHeavy, '┫': FamilyHeavy, '┳': FamilyHeavy, '┻': FamilyHeavy,
	'╋': FamilyHeavy,

	// Rounded corners.
	'╭': FamilyRounded, '╮': FamilyRounded, '╰': FamilyRounded, '╯': FamilyRounded,

	// ASCII approximations.
	'+': FamilyCustom, '-': FamilyCustom, '|': FamilyCustom, '=': FamilyCustom,
	'[': FamilyCustom, ']': FamilyCustom,
}

// Connection directions of a border character, as a bitmask. A gap in a
// border line is only repairable when the characters on both sides actually
// connect toward the gap.
const (
	ConnUp = 1 << iota
	ConnDown
	ConnLeft
	ConnRight
)

var connTable = map[rune]int{
	'─': ConnLeft | ConnRight, '━': ConnLeft | ConnRight, '═': ConnLeft | ConnRight,
	'-': ConnLeft | ConnRight, '=': ConnLeft | ConnRight,
	'│': ConnUp | ConnDown, '┃': ConnUp | ConnDown, '║': ConnUp | ConnDown, '|': ConnUp | ConnDown,
	'┌': ConnRight | ConnDown, '┏': ConnRight | ConnDown, '╔': ConnRight | ConnDown, '╭': ConnRight | ConnDown,
	'┐': ConnLeft | ConnDown, '┓': ConnLeft | ConnDown, '╗': ConnLeft | ConnDown, '╮': ConnLeft | ConnDown,
	'└': ConnRight | ConnUp, '┗': ConnRight | ConnUp, '╚': ConnRight | ConnUp, '╰': ConnRight | ConnUp,
	'┘': ConnLeft | ConnUp, '┛': ConnLeft | ConnUp, '╝': ConnLeft | ConnUp, '╯': ConnLeft | ConnUp,
	'├': ConnUp | ConnDown | ConnRight, '┣': ConnUp | ConnDown | ConnRight, '╠': ConnUp | ConnDown | ConnRight,
	'┤': ConnUp | ConnDown | ConnLeft, '┫': ConnUp | ConnDown | ConnLeft, '╣': ConnUp | ConnDown | ConnLeft,
	'┬': ConnLeft | ConnRight | ConnDown, '┳': ConnLeft | ConnRight | ConnDown, '╦': ConnLeft | ConnRight | ConnDown,
	'┴': ConnLeft | ConnRight | ConnUp, '┻': ConnLeft | ConnRight | ConnUp, '╩': ConnLeft | ConnRight | ConnUp,
	'┼': ConnUp | ConnDown | ConnLeft | ConnRight, '╋': ConnUp | ConnDown | ConnLeft | ConnRight,
	'╬': ConnUp | ConnDown | ConnLeft | ConnRight, '+': ConnUp | ConnDown | ConnLeft | ConnRight,
}

// Connections returns the connection bitmask for a border character, or 0
// for characters with no line semantics (brackets included).
func Connections(ch rune) int {
	return connTable[ch]
}

// ClassifyBorder returns the border family of a character, or FamilyNone.
func ClassifyBorder(ch rune) BorderFamily {
	return borderTable[ch]
}

// IsBoundary reports whether the character belongs to any border family.
func IsBoundary(ch rune) bool {
	return borderTable[ch] != FamilyNone
}

// IsBoundaryAt reports whether the cell at (x, y) holds a boundary
// character. Out-of-bounds cells are not boundaries.
func (g *Grid) IsBoundaryAt(x, y int) bool {
	return IsBoundary(g.CharAt(x, y))
}

// SameFamily reports whether two characters are boundary characters of the
// same family. Rounded is compatible with single for gap repair, since the
// straight segments are shared between the two sets.
func SameFamily(a, b rune) bool {
	fa, fb := ClassifyBorder(a), ClassifyBorder(b)
	if fa == FamilyNone || fb == FamilyNone {
		return false
	}
	if fa == fb {
		return true
	}
	single := func(f BorderFamily) bool { return f == FamilySingle || f == FamilyRounded }
	return single(fa) && single(fb)
}
