// Package token defines the lexical tokens produced by the arki lexer.
package token

import "fmt"

// Kind identifies the variant a Token carries.
type Kind int

const (
	Bad Kind = iota
	Ident
	Number
	Comment
	Label
	Comma
	Newline

	// Mnemonics
	Mov
	Hlt
	Srr
	Srw
	Or
	Litr
	Stb
	Stw
	Stl
	Stq
	Ldb
	Ldw
	Ldl
	Ldq
	B

	// Directives
	DotByte
	DotSkip

	// Registers
	G0
	G1
	G2
	G3
	G4
	G5
	G6
	G7
	A0
	A1
	A2
	A3
	A4
	A5
	A6
	A7
	Sp
)

// keywords maps the exact spelling of every mnemonic, directive, and
// register name to its token kind. Built once; the lexer never needs the
// original's first-character dispatch switch to find a match.
var keywords = map[string]Kind{
	"mov": Mov, "hlt": Hlt, "srr": Srr, "srw": Srw, "or": Or,
	"litr": Litr, "stb": Stb, "stw": Stw, "stl": Stl, "stq": Stq,
	"ldb": Ldb, "ldw": Ldw, "ldl": Ldl, "ldq": Ldq, "b": B,
	".byte": DotByte, ".skip": DotSkip,
	"g0": G0, "g1": G1, "g2": G2, "g3": G3,
	"g4": G4, "g5": G5, "g6": G6, "g7": G7,
	"a0": A0, "a1": A1, "a2": A2, "a3": A3,
	"a4": A4, "a5": A5, "a6": A6, "a7": A7,
	"sp": Sp,
}

// Lookup returns the keyword kind for name and true, or (Bad, false) if
// name is an ordinary identifier.
func Lookup(name string) (Kind, bool) {
	k, ok := keywords[name]
	return k, ok
}

// RegIndex reports whether k names a general-purpose register (ok), which
// bank it is in (isG: g0..g7, otherwise a0..a7), and its 0..7 index within
// that bank.
func RegIndex(k Kind) (index int, isG bool, ok bool) {
	switch k {
	case G0, G1, G2, G3, G4, G5, G6, G7:
		return int(k - G0), true, true
	case A0, A1, A2, A3, A4, A5, A6, A7:
		return int(k - A0), false, true
	}
	return 0, false, false
}

// Token is a tagged variant over the lexical alphabet of the assembler.
// Rather than a C-style union keyed by Kind, each payload gets its own
// field; only the field matching Kind is meaningful.
type Token struct {
	Kind Kind
	Line int

	Text  string // Ident, Label
	Value int64  // Number
	Ch    byte   // structural tokens, for diagnostics
}

func (t Token) String() string {
	switch t.Kind {
	case Ident:
		return t.Text
	case Label:
		return t.Text + ":"
	case Number:
		return fmt.Sprintf("%d", t.Value)
	case Comma:
		return ","
	case Newline:
		return "\n"
	default:
		for name, k := range keywords {
			if k == t.Kind {
				return name
			}
		}
		return fmt.Sprintf("<kind %d>", t.Kind)
	}
}
