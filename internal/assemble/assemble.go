// Package assemble wires the lexer, parser, symbol table, and codegen
// into the two-pass driver described by the original spec's own
// "two-pass state reset" design note: rather than mutating one state
// value in place between passes (rewind stream, zero vpc, ++pass_count),
// each pass gets a freshly constructed asmstate.Pass over a freshly
// rewound reader, so pass 1 cannot observe pass 0's leftover vpc.
package assemble

import (
	"bytes"
	"os"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/asmstate"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/ast"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/codegen"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/parser"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/symbol"
)

// ToBuffer assembles the full contents of src (origin 0) and returns the
// resulting flat binary image. Pass 0 only populates the symbol table;
// pass 1 writes the returned bytes.
func ToBuffer(src []byte) ([]byte, error) {
	arena := ast.NewArena()
	sym := symbol.NewTable()
	cg := codegen.New()

	pass0 := asmstate.New(asmstate.Pass0, 0, nil)
	p0 := parser.New(bytes.NewReader(src), arena, sym, pass0, cg)
	if err := p0.Run(); err != nil {
		return nil, err
	}
	arena.Reset()

	var out bytes.Buffer
	pass1 := asmstate.New(asmstate.Pass1, 0, &out)
	p1 := parser.New(bytes.NewReader(src), arena, sym, pass1, cg)
	if err := p1.Run(); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// File assembles the source file at inPath and (over)writes the result
// to outPath, matching arki's "default output filename is y64.bin,
// overwritten per input" CLI contract.
func File(inPath, outPath string) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	out, err := ToBuffer(src)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, out, 0o644)
}
