// Package asmstate holds the per-pass assembler context: the running
// virtual program counter and the pass-gated byte emitter.
//
// Per the original spec's "two-pass state reset" design note, a Pass is
// constructed fresh for each pass from a rewound reader rather than
// mutated in place, so the two passes cannot accidentally diverge.
package asmstate

import "io"

// Index identifies which of the two assembler passes is running.
// Pass0 only defines symbols and never writes bytes; Pass1 emits them.
type Index int

const (
	Pass0 Index = iota
	Pass1
)

// Pass is the mutable state threaded through one top-to-bottom scan:
// origin address, running vpc, and (on Pass1) the output byte sink.
type Pass struct {
	Index  Index
	Origin int64
	VPC    int64

	Out io.Writer // nil on Pass0
}

// New returns a fresh Pass context. origin is the base address label
// resolution adds to vpc.
func New(idx Index, origin int64, out io.Writer) *Pass {
	return &Pass{Index: idx, Origin: origin, Out: out}
}

// EmitByte is the emission primitive shared by every codegen handler: it
// always advances vpc by one, and writes the byte only on Pass1. This is
// the Go analogue of the source's cg_emitb macro.
func (p *Pass) EmitByte(b byte) error {
	if p.Index == Pass1 {
		if _, err := p.Out.Write([]byte{b}); err != nil {
			return err
		}
	}
	p.VPC++
	return nil
}

// Addr reports the absolute address corresponding to the current vpc.
func (p *Pass) Addr() int64 {
	return p.Origin + p.VPC
}
