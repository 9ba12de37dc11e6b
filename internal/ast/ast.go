// Package ast holds the per-statement expression trees built by the
// parser. Nodes live in a slice-backed Arena addressed by Handle rather
// than by pointer, matching the source's own stated target of replacing
// its malloc'd-and-freed-wholesale pointer box with an integer-handle
// arena (see the original spec's Design Notes on the AST arena).
package ast

import (
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/symbol"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/token"
)

// Kind tags the shape/meaning of a Node.
type Kind int

const (
	Number Kind = iota
	Reg
	LabelRef

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
	Branch
	Byte
	Skip
)

// Handle addresses a Node within an Arena. Handles count up from 0 in
// allocation order; NoHandle marks an absent child.
type Handle int

const NoHandle Handle = -1

// Node is a binary-tree node: a tag plus optional left/right children and
// a payload variant (only the field relevant to Kind is meaningful).
type Node struct {
	Kind  Kind
	Left  Handle
	Right Handle

	Value  int64          // Number
	RegTok token.Kind     // Reg: g0..a7 token kind
	Name   string         // LabelRef: symbol name
	Sym    *symbol.Symbol // LabelRef: resolved symbol, nil if unresolved (pass 0)
}

// Arena owns a flat slice of nodes; handles are stable for the arena's
// lifetime and are never invalidated by growth since the backing slice
// append never mutates previously returned indices.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Alloc appends n and returns its handle.
func (a *Arena) Alloc(n Node) Handle {
	a.nodes = append(a.nodes, n)
	return Handle(len(a.nodes) - 1)
}

// Get dereferences a handle. NoHandle or an out-of-range handle returns
// nil.
func (a *Arena) Get(h Handle) *Node {
	if h == NoHandle || int(h) < 0 || int(h) >= len(a.nodes) {
		return nil
	}
	return &a.nodes[h]
}

// Reset discards all nodes, reusing the backing storage. Used between
// assembler passes so neither pass can observe the other's arena.
func (a *Arena) Reset() {
	a.nodes = a.nodes[:0]
}
