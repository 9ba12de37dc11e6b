// Package parser implements the arki recursive-descent parser: one
// top-to-bottom scan building a tiny AST per statement and threading
// pass-specific side effects (label definition on pass 0, codegen
// dispatch on every pass).
package parser

import (
	"fmt"
	"io"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/asmstate"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/ast"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/lexer"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/symbol"
	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/token"
)

// Error reports a syntactic or semantic parse failure with its line.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[error]: %s near line %d", e.Msg, e.Line)
}

// Emitter is implemented by the codegen package; the parser forwards each
// resolved AST root to it immediately, exactly as the source's
// parse_begin calls cg_resolve_node inline.
type Emitter interface {
	Resolve(arena *ast.Arena, root ast.Handle, pass *asmstate.Pass) error
}

// Parser drives one pass over a token stream.
type Parser struct {
	lx    *lexer.Lexer
	arena *ast.Arena
	sym   *symbol.Table
	pass  *asmstate.Pass
	cg    Emitter
	cur   token.Token

	pending    token.Token
	hasPending bool
}

// New constructs a parser for one pass. arena and sym are shared across
// both passes (sym accumulates definitions in pass 0 and is read in pass
// 1; arena is reset by the caller between passes).
func New(src io.Reader, arena *ast.Arena, sym *symbol.Table, pass *asmstate.Pass, cg Emitter) *Parser {
	return &Parser{lx: lexer.New(src), arena: arena, sym: sym, pass: pass, cg: cg}
}

// scan returns the next token, consuming a pending (token-level pushed
// back) token first if one was unscan'd by a prior statement handler.
func (p *Parser) scan() (token.Token, error) {
	if p.hasPending {
		p.hasPending = false
		p.cur = p.pending
		return p.pending, nil
	}
	tok, err := p.lx.Scan()
	if err != nil {
		return token.Token{}, err
	}
	p.cur = tok
	return tok, nil
}

// unscan pushes a single token back; the next scan returns it again. Used
// by statement handlers that must peek one token past their grammar to
// find its end (".byte" operand chains).
func (p *Parser) unscan(tok token.Token) {
	p.pending = tok
	p.hasPending = true
}

func (p *Parser) expect(kind token.Kind, what string) (token.Token, error) {
	tok, err := p.scan()
	if err != nil {
		return token.Token{}, &Error{Line: p.lx.Line(), Msg: fmt.Sprintf("expected %s, got end of input", what)}
	}
	if tok.Kind != kind {
		return token.Token{}, &Error{Line: tok.Line, Msg: fmt.Sprintf("expected %s, got %s", what, tok.String())}
	}
	return tok, nil
}

func (p *Parser) newNode(n ast.Node) ast.Handle {
	n.Left, n.Right = ast.NoHandle, ast.NoHandle
	return p.arena.Alloc(n)
}

// regNode builds a Reg leaf from a register token, failing if tok is not
// one.
func (p *Parser) regNode(tok token.Token) (ast.Handle, error) {
	if _, _, ok := token.RegIndex(tok.Kind); !ok {
		return ast.NoHandle, &Error{Line: tok.Line, Msg: fmt.Sprintf("expected register, got %s", tok.String())}
	}
	return p.newNode(ast.Node{Kind: ast.Reg, RegTok: tok.Kind}), nil
}

// srcOperand resolves a source operand token into a Number, Reg, or
// LabelRef node, applying the pass-sensitive symbol resolution rule:
// on pass 0 an undefined label yields a deferred (nil-symbol) reference;
// on pass >= 1 it is fatal.
func (p *Parser) srcOperand(tok token.Token) (ast.Handle, error) {
	switch tok.Kind {
	case token.Number:
		return p.newNode(ast.Node{Kind: ast.Number, Value: tok.Value}), nil
	case token.Ident:
		sym := p.sym.ByName(tok.Text)
		if sym == nil && p.pass.Index > asmstate.Pass0 {
			return ast.NoHandle, &Error{Line: tok.Line, Msg: fmt.Sprintf("undefined reference to '%s'", tok.Text)}
		}
		if sym != nil && sym.Kind != symbol.Label {
			return ast.NoHandle, &Error{Line: tok.Line, Msg: fmt.Sprintf("'%s' is not a label", tok.Text)}
		}
		return p.newNode(ast.Node{Kind: ast.LabelRef, Name: tok.Text, Sym: sym}), nil
	default:
		if _, _, ok := token.RegIndex(tok.Kind); ok {
			return p.newNode(ast.Node{Kind: ast.Reg, RegTok: tok.Kind}), nil
		}
		return ast.NoHandle, &Error{Line: tok.Line, Msg: fmt.Sprintf("unexpected operand %s", tok.String())}
	}
}

func (p *Parser) link(kind ast.Kind, left, right ast.Handle) ast.Handle {
	h := p.arena.Alloc(ast.Node{Kind: kind, Left: left, Right: right})
	return h
}

// Run scans and processes every statement in the input once. It returns
// nil on a clean end of input, or the first fatal error.
func (p *Parser) Run() error {
	for {
		tok, err := p.scan()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch tok.Kind {
		case token.Newline, token.Comment:
			continue
		case token.Label:
			if p.pass.Index == asmstate.Pass0 {
				p.sym.New(tok.Text, symbol.Label, p.pass.Addr())
			}
			continue
		}

		root, err := p.parseStatement(tok)
		if err != nil {
			return err
		}
		if err := p.cg.Resolve(p.arena, root, p.pass); err != nil {
			return err
		}
	}
}

func (p *Parser) parseStatement(tok token.Token) (ast.Handle, error) {
	switch tok.Kind {
	case token.Mov:
		return p.parseMov()
	case token.Hlt:
		return p.newNode(ast.Node{Kind: ast.Hlt}), nil
	case token.Srr:
		return p.newNode(ast.Node{Kind: ast.Srr}), nil
	case token.Srw:
		return p.newNode(ast.Node{Kind: ast.Srw}), nil
	case token.Or:
		return p.parseOr()
	case token.Litr:
		return p.parseLitr()
	case token.Stb:
		return p.parseStore(ast.Stb)
	case token.Stw:
		return p.parseStore(ast.Stw)
	case token.Stl:
		return p.parseStore(ast.Stl)
	case token.Stq:
		return p.parseStore(ast.Stq)
	case token.Ldb:
		return p.parseLoad(ast.Ldb)
	case token.Ldw:
		return p.parseLoad(ast.Ldw)
	case token.Ldl:
		return p.parseLoad(ast.Ldl)
	case token.Ldq:
		return p.parseLoad(ast.Ldq)
	case token.B:
		return p.parseBranch()
	case token.DotByte:
		return p.parseByte()
	case token.DotSkip:
		return p.parseSkip()
	default:
		return ast.NoHandle, &Error{Line: tok.Line, Msg: fmt.Sprintf("unexpected token %s", tok.String())}
	}
}

// parseMov: "mov Rd, src" -> mov{left=register(Rd), right=number|label|register}
func (p *Parser) parseMov() (ast.Handle, error) {
	regTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	lhs, err := p.regNode(regTok)
	if err != nil {
		return ast.NoHandle, err
	}
	if _, err := p.expectComma(); err != nil {
		return ast.NoHandle, err
	}
	srcTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rhs, err := p.srcOperand(srcTok)
	if err != nil {
		return ast.NoHandle, err
	}
	return p.link(ast.Mov, lhs, rhs), nil
}

func (p *Parser) expectComma() (token.Token, error) {
	return p.expect(token.Comma, "','")
}

// parseOr: "or Rd, src" (src restricted to number by codegen, the parser
// itself accepts the same operand shapes as mov).
func (p *Parser) parseOr() (ast.Handle, error) {
	regTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	lhs, err := p.regNode(regTok)
	if err != nil {
		return ast.NoHandle, err
	}
	if _, err := p.expectComma(); err != nil {
		return ast.NoHandle, err
	}
	srcTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rhs, err := p.srcOperand(srcTok)
	if err != nil {
		return ast.NoHandle, err
	}
	return p.link(ast.Or, lhs, rhs), nil
}

// parseLitr: "litr Rs" -> leaf carrying reg.
func (p *Parser) parseLitr() (ast.Handle, error) {
	regTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	if _, _, ok := token.RegIndex(regTok.Kind); !ok {
		return ast.NoHandle, &Error{Line: regTok.Line, Msg: fmt.Sprintf("expected register, got %s", regTok.String())}
	}
	return p.newNode(ast.Node{Kind: ast.Litr, RegTok: regTok.Kind}), nil
}

// parseStore: "stX Rd, Rs" -> stX{left=register(Rd), right=register(Rs)}
func (p *Parser) parseStore(kind ast.Kind) (ast.Handle, error) {
	rdTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rd, err := p.regNode(rdTok)
	if err != nil {
		return ast.NoHandle, err
	}
	if _, err := p.expectComma(); err != nil {
		return ast.NoHandle, err
	}
	rsTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rs, err := p.regNode(rsTok)
	if err != nil {
		return ast.NoHandle, err
	}
	return p.link(kind, rd, rs), nil
}

// parseLoad: "ldX Rd, Rs" -> ldX{left=register(Rd), right=register(Rs)},
// the same shape and operand order as parseStore; codegen's emitLoad reads
// left/right as rd/rs exactly as emitStore does.
func (p *Parser) parseLoad(kind ast.Kind) (ast.Handle, error) {
	rdTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rd, err := p.regNode(rdTok)
	if err != nil {
		return ast.NoHandle, err
	}
	if _, err := p.expectComma(); err != nil {
		return ast.NoHandle, err
	}
	rsTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rs, err := p.regNode(rsTok)
	if err != nil {
		return ast.NoHandle, err
	}
	return p.link(kind, rd, rs), nil
}

// parseBranch: "b Rs" -> branch{right=register(Rs)}
func (p *Parser) parseBranch() (ast.Handle, error) {
	rsTok, err := p.scan()
	if err != nil {
		return ast.NoHandle, err
	}
	rs, err := p.regNode(rsTok)
	if err != nil {
		return ast.NoHandle, err
	}
	return p.link(ast.Branch, ast.NoHandle, rs), nil
}

// parseByte: ".byte N (',' N)*" -> byte root with right-linked number
// chain.
func (p *Parser) parseByte() (ast.Handle, error) {
	root := p.arena.Alloc(ast.Node{Kind: ast.Byte, Left: ast.NoHandle, Right: ast.NoHandle})
	tail := root

	for {
		numTok, err := p.expect(token.Number, "number")
		if err != nil {
			return ast.NoHandle, err
		}
		n := p.newNode(ast.Node{Kind: ast.Number, Value: numTok.Value})
		p.arena.Get(tail).Right = n
		tail = n

		next, err := p.scan()
		if err == io.EOF {
			break
		}
		if next.Kind != token.Comma {
			p.unscan(next)
			break
		}
	}
	return root, nil
}

// parseSkip: ".skip N" -> skip{right=number(N)}
func (p *Parser) parseSkip() (ast.Handle, error) {
	numTok, err := p.expect(token.Number, "number")
	if err != nil {
		return ast.NoHandle, err
	}
	n := p.newNode(ast.Node{Kind: ast.Number, Value: numTok.Value})
	return p.link(ast.Skip, ast.NoHandle, n), nil
}
