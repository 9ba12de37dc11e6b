package lexer

import (
	"io"
	"strings"
	"testing"

	"github.com/LUNOTA-SOFTWARE-FOUNDATION/Y-64/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(strings.NewReader(src))
	var toks []token.Token
	for {
		tok, err := l.Scan()
		if err == io.EOF {
			return toks
		}
		if err != nil {
			t.Fatalf("Scan(%q): %v", src, err)
		}
		toks = append(toks, tok)
	}
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestMnemonicRegisterAndNumberReconstruction(t *testing.T) {
	toks := scanAll(t, "mov g0, 0x11111\n")
	got := kinds(toks)
	want := []token.Kind{token.Mov, token.G0, token.Comma, token.Number, token.Newline}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
	if toks[3].Value != 0x11111 {
		t.Fatalf("number = %#x, want 0x11111", toks[3].Value)
	}
}

func TestUnderscoreSeparatedNumber(t *testing.T) {
	toks := scanAll(t, "1_000_000\n")
	if toks[0].Kind != token.Number || toks[0].Value != 1000000 {
		t.Fatalf("got %+v, want Number(1000000)", toks[0])
	}
}

func TestLabelVsIdentDisambiguation(t *testing.T) {
	toks := scanAll(t, "loop: mov g0, loop\n")
	if toks[0].Kind != token.Label || toks[0].Text != "loop" {
		t.Fatalf("got %+v, want Label(loop)", toks[0])
	}
	// The second occurrence has no trailing colon and must come back as a
	// plain identifier, not another label -- this exercises the putback
	// path in scanIdent that un-reads the colon's non-colon terminator.
	last := toks[len(toks)-1-1] // skip the trailing newline
	if last.Kind != token.Ident || last.Text != "loop" {
		t.Fatalf("got %+v, want Ident(loop)", last)
	}
}

func TestCommentIsSkippedToEndOfLine(t *testing.T) {
	toks := scanAll(t, "hlt ; halt the machine\nfoo\n")
	if toks[0].Kind != token.Hlt {
		t.Fatalf("toks[0] = %+v, want Hlt", toks[0])
	}
	// skipLine consumes through the newline that ends the comment, so the
	// next scanned identifier is whatever follows on the next line.
	var next token.Token
	for _, tok := range toks[1:] {
		if tok.Kind == token.Comment {
			continue
		}
		next = tok
		break
	}
	if next.Kind != token.Ident || next.Text != "foo" {
		t.Fatalf("got %+v, want Ident(foo)", next)
	}
}

func TestReconstructsSourceTokenByToken(t *testing.T) {
	src := "mov g0, 1\nhlt\n"
	toks := scanAll(t, src)
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 && tok.Kind != token.Newline && toks[i-1].Kind != token.Newline {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.String())
	}
	if got := sb.String(); got != "mov g0 , 1\nhlt\n" {
		t.Fatalf("got %q", got)
	}
}
