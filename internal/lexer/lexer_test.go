package lexer

import (
	"testing"

	"github.com/tsg-lang/tsg/internal/token"
)

func TestNextTokenBasics(t *testing.T) {
	input := `def add(a, b) { a + b; }
def main() {
	// comment
	val x = 1 + 2 * 3;
	if (x == 7) { x; } else { 0; }
}`

	tests := []struct {
		wantType token.Type
		wantLit  string
	}{
		{token.DEF, "def"},
		{token.IDENT, "add"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.DEF, "def"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.VAL, "val"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "1"},
		{token.PLUS, "+"},
		{token.NUMBER, "2"},
		{token.STAR, "*"},
		{token.NUMBER, "3"},
		{token.SEMI, ";"},
		{token.IF, "if"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.EQ, "=="},
		{token.NUMBER, "7"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.IDENT, "x"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.ELSE, "else"},
		{token.LBRACE, "{"},
		{token.NUMBER, "0"},
		{token.SEMI, ";"},
		{token.RBRACE, "}"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLit)
		}
	}
}

func TestNextTokenIllegal(t *testing.T) {
	l := New("val x = 1 @ 2;")
	var got token.Type
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		got = tok.Type
		if tok.Literal == "@" {
			if tok.Type != token.ILLEGAL {
				t.Fatalf("expected ILLEGAL for '@', got %s", tok.Type)
			}
		}
	}
	_ = got
}

func TestPositionsAreOneBased(t *testing.T) {
	l := New("val\nx")
	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("first token pos = %v, want 1:1", tok.Pos)
	}
	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("second token pos = %v, want 2:1", tok.Pos)
	}
}
