package lexer

import (
	"testing"

	"github.com/alecthomas/repr"

	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/types"
)

func kinds(toks []types.Token) []types.TokenKind {
	ret := make([]types.TokenKind, len(toks))
	for i, t := range toks {
		ret[i] = t.Kind
	}
	return ret
}

func TestLexer(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   []types.TokenKind
	}{
		{"keywords", "fn let if return while break true false", []types.TokenKind{
			types.FN, types.LET, types.IF, types.RETURN, types.WHILE, types.BREAK, types.TRUE, types.FALSE, types.EOF,
		}},
		{"operators", "== = + . != - * /", []types.TokenKind{
			types.EQ, types.EQUALS, types.PLUS, types.PERIOD, types.NOT_EQ, types.MINUS, types.STAR, types.SLASH, types.EOF,
		}},
		{"punctuation", "( ) { } ,", []types.TokenKind{
			types.LPAREN, types.RPAREN, types.LBRACKET, types.RBRACKET, types.COMMA, types.EOF,
		}},
		{"function", "fn x(b){ let c = b return c } x(4)", []types.TokenKind{
			types.FN, types.IDENT, types.LPAREN, types.IDENT, types.RPAREN, types.LBRACKET,
			types.LET, types.IDENT, types.EQUALS, types.IDENT,
			types.RETURN, types.IDENT, types.RBRACKET,
			types.IDENT, types.LPAREN, types.INT, types.RPAREN, types.EOF,
		}},
		{"method on integer", "5.mut_sum(1)", []types.TokenKind{
			types.INT, types.PERIOD, types.IDENT, types.LPAREN, types.INT, types.RPAREN, types.EOF,
		}},
		{"comments", "// leading\nlet a = 1 // trailing\n// last", []types.TokenKind{
			types.LET, types.IDENT, types.EQUALS, types.INT, types.EOF,
		}},
		{"pointer", "&value = 2", []types.TokenKind{
			types.AMPERSAND, types.IDENT, types.EQUALS, types.INT, types.EOF,
		}},
		{"string", `println("Value is {}")`, []types.TokenKind{
			types.IDENT, types.LPAREN, types.STRING, types.RPAREN, types.EOF,
		}},
		{"empty", "", []types.TokenKind{types.EOF}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.source, "test.ham")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := kinds(toks)
			if len(got) != len(c.want) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("token %d: got %v, want %v\n%s", i, got[i], c.want[i], repr.String(toks))
				}
			}
		})
	}
}

func TestLexerLiterals(t *testing.T) {
	toks, err := Tokenize(`42 3.25 "Value is {}" "a\"b\n" _under9`, "test.ham")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []struct {
		kind types.TokenKind
		text string
	}{
		{types.INT, "42"},
		{types.FLOAT, "3.25"},
		{types.STRING, "Value is {}"},
		{types.STRING, "a\"b\n"},
		{types.IDENT, "_under9"},
		{types.EOF, ""},
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Fatalf("token %d: got %s %q, want %s %q", i, toks[i].Kind, toks[i].Text, w.kind, w.text)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	toks, err := Tokenize("let x = 1\n  x == 10", "pos.ham")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	eq := toks[5]
	if eq.Kind != types.EQ {
		t.Fatalf("expected EQ, got %s", eq)
	}
	if eq.Location.From.Line != 2 || eq.Location.From.Column != 5 || eq.Location.To.Column != 6 {
		t.Fatalf("unexpected span %s", eq.Location)
	}
	if eq.Location.From.Offset != 14 {
		t.Fatalf("unexpected offset %d", eq.Location.From.Offset)
	}
	ten := toks[6]
	if ten.Location.From.Column != 8 || ten.Location.To.Column != 9 {
		t.Fatalf("unexpected span for 10: %s", ten.Location)
	}
	if ten.Location.From.Filename != "pos.ham" {
		t.Fatalf("unexpected filename %q", ten.Location.From.Filename)
	}
}

func TestLexerErrors(t *testing.T) {
	_, err := Tokenize("let a = 1\nlet b = @", "bad.ham")
	uc, ok := err.(errors.UnrecognizedCharacter)
	if !ok {
		t.Fatalf("expected UnrecognizedCharacter, got %#v", err)
	}
	if uc.Char != '@' || uc.Location.From.Line != 2 || uc.Location.From.Column != 9 {
		t.Fatalf("unexpected error %#v", uc)
	}

	_, err = Tokenize(`println("oops)`, "bad.ham")
	us, ok := err.(errors.UnterminatedString)
	if !ok {
		t.Fatalf("expected UnterminatedString, got %#v", err)
	}
	if us.Location.From.Column != 9 {
		t.Fatalf("unterminated string should point at its opening quote, got %s", us.Location)
	}

	_, err = Tokenize("a ! b", "bad.ham")
	if _, ok := err.(errors.UnrecognizedCharacter); !ok {
		t.Fatalf("lone ! should not lex, got %#v", err)
	}
}

func TestLexerStopsAtFirstError(t *testing.T) {
	l := FromString("a # b", "stop.ham")
	if tok, err := l.Lex(); err != nil || tok.Kind != types.IDENT {
		t.Fatalf("expected identifier first, got %v %v", tok, err)
	}
	_, first := l.Lex()
	if first == nil {
		t.Fatalf("expected an error for #")
	}
	_, again := l.Lex()
	if again != first {
		t.Fatalf("lexer should keep returning the first error, got %v", again)
	}
}

func TestLexerRestartable(t *testing.T) {
	src := "fn add(a, b) { return a + b }"
	first, err := Tokenize(src, "a.ham")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Tokenize(src, "a.ham")
	if err != nil {
		t.Fatal(err)
	}
	if repr.String(first) != repr.String(second) {
		t.Fatalf("token streams differ between runs")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	l := FromString("a b", "peek.ham")
	p, _ := l.Peek()
	if !l.PeekIs(types.IDENT) {
		t.Fatalf("PeekIs should see the identifier")
	}
	n, _ := l.Lex()
	if p != n || n.Text != "a" {
		t.Fatalf("peek %v and lex %v disagree", p, n)
	}
	n, _ = l.Lex()
	if n.Text != "b" {
		t.Fatalf("expected b, got %v", n)
	}
}
