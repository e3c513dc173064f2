package lexer

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/types"
)

// Lexer produces tokens on demand. It stops at the first error and keeps
// returning that error; a fresh Lexer over the same source starts over.
type Lexer struct {
	pos     types.Position
	reader  *bufio.Reader
	history []readRune
	unread  []readRune
	peeked  *types.Token
	err     error
}

type readRune struct {
	r    rune
	at   types.Position
	next types.Position
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    types.Position{Line: 1, Column: 1, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func FromString(source, filename string) *Lexer {
	return NewLexer(strings.NewReader(source), filename)
}

// Tokenize lexes source to the end, including the trailing EOF token.
func Tokenize(source, filename string) ([]types.Token, error) {
	l := FromString(source, filename)
	var ret []types.Token
	for {
		tok, err := l.Lex()
		if err != nil {
			return ret, err
		}
		ret = append(ret, tok)
		if tok.Kind == types.EOF {
			return ret, nil
		}
	}
}

// Pos is the position of the next unread character.
func (l *Lexer) Pos() types.Position {
	return l.pos
}

func (l *Lexer) read() (rune, types.Position, error) {
	var rr readRune
	if n := len(l.unread); n > 0 {
		rr = l.unread[n-1]
		l.unread = l.unread[:n-1]
	} else {
		r, size, err := l.reader.ReadRune()
		if err != nil {
			return 0, l.pos, err
		}
		next := l.pos
		next.Offset += size
		if r == '\n' {
			next.Line++
			next.Column = 1
		} else {
			next.Column++
		}
		rr = readRune{r: r, at: l.pos, next: next}
	}

	l.history = append(l.history, rr)
	if len(l.history) > 4 {
		l.history = l.history[1:]
	}
	l.pos = rr.next
	return rr.r, rr.at, nil
}

func (l *Lexer) backup() {
	n := len(l.history)
	if n == 0 {
		panic("lexer: backup without a preceding read")
	}
	rr := l.history[n-1]
	l.history = l.history[:n-1]
	l.unread = append(l.unread, rr)
	l.pos = rr.at
}

func (l *Lexer) peekRune() (rune, bool) {
	r, _, err := l.read()
	if err != nil {
		return 0, false
	}
	l.backup()
	return r, true
}

func firstChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func otherChar(r rune) bool {
	return firstChar(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexIdent(from types.Position, first rune) types.Token {
	lit := []rune{first}
	to := from

	for {
		r, at, err := l.read()
		if err != nil {
			break
		}
		if !otherChar(r) {
			l.backup()
			break
		}
		lit = append(lit, r)
		to = at
	}

	text := string(lit)
	kind := types.IDENT
	if kw, ok := types.Keywords[text]; ok {
		kind = kw
	}
	return types.Token{Kind: kind, Text: text, Location: types.Span{From: from, To: to}}
}

func (l *Lexer) lexNumber(from types.Position, first rune) types.Token {
	lit := []rune{first}
	to := from
	kind := types.INT

	for {
		r, at, err := l.read()
		if err != nil {
			break
		}
		if unicode.IsDigit(r) {
			lit = append(lit, r)
			to = at
			continue
		}
		if r == '.' && kind == types.INT {
			// 5.mut_sum(1) is a method call on an integer, not a float.
			if next, ok := l.peekRune(); ok && unicode.IsDigit(next) {
				lit = append(lit, r)
				to = at
				kind = types.FLOAT
				continue
			}
		}
		l.backup()
		break
	}

	return types.Token{Kind: kind, Text: string(lit), Location: types.Span{From: from, To: to}}
}

func (l *Lexer) lexString(from types.Position) (types.Token, error) {
	var lit strings.Builder

	for {
		r, at, err := l.read()
		if err != nil {
			return types.Token{}, errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}}
		}

		switch r {
		case '"':
			return types.Token{Kind: types.STRING, Text: lit.String(), Location: types.Span{From: from, To: at}}, nil
		case '\\':
			esc, _, err := l.read()
			if err != nil {
				return types.Token{}, errors.UnterminatedString{Location: types.Span{From: from, To: l.pos}}
			}
			switch esc {
			case 'n':
				lit.WriteRune('\n')
			case 't':
				lit.WriteRune('\t')
			case '"', '\\':
				lit.WriteRune(esc)
			default:
				lit.WriteRune('\\')
				lit.WriteRune(esc)
			}
		default:
			lit.WriteRune(r)
		}
	}
}

func (l *Lexer) Peek() (types.Token, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	tok, err := l.Lex()
	if err != nil {
		return tok, err
	}
	l.peeked = &tok

	return tok, nil
}

func (l *Lexer) PeekIs(k ...types.TokenKind) bool {
	token, err := l.Peek()
	if err != nil {
		return false
	}
	for _, kind := range k {
		if token.Kind == kind {
			return true
		}
	}

	return false
}

func (l *Lexer) Lex() (types.Token, error) {
	if l.peeked != nil {
		tok := *l.peeked
		l.peeked = nil
		return tok, nil
	}
	if l.err != nil {
		return types.Token{}, l.err
	}
	tok, err := l.lex()
	if err != nil {
		l.err = err
	}
	return tok, err
}

var punctuation = map[rune]types.TokenKind{
	'(': types.LPAREN,
	')': types.RPAREN,
	'{': types.LBRACKET,
	'}': types.RBRACKET,
	',': types.COMMA,
	'.': types.PERIOD,
	'+': types.PLUS,
	'-': types.MINUS,
	'*': types.STAR,
	'&': types.AMPERSAND,
}

func (l *Lexer) lex() (types.Token, error) {
	for {
		r, at, err := l.read()
		if err != nil {
			if err == io.EOF {
				return types.Token{Kind: types.EOF, Location: types.SingleCharSpan(l.pos)}, nil
			}
			return types.Token{}, err
		}

		single := func(kind types.TokenKind) types.Token {
			return types.Token{Kind: kind, Text: string(r), Location: types.SingleCharSpan(at)}
		}
		double := func(kind types.TokenKind, text string) types.Token {
			_, end, _ := l.read()
			return types.Token{Kind: kind, Text: text, Location: types.Span{From: at, To: end}}
		}

		if kind, ok := punctuation[r]; ok {
			return single(kind), nil
		}

		switch r {
		case '=':
			if next, ok := l.peekRune(); ok && next == '=' {
				return double(types.EQ, "=="), nil
			}
			return single(types.EQUALS), nil
		case '!':
			if next, ok := l.peekRune(); ok && next == '=' {
				return double(types.NOT_EQ, "!="), nil
			}
			return types.Token{}, errors.UnrecognizedCharacter{Char: r, Location: types.SingleCharSpan(at)}
		case '/':
			if next, ok := l.peekRune(); ok && next == '/' {
				l.skipComment()
				continue
			}
			return single(types.SLASH), nil
		case '"':
			return l.lexString(at)
		}

		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r):
			return l.lexNumber(at, r), nil
		case firstChar(r):
			return l.lexIdent(at, r), nil
		}

		return types.Token{}, errors.UnrecognizedCharacter{Char: r, Location: types.SingleCharSpan(at)}
	}
}

func (l *Lexer) skipComment() {
	for {
		r, _, err := l.read()
		if err != nil || r == '\n' {
			return
		}
	}
}
