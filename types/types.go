package types

import (
	"fmt"
)

type Position struct {
	Offset   int
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

type TokenKind int

const (
	EOF TokenKind = iota
	ILLEGAL

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	COMMA
	PERIOD

	EQUALS
	EQ
	NOT_EQ
	PLUS
	MINUS
	STAR
	SLASH
	AMPERSAND

	INT
	FLOAT
	IDENT
	STRING

	FN
	LET
	IF
	RETURN
	WHILE
	BREAK
	TRUE
	FALSE
)

func (t TokenKind) String() string {
	data := map[TokenKind]string{
		EOF:       "EOF",
		ILLEGAL:   "ILLEGAL",
		LPAREN:    "LPAREN",
		RPAREN:    "RPAREN",
		LBRACKET:  "LBRACKET",
		RBRACKET:  "RBRACKET",
		COMMA:     "COMMA",
		PERIOD:    "PERIOD",
		EQUALS:    "EQUALS",
		EQ:        "EQ",
		NOT_EQ:    "NOT_EQ",
		PLUS:      "PLUS",
		MINUS:     "MINUS",
		STAR:      "STAR",
		SLASH:     "SLASH",
		AMPERSAND: "AMPERSAND",
		INT:       "INT",
		FLOAT:     "FLOAT",
		IDENT:     "IDENT",
		STRING:    "STRING",
		FN:        "FN",
		LET:       "LET",
		IF:        "IF",
		RETURN:    "RETURN",
		WHILE:     "WHILE",
		BREAK:     "BREAK",
		TRUE:      "TRUE",
		FALSE:     "FALSE",
	}
	if s, ok := data[t]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(t))
}

// Keywords maps reserved words to their token kinds.
var Keywords = map[string]TokenKind{
	"fn":     FN,
	"let":    LET,
	"if":     IF,
	"return": RETURN,
	"while":  WHILE,
	"break":  BREAK,
	"true":   TRUE,
	"false":  FALSE,
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}

// Join returns the span covering both a and b.
func Join(a, b Span) Span {
	return Span{From: a.From, To: b.To}
}

type Token struct {
	Kind     TokenKind
	Text     string
	Location Span
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, INT, FLOAT:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	case STRING:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	}
	return t.Kind.String()
}
