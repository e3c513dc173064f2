package parser

import (
	"math/big"
	"strconv"

	"github.com/ztrue/tracerr"

	"github.com/ham-lang/hamgo/ast"
	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/lexer"
	"github.com/ham-lang/hamgo/types"
)

const (
	LOWEST int = iota
	ASSIGN
	EQUALITY
	SUM
	PRODUCT
	PREFIX
	CALL
)

var precedences = map[types.TokenKind]int{
	types.EQUALS: ASSIGN,
	types.EQ:     EQUALITY,
	types.NOT_EQ: EQUALITY,
	types.PLUS:   SUM,
	types.MINUS:  SUM,
	types.STAR:   PRODUCT,
	types.SLASH:  PRODUCT,
	types.LPAREN: CALL,
	types.PERIOD: CALL,
}

type Parser struct {
	l    *lexer.Lexer
	last types.Token
}

func NewParser(l *lexer.Lexer) Parser {
	return Parser{l: l}
}

// ParseString parses a whole program held in memory.
func ParseString(source, filename string) (ast.Program, error) {
	p := NewParser(lexer.FromString(source, filename))
	return p.Parse()
}

func (p *Parser) Parse() (prog ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	for !p.peekIs(types.EOF) {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	return prog, nil
}

func (p *Parser) peek() types.Token {
	tok, err := p.l.Peek()
	if err != nil {
		panic(err)
	}
	return tok
}

func (p *Parser) peekIs(k ...types.TokenKind) bool {
	tok := p.peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

func (p *Parser) next() types.Token {
	tok, err := p.l.Lex()
	if err != nil {
		panic(err)
	}
	p.last = tok
	return tok
}

func (p *Parser) expect(k ...types.TokenKind) types.Token {
	tok := p.next()
	for _, kind := range k {
		if tok.Kind == kind {
			return tok
		}
	}

	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      tok,
		Location: tok.Location,
	})
}

// sameLine reports whether the upcoming token starts on the line where the
// previous one ended.
func (p *Parser) sameLine() bool {
	return p.peek().Location.From.Line == p.last.Location.To.Line
}

func (p *Parser) spanFrom(from types.Token) types.Span {
	return types.Span{From: from.Location.From, To: p.last.Location.To}
}

func (p *Parser) parseStatement() ast.Statement {
	tok := p.peek()

	switch tok.Kind {
	case types.LET:
		p.next()
		name := p.expect(types.IDENT)
		p.expect(types.EQUALS)
		value := p.parseExpression(LOWEST)
		return ast.Let{
			Name:  identOf(name),
			Value: value,
			Pos:   p.spanFrom(tok),
		}
	case types.FN:
		p.next()
		if !p.peekIs(types.IDENT) {
			lit := p.parseFuncLitRest(tok)
			expr := p.continueExpression(lit, LOWEST)
			return ast.ExprStmt{Expr: expr, Pos: p.spanFrom(tok)}
		}
		name := p.expect(types.IDENT)
		params := p.parseParams()
		body := p.parseBlock()
		return ast.FuncDecl{
			Name:   identOf(name),
			Params: params,
			Body:   body,
			Pos:    p.spanFrom(tok),
		}
	case types.IF, types.WHILE:
		p.next()
		cond := p.parseExpression(LOWEST)
		body := p.parseBlock()
		if tok.Kind == types.IF {
			return ast.If{Condition: cond, Body: body, Pos: p.spanFrom(tok)}
		}
		return ast.While{Condition: cond, Body: body, Pos: p.spanFrom(tok)}
	case types.RETURN:
		p.next()
		var value ast.Expression
		if p.sameLine() && !p.peekIs(types.RBRACKET, types.EOF) {
			value = p.parseExpression(LOWEST)
		}
		return ast.Return{Value: value, Pos: p.spanFrom(tok)}
	case types.BREAK:
		p.next()
		return ast.Break{Pos: tok.Location}
	}

	expr := p.parseExpression(LOWEST)
	return ast.ExprStmt{Expr: expr, Pos: p.spanFrom(tok)}
}

// parseBlock reads a brace-delimited statement list.
func (p *Parser) parseBlock() ast.Block {
	p.expect(types.LBRACKET)
	statements := ast.Block{}

	for !p.peekIs(types.RBRACKET) {
		if p.peekIs(types.EOF) {
			p.expect(types.RBRACKET)
		}
		statements = append(statements, p.parseStatement())
	}
	p.expect(types.RBRACKET)

	return statements
}

func (p *Parser) parseParams() []ast.Identifier {
	p.expect(types.LPAREN)
	var params []ast.Identifier

	for !p.peekIs(types.RPAREN) {
		params = append(params, identOf(p.expect(types.IDENT)))
		if p.peekIs(types.RPAREN) {
			break
		}
		p.expect(types.COMMA, types.RPAREN)
	}
	p.expect(types.RPAREN)

	return params
}

// parseArgs is called with the parser past the opening paren.
func (p *Parser) parseArgs() []ast.Expression {
	var args []ast.Expression

	for !p.peekIs(types.RPAREN) {
		args = append(args, p.parseExpression(LOWEST))
		if p.peekIs(types.RPAREN) {
			break
		}
		p.expect(types.COMMA, types.RPAREN)
	}
	p.expect(types.RPAREN)

	return args
}

func (p *Parser) parseFuncLitRest(fnTok types.Token) ast.Expression {
	params := p.parseParams()
	body := p.parseBlock()
	return ast.FuncLit{Params: params, Body: body, Pos: p.spanFrom(fnTok)}
}

func (p *Parser) parseExpression(prec int) ast.Expression {
	return p.continueExpression(p.parsePrefix(), prec)
}

func (p *Parser) continueExpression(left ast.Expression, prec int) ast.Expression {
	for {
		tok := p.peek()
		next, ok := precedences[tok.Kind]
		if !ok || prec >= next {
			return left
		}
		// an operator on a new line starts a new statement
		if !p.sameLine() {
			return left
		}
		left = p.parseInfix(left)
	}
}

func (p *Parser) parsePrefix() ast.Expression {
	tok := p.next()

	switch tok.Kind {
	case types.INT:
		v, ok := new(big.Int).SetString(tok.Text, 10)
		if !ok {
			panic(errors.ExpectedExpression{Got: tok, Location: tok.Location})
		}
		return ast.IntLit{Value: v, Pos: tok.Location}
	case types.FLOAT:
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			panic(errors.ExpectedExpression{Got: tok, Location: tok.Location})
		}
		return ast.FloatLit{Value: v, Pos: tok.Location}
	case types.STRING:
		return ast.StringLit{Value: tok.Text, Pos: tok.Location}
	case types.TRUE, types.FALSE:
		return ast.BoolLit{Value: tok.Kind == types.TRUE, Pos: tok.Location}
	case types.IDENT:
		return ast.Var(identOf(tok))
	case types.LPAREN:
		inner := p.parseExpression(LOWEST)
		p.expect(types.RPAREN)
		return inner
	case types.MINUS:
		operand := p.parseExpression(PREFIX)
		return ast.Unary{Op: tok.Kind, Operand: operand, Pos: p.spanFrom(tok)}
	case types.FN:
		return p.parseFuncLitRest(tok)
	case types.AMPERSAND:
		name := p.expect(types.IDENT)
		return ast.Ref{Target: identOf(name), Pos: p.spanFrom(tok)}
	}

	panic(errors.ExpectedExpression{Got: tok, Location: tok.Location})
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	tok := p.next()
	from := ast.ExprPos(left)
	span := func() types.Span {
		return types.Span{From: from.From, To: p.last.Location.To}
	}

	switch tok.Kind {
	case types.EQUALS:
		var target ast.Identifier
		switch v := left.(type) {
		case ast.Var:
			target = ast.Identifier(v)
		case ast.Ref:
			// &x = v stores into x, through x's pointer if it holds one
			target = v.Target
		default:
			panic(errors.InvalidAssignmentTarget{Location: from})
		}
		// right associative: a = b = c
		value := p.parseExpression(ASSIGN - 1)
		return ast.Assign{Target: target, Value: value, Pos: span()}
	case types.LPAREN:
		args := p.parseArgs()
		return ast.Call{Callee: left, Arguments: args, Pos: span()}
	case types.PERIOD:
		name := p.expect(types.IDENT)
		p.expect(types.LPAREN)
		args := p.parseArgs()
		return ast.MethodCall{Receiver: left, Method: identOf(name), Arguments: args, Pos: span()}
	}

	right := p.parseExpression(precedences[tok.Kind])
	return ast.Binary{Op: tok.Kind, Left: left, Right: right, Pos: span()}
}

func identOf(tok types.Token) ast.Identifier {
	return ast.Identifier{Name: tok.Text, Pos: tok.Location}
}
