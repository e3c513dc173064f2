package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ham-lang/hamgo/types"
)

var opText = map[types.TokenKind]string{
	types.EQ:     "==",
	types.NOT_EQ: "!=",
	types.PLUS:   "+",
	types.MINUS:  "-",
	types.STAR:   "*",
	types.SLASH:  "/",
}

func OpString(k types.TokenKind) string {
	if s, ok := opText[k]; ok {
		return s
	}
	return k.String()
}

func paramList(params []Identifier) string {
	var names []string
	for _, p := range params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

func argList(args []Expression) string {
	var out []string
	for _, a := range args {
		out = append(out, ExprString(a))
	}
	return strings.Join(out, ", ")
}

// ExprString renders an expression back into source form.
func ExprString(e Expression) string {
	switch v := e.(type) {
	case IntLit:
		return v.Value.String()
	case FloatLit:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case StringLit:
		return strconv.Quote(v.Value)
	case BoolLit:
		return strconv.FormatBool(v.Value)
	case Var:
		return v.Name
	case Ref:
		return "&" + v.Target.Name
	case Unary:
		return OpString(v.Op) + ExprString(v.Operand)
	case Binary:
		return fmt.Sprintf("(%s %s %s)", ExprString(v.Left), OpString(v.Op), ExprString(v.Right))
	case Assign:
		return fmt.Sprintf("%s = %s", v.Target.Name, ExprString(v.Value))
	case Call:
		return fmt.Sprintf("%s(%s)", ExprString(v.Callee), argList(v.Arguments))
	case MethodCall:
		return fmt.Sprintf("%s.%s(%s)", ExprString(v.Receiver), v.Method.Name, argList(v.Arguments))
	case FuncLit:
		return fmt.Sprintf("fn(%s) { ... }", paramList(v.Params))
	case nil:
		return ""
	}
	panic(fmt.Sprintf("unhandled expression %T", e))
}

func (f FuncDecl) String() string {
	return fmt.Sprintf("fn %s(%s)", f.Name.Name, paramList(f.Params))
}

// ExprPos is the source span of an expression.
func ExprPos(e Expression) types.Span {
	switch v := e.(type) {
	case IntLit:
		return v.Pos
	case FloatLit:
		return v.Pos
	case StringLit:
		return v.Pos
	case BoolLit:
		return v.Pos
	case Var:
		return v.Pos
	case Ref:
		return v.Pos
	case Unary:
		return v.Pos
	case Binary:
		return v.Pos
	case Assign:
		return v.Pos
	case Call:
		return v.Pos
	case MethodCall:
		return v.Pos
	case FuncLit:
		return v.Pos
	}
	return types.Span{}
}
