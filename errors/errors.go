package errors

import (
	"fmt"
	"strings"

	"github.com/ztrue/tracerr"

	"github.com/ham-lang/hamgo/types"
)

// CoreError is implemented by every error the lexer, parser and evaluator
// hand back to a driver.
type CoreError interface {
	error
	Kind() string
	Span() types.Span
}

type UnrecognizedCharacter struct {
	Char     rune
	Location types.Span
}

func (e UnrecognizedCharacter) Error() string {
	return fmt.Sprintf("unrecognized character %q. %s", e.Char, e.Location)
}

func (e UnrecognizedCharacter) Kind() string     { return "LexError" }
func (e UnrecognizedCharacter) Span() types.Span { return e.Location }

type UnterminatedString struct {
	Location types.Span
}

func (e UnterminatedString) Error() string {
	return fmt.Sprintf("unterminated string literal. %s", e.Location)
}

func (e UnterminatedString) Kind() string     { return "LexError" }
func (e UnterminatedString) Span() types.Span { return e.Location }

type ExpectedOneOfKindGotKind struct {
	Expected []types.TokenKind
	Got      types.Token
	Location types.Span
}

func (e ExpectedOneOfKindGotKind) Error() string {
	names := make([]string, len(e.Expected))
	for i, k := range e.Expected {
		names[i] = k.String()
	}
	if len(names) == 1 {
		return fmt.Sprintf("got a %s, expected a %s. %s", e.Got, names[0], e.Location)
	}
	return fmt.Sprintf("got a %s, expected one of %s. %s", e.Got, strings.Join(names, ", "), e.Location)
}

func (e ExpectedOneOfKindGotKind) Kind() string     { return "ParseError" }
func (e ExpectedOneOfKindGotKind) Span() types.Span { return e.Location }

// ExpectedExpression is raised when a token cannot start an expression.
type ExpectedExpression struct {
	Got      types.Token
	Location types.Span
}

func (e ExpectedExpression) Error() string {
	return fmt.Sprintf("got a %s, expected an expression. %s", e.Got, e.Location)
}

func (e ExpectedExpression) Kind() string     { return "ParseError" }
func (e ExpectedExpression) Span() types.Span { return e.Location }

type InvalidAssignmentTarget struct {
	Location types.Span
}

func (e InvalidAssignmentTarget) Error() string {
	return fmt.Sprintf("only a variable can be assigned to. %s", e.Location)
}

func (e InvalidAssignmentTarget) Kind() string     { return "ParseError" }
func (e InvalidAssignmentTarget) Span() types.Span { return e.Location }

type Class int

const (
	UndefinedName Class = iota
	TypeMismatch
	WrongArity
	UnsupportedMethod
	DivisionByZero
	StackOverflow
	FormatMismatch
	BreakOutsideLoop
	BrokenPointer
)

func (c Class) String() string {
	switch c {
	case UndefinedName:
		return "undefined name"
	case TypeMismatch:
		return "type mismatch"
	case WrongArity:
		return "wrong arity"
	case UnsupportedMethod:
		return "unsupported method"
	case DivisionByZero:
		return "division by zero"
	case StackOverflow:
		return "stack overflow"
	case FormatMismatch:
		return "format mismatch"
	case BreakOutsideLoop:
		return "break outside loop"
	case BrokenPointer:
		return "broken pointer"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

type RuntimeError struct {
	Class    Class
	Message  string
	Location types.Span
}

func NewRuntimeError(class Class, at types.Span, msg string, fmts ...interface{}) *RuntimeError {
	return &RuntimeError{
		Class:    class,
		Message:  fmt.Sprintf(msg, fmts...),
		Location: at,
	}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s: %s. %s", e.Class, e.Message, e.Location)
}

func (e *RuntimeError) Kind() string     { return "RuntimeError" }
func (e *RuntimeError) Span() types.Span { return e.Location }

// AsCore strips tracerr wrapping and reports whether err is a CoreError.
func AsCore(err error) (CoreError, bool) {
	if err == nil {
		return nil, false
	}
	ce, ok := tracerr.Unwrap(err).(CoreError)
	return ce, ok
}

// AsRuntime is AsCore narrowed to runtime errors.
func AsRuntime(err error) (*RuntimeError, bool) {
	ce, ok := AsCore(err)
	if !ok {
		return nil, false
	}
	re, ok := ce.(*RuntimeError)
	return re, ok
}

// Describe renders err the way the driver reports it: kind, message and position.
func Describe(err error) string {
	ce, ok := AsCore(err)
	if !ok {
		return err.Error()
	}
	return fmt.Sprintf("%s: %s", ce.Kind(), ce.Error())
}
