package runtime

import (
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/ham-lang/hamgo/ast"
	"github.com/ham-lang/hamgo/types"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
	KindUnit
	KindFunction
	KindBuiltin
	KindPointer
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "boolean"
	case KindUnit:
		return "unit"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindPointer:
		return "pointer"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue is an arbitrary precision integer, or a float64 when Int is nil.
type NumberValue struct {
	Int   *big.Int
	Float float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

func Int(i int64) NumberValue {
	return NumberValue{Int: big.NewInt(i)}
}

func BigInt(i *big.Int) NumberValue {
	return NumberValue{Int: new(big.Int).Set(i)}
}

func Float(f float64) NumberValue {
	return NumberValue{Float: f}
}

func (v NumberValue) IsFloat() bool {
	return v.Int == nil
}

func (v NumberValue) float() float64 {
	if v.Int == nil {
		return v.Float
	}
	f, _ := new(big.Float).SetInt(v.Int).Float64()
	return f
}

func (v NumberValue) IsZero() bool {
	if v.Int == nil {
		return v.Float == 0
	}
	return v.Int.Sign() == 0
}

func (v NumberValue) arith(o NumberValue, ints func(z, a, b *big.Int) *big.Int, floats func(a, b float64) float64) NumberValue {
	if v.Int != nil && o.Int != nil {
		return NumberValue{Int: ints(new(big.Int), v.Int, o.Int)}
	}
	return NumberValue{Float: floats(v.float(), o.float())}
}

func (v NumberValue) Add(o NumberValue) NumberValue {
	return v.arith(o, (*big.Int).Add, func(a, b float64) float64 { return a + b })
}

func (v NumberValue) Sub(o NumberValue) NumberValue {
	return v.arith(o, (*big.Int).Sub, func(a, b float64) float64 { return a - b })
}

func (v NumberValue) Mul(o NumberValue) NumberValue {
	return v.arith(o, (*big.Int).Mul, func(a, b float64) float64 { return a * b })
}

// Div truncates toward zero when both operands are integers. The caller
// rejects a zero divisor.
func (v NumberValue) Div(o NumberValue) NumberValue {
	return v.arith(o, (*big.Int).Quo, func(a, b float64) float64 { return a / b })
}

func (v NumberValue) Neg() NumberValue {
	if v.Int != nil {
		return NumberValue{Int: new(big.Int).Neg(v.Int)}
	}
	return NumberValue{Float: -v.Float}
}

func (v NumberValue) Equal(o NumberValue) bool {
	if v.Int != nil && o.Int != nil {
		return v.Int.Cmp(o.Int) == 0
	}
	return v.float() == o.float()
}

func (v NumberValue) String() string {
	if v.Int != nil {
		return v.Int.String()
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type UnitValue struct{}

func (UnitValue) Kind() Kind { return KindUnit }

var Unit Value = UnitValue{}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue is a closure. Body is shared with the AST it came from.
type FunctionValue struct {
	Name    string
	Params  []ast.Identifier
	Body    ast.Block
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

// NativeCall carries what a builtin needs from the call site.
type NativeCall struct {
	Pos types.Span
	Out io.Writer
}

type NativeFunc func(call NativeCall, args []Value) (Value, error)

// BuiltinValue is a host function bound in the global environment.
// Arity is -1 for variadic builtins.
type BuiltinValue struct {
	Name  string
	Arity int
	Impl  NativeFunc
}

func (v *BuiltinValue) Kind() Kind { return KindBuiltin }

//-----------------------------------------------------------------------------
// Pointers
//-----------------------------------------------------------------------------

// maxPointerChain bounds how many pointers Resolve follows, so that pointers
// which end up referring to each other are reported instead of looping.
const maxPointerChain = 64

// PointerValue refers to a binding rather than to a value: reads see the
// binding's current value and stores replace it.
type PointerValue struct {
	Scope *Environment
	Name  string
}

func (p *PointerValue) Kind() Kind { return KindPointer }

func (p *PointerValue) Load() Value {
	return p.Scope.values[p.Name]
}

func (p *PointerValue) Store(v Value) {
	p.Scope.values[p.Name] = v
}

// Resolve follows a chain of pointers to the last one, whose binding holds a
// plain value. ok is false when the chain does not end.
func (p *PointerValue) Resolve() (last *PointerValue, ok bool) {
	cur := p
	for hops := 0; hops < maxPointerChain; hops++ {
		next, isPtr := cur.Load().(*PointerValue)
		if !isPtr {
			return cur, true
		}
		cur = next
	}
	return nil, false
}

// Deref returns the value v ultimately refers to. Non-pointers are returned
// as they are.
func Deref(v Value) (Value, bool) {
	p, ok := v.(*PointerValue)
	if !ok {
		return v, true
	}
	last, ok := p.Resolve()
	if !ok {
		return nil, false
	}
	return last.Load(), true
}

// Format renders a value the way println shows it. Pointers show what they
// point at.
func Format(v Value) string {
	switch val := v.(type) {
	case *PointerValue:
		target, ok := Deref(val)
		if !ok {
			return fmt.Sprintf("<broken pointer %s>", val.Name)
		}
		return Format(target)
	case NumberValue:
		return val.String()
	case StringValue:
		return val.Val
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case UnitValue:
		return "()"
	case *FunctionValue:
		if val.Name == "" {
			return "<fn>"
		}
		return fmt.Sprintf("<fn %s>", val.Name)
	case *BuiltinValue:
		return fmt.Sprintf("<builtin %s>", val.Name)
	case nil:
		return "()"
	}
	return fmt.Sprintf("%v", v)
}
