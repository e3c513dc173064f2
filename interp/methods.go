package interp

import (
	"math/big"

	"github.com/ham-lang/hamgo/ast"
	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/runtime"
)

// methodCall is everything a builtin method sees of its call site.
type methodCall struct {
	node     ast.MethodCall
	receiver runtime.Value
	args     []runtime.Value
	env      *runtime.Environment
}

type method struct {
	arity int
	impl  func(call methodCall) (runtime.Value, error)
}

// methods is keyed by the receiver's kind, then by method name.
var methods = map[runtime.Kind]map[string]method{
	runtime.KindNumber: {
		"sum":     {arity: 1, impl: numberSum},
		"mut_sum": {arity: 1, impl: numberMutSum},
	},
	runtime.KindString: {
		"len": {arity: 0, impl: stringLen},
	},
}

func (i *Interpreter) evalMethodCall(n ast.MethodCall, env *runtime.Environment) (runtime.Value, error) {
	receiver, err := i.value(n.Receiver, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(n.Arguments))
	for _, expr := range n.Arguments {
		v, err := i.value(expr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	m, ok := methods[receiver.Kind()][n.Method.Name]
	if !ok {
		return nil, errors.NewRuntimeError(errors.UnsupportedMethod, n.Method.Pos,
			"%s has no method '%s'", receiver.Kind(), n.Method.Name)
	}
	if len(args) != m.arity {
		return nil, errors.NewRuntimeError(errors.WrongArity, n.Pos,
			"method '%s' expects %d arguments, got %d", n.Method.Name, m.arity, len(args))
	}

	plog.Tracef("method %s.%s", receiver.Kind(), n.Method.Name)
	return m.impl(methodCall{node: n, receiver: receiver, args: args, env: env})
}

func numberOperand(call methodCall) (runtime.NumberValue, error) {
	num, ok := call.args[0].(runtime.NumberValue)
	if !ok {
		return runtime.NumberValue{}, errors.NewRuntimeError(errors.TypeMismatch, ast.ExprPos(call.node.Arguments[0]),
			"%s expects a number, got %s", call.node.Method.Name, call.args[0].Kind())
	}
	return num, nil
}

func numberSum(call methodCall) (runtime.Value, error) {
	operand, err := numberOperand(call)
	if err != nil {
		return nil, err
	}
	return call.receiver.(runtime.NumberValue).Add(operand), nil
}

// numberMutSum adds to the receiver. When the receiver names a binding, that
// binding is updated, writing through it if it holds a pointer.
func numberMutSum(call methodCall) (runtime.Value, error) {
	operand, err := numberOperand(call)
	if err != nil {
		return nil, err
	}
	updated := call.receiver.(runtime.NumberValue).Add(operand)

	var target *ast.Identifier
	switch recv := call.node.Receiver.(type) {
	case ast.Var:
		id := ast.Identifier(recv)
		target = &id
	case ast.Ref:
		target = &recv.Target
	}
	if target != nil {
		if err := store(call.env, target.Name, updated, target.Pos); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

func stringLen(call methodCall) (runtime.Value, error) {
	n := len([]rune(call.receiver.(runtime.StringValue).Val))
	return runtime.BigInt(big.NewInt(int64(n))), nil
}
