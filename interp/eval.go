package interp

import (
	"github.com/ham-lang/hamgo/ast"
	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/runtime"
	"github.com/ham-lang/hamgo/types"
)

type flow int

const (
	flowNormal flow = iota
	flowReturn
	flowBreak
)

// result is what executing a statement produces. Return and break unwind
// through blocks as values rather than as Go panics or errors.
type result struct {
	flow  flow
	value runtime.Value
	pos   types.Span
}

func normal(v runtime.Value) result {
	return result{flow: flowNormal, value: v}
}

func breakOutsideLoop(res result) error {
	return errors.NewRuntimeError(errors.BreakOutsideLoop, res.pos, "break used outside of a while loop")
}

// deref replaces a pointer with the value it refers to.
func deref(v runtime.Value, pos types.Span) (runtime.Value, error) {
	target, ok := runtime.Deref(v)
	if !ok {
		p := v.(*runtime.PointerValue)
		return nil, errors.NewRuntimeError(errors.BrokenPointer, pos,
			"pointer to '%s' is part of a cycle", p.Name)
	}
	return target, nil
}

// store assigns to the binding name resolves to. When that binding holds a
// pointer the value is written through it instead.
func store(env *runtime.Environment, name string, v runtime.Value, pos types.Span) error {
	slot, ok := env.Pointer(name)
	if !ok {
		return errors.NewRuntimeError(errors.UndefinedName, pos, "cannot assign to undefined name '%s'", name)
	}
	last, ok := slot.Resolve()
	if !ok {
		return errors.NewRuntimeError(errors.BrokenPointer, pos, "pointer in '%s' is part of a cycle", name)
	}
	last.Store(v)
	return nil
}

func (i *Interpreter) execBlock(block ast.Block, env *runtime.Environment) (result, error) {
	for _, stmt := range block {
		res, err := i.execStatement(stmt, env)
		if err != nil || res.flow != flowNormal {
			return res, err
		}
	}
	return normal(runtime.Unit), nil
}

func (i *Interpreter) execStatement(node ast.Statement, env *runtime.Environment) (result, error) {
	switch n := node.(type) {
	case ast.ExprStmt:
		v, err := i.evalExpression(n.Expr, env)
		if err != nil {
			return result{}, err
		}
		return normal(v), nil
	case ast.Let:
		v, err := i.evalExpression(n.Value, env)
		if err != nil {
			return result{}, err
		}
		env.Define(n.Name.Name, v)
		return normal(runtime.Unit), nil
	case ast.FuncDecl:
		// the closure sees its own binding, which is what makes recursion work
		env.Define(n.Name.Name, &runtime.FunctionValue{
			Name:    n.Name.Name,
			Params:  n.Params,
			Body:    n.Body,
			Closure: env,
		})
		return normal(runtime.Unit), nil
	case ast.If:
		ok, err := i.evalCondition(n.Condition, env, "if")
		if err != nil {
			return result{}, err
		}
		if !ok {
			return normal(runtime.Unit), nil
		}
		return i.execBlock(n.Body, runtime.NewEnvironment(env))
	case ast.While:
		for {
			ok, err := i.evalCondition(n.Condition, env, "while")
			if err != nil {
				return result{}, err
			}
			if !ok {
				return normal(runtime.Unit), nil
			}
			res, err := i.execBlock(n.Body, runtime.NewEnvironment(env))
			if err != nil {
				return result{}, err
			}
			switch res.flow {
			case flowBreak:
				return normal(runtime.Unit), nil
			case flowReturn:
				return res, nil
			}
		}
	case ast.Return:
		var v runtime.Value = runtime.Unit
		if n.Value != nil {
			var err error
			v, err = i.evalExpression(n.Value, env)
			if err != nil {
				return result{}, err
			}
		}
		return result{flow: flowReturn, value: v, pos: n.Pos}, nil
	case ast.Break:
		return result{flow: flowBreak, value: runtime.Unit, pos: n.Pos}, nil
	}

	panic("unhandled statement")
}

func (i *Interpreter) evalCondition(expr ast.Expression, env *runtime.Environment, what string) (bool, error) {
	v, err := i.value(expr, env)
	if err != nil {
		return false, err
	}
	b, ok := v.(runtime.BoolValue)
	if !ok {
		return false, errors.NewRuntimeError(errors.TypeMismatch, ast.ExprPos(expr),
			"%s condition must be a boolean, got %s", what, v.Kind())
	}
	return b.Val, nil
}

// value evaluates an expression whose result is consumed as a plain value,
// looking through pointers.
func (i *Interpreter) value(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	v, err := i.evalExpression(node, env)
	if err != nil {
		return nil, err
	}
	return deref(v, ast.ExprPos(node))
}

func (i *Interpreter) evalExpression(node ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case ast.IntLit:
		return runtime.BigInt(n.Value), nil
	case ast.FloatLit:
		return runtime.Float(n.Value), nil
	case ast.StringLit:
		return runtime.StringValue{Val: n.Value}, nil
	case ast.BoolLit:
		return runtime.BoolValue{Val: n.Value}, nil
	case ast.Var:
		v, ok := env.Get(n.Name)
		if !ok {
			return nil, errors.NewRuntimeError(errors.UndefinedName, n.Pos, "undefined name '%s'", n.Name)
		}
		return v, nil
	case ast.Ref:
		p, ok := env.Pointer(n.Target.Name)
		if !ok {
			return nil, errors.NewRuntimeError(errors.UndefinedName, n.Pos, "undefined name '%s'", n.Target.Name)
		}
		return p, nil
	case ast.Unary:
		v, err := i.value(n.Operand, env)
		if err != nil {
			return nil, err
		}
		num, ok := v.(runtime.NumberValue)
		if !ok {
			return nil, errors.NewRuntimeError(errors.TypeMismatch, n.Pos, "cannot negate a %s", v.Kind())
		}
		return num.Neg(), nil
	case ast.Binary:
		left, err := i.value(n.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := i.value(n.Right, env)
		if err != nil {
			return nil, err
		}
		return binaryOp(n, left, right)
	case ast.Assign:
		v, err := i.evalExpression(n.Value, env)
		if err != nil {
			return nil, err
		}
		if err := store(env, n.Target.Name, v, n.Target.Pos); err != nil {
			return nil, err
		}
		return v, nil
	case ast.Call:
		callee, err := i.value(n.Callee, env)
		if err != nil {
			return nil, err
		}
		args, err := i.evalArgs(n.Arguments, env)
		if err != nil {
			return nil, err
		}
		return i.call(callee, args, n.Pos)
	case ast.MethodCall:
		return i.evalMethodCall(n, env)
	case ast.FuncLit:
		return &runtime.FunctionValue{
			Params:  n.Params,
			Body:    n.Body,
			Closure: env,
		}, nil
	}

	panic("unhandled expression")
}

func (i *Interpreter) evalArgs(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		v, err := i.evalExpression(expr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (i *Interpreter) call(callee runtime.Value, args []runtime.Value, pos types.Span) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		return i.invokeFunction(fn, args, pos)
	case *runtime.BuiltinValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, errors.NewRuntimeError(errors.WrongArity, pos,
				"builtin '%s' expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		// builtins only ever see plain values
		plain := make([]runtime.Value, len(args))
		for idx, arg := range args {
			v, err := deref(arg, pos)
			if err != nil {
				return nil, err
			}
			plain[idx] = v
		}
		return fn.Impl(runtime.NativeCall{Pos: pos, Out: i.settings.Output}, plain)
	}
	return nil, errors.NewRuntimeError(errors.TypeMismatch, pos, "cannot call a value of kind %s", callee.Kind())
}

func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value, pos types.Span) (runtime.Value, error) {
	name := fn.Name
	if name == "" {
		name = "<anonymous>"
	}
	if len(args) != len(fn.Params) {
		return nil, errors.NewRuntimeError(errors.WrongArity, pos,
			"function '%s' expects %d arguments, got %d", name, len(fn.Params), len(args))
	}

	if i.depth >= i.settings.MaxCallDepth {
		return nil, errors.NewRuntimeError(errors.StackOverflow, pos,
			"maximum call depth of %d exceeded calling '%s'", i.settings.MaxCallDepth, name)
	}
	i.depth++
	defer func() { i.depth-- }()
	plog.Debugf("call %s depth=%d", name, i.depth)

	local := runtime.NewEnvironment(fn.Closure)
	for idx, param := range fn.Params {
		local.Define(param.Name, args[idx])
	}

	res, err := i.execBlock(fn.Body, local)
	if err != nil {
		return nil, err
	}
	switch res.flow {
	case flowReturn:
		return res.value, nil
	case flowBreak:
		return nil, breakOutsideLoop(res)
	}
	return runtime.Unit, nil
}

func binaryOp(n ast.Binary, left, right runtime.Value) (runtime.Value, error) {
	mismatch := func() error {
		return errors.NewRuntimeError(errors.TypeMismatch, n.Pos,
			"operator %s is not defined for %s and %s", ast.OpString(n.Op), left.Kind(), right.Kind())
	}

	switch n.Op {
	case types.EQ, types.NOT_EQ:
		eq, ok := equal(left, right)
		if !ok {
			return nil, mismatch()
		}
		if n.Op == types.NOT_EQ {
			eq = !eq
		}
		return runtime.BoolValue{Val: eq}, nil
	case types.PLUS:
		if l, ok := left.(runtime.StringValue); ok {
			r, ok := right.(runtime.StringValue)
			if !ok {
				return nil, mismatch()
			}
			return runtime.StringValue{Val: l.Val + r.Val}, nil
		}
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, mismatch()
	}

	switch n.Op {
	case types.PLUS:
		return l.Add(r), nil
	case types.MINUS:
		return l.Sub(r), nil
	case types.STAR:
		return l.Mul(r), nil
	case types.SLASH:
		if r.IsZero() {
			return nil, errors.NewRuntimeError(errors.DivisionByZero, n.Pos, "division by zero")
		}
		return l.Div(r), nil
	}
	return nil, mismatch()
}

// equal compares values of the same kind. ok is false for kinds that cannot
// be compared with each other.
func equal(left, right runtime.Value) (eq bool, ok bool) {
	switch l := left.(type) {
	case runtime.NumberValue:
		if r, ok := right.(runtime.NumberValue); ok {
			return l.Equal(r), true
		}
	case runtime.StringValue:
		if r, ok := right.(runtime.StringValue); ok {
			return l.Val == r.Val, true
		}
	case runtime.BoolValue:
		if r, ok := right.(runtime.BoolValue); ok {
			return l.Val == r.Val, true
		}
	}
	return false, false
}
