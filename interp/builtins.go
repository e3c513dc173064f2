package interp

import (
	"fmt"
	"strings"
	"time"

	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/runtime"
)

const placeholder = "{}"

func addBuiltins(env *runtime.Environment) {
	funcs := []func() *runtime.BuiltinValue{
		addPrintln,
		addPrint,
		addFormat,
		addWait,
		addClear,
	}
	for _, fn := range funcs {
		b := fn()
		env.Define(b.Name, b)
	}
}

func formatAll(args []runtime.Value) []string {
	out := make([]string, len(args))
	for idx, arg := range args {
		out[idx] = runtime.Format(arg)
	}
	return out
}

func addPrintln() *runtime.BuiltinValue {
	return &runtime.BuiltinValue{
		Name:  "println",
		Arity: -1,
		Impl: func(call runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			_, err := fmt.Fprintln(call.Out, strings.Join(formatAll(args), ""))
			return runtime.Unit, err
		},
	}
}

func addPrint() *runtime.BuiltinValue {
	return &runtime.BuiltinValue{
		Name:  "print",
		Arity: -1,
		Impl: func(call runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			_, err := fmt.Fprint(call.Out, strings.Join(formatAll(args), " "))
			return runtime.Unit, err
		},
	}
}

// format replaces each {} in the template with the next argument. Substituted
// text is never rescanned, so an argument containing {} is inserted as is.
func addFormat() *runtime.BuiltinValue {
	return &runtime.BuiltinValue{
		Name:  "format",
		Arity: -1,
		Impl: func(call runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			if len(args) == 0 {
				return nil, errors.NewRuntimeError(errors.WrongArity, call.Pos,
					"builtin 'format' expects at least 1 argument, got 0")
			}
			template, ok := args[0].(runtime.StringValue)
			if !ok {
				return nil, errors.NewRuntimeError(errors.TypeMismatch, call.Pos,
					"format template must be a string, got %s", args[0].Kind())
			}

			parts := strings.Split(template.Val, placeholder)
			values := formatAll(args[1:])
			if len(parts)-1 != len(values) {
				return nil, errors.NewRuntimeError(errors.FormatMismatch, call.Pos,
					"template has %d placeholders but %d arguments were given", len(parts)-1, len(values))
			}

			var sb strings.Builder
			for idx, part := range parts {
				sb.WriteString(part)
				if idx < len(values) {
					sb.WriteString(values[idx])
				}
			}
			return runtime.StringValue{Val: sb.String()}, nil
		},
	}
}

func addWait() *runtime.BuiltinValue {
	return &runtime.BuiltinValue{
		Name:  "wait",
		Arity: 1,
		Impl: func(call runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			ms, ok := args[0].(runtime.NumberValue)
			if !ok || ms.IsFloat() || ms.Int.Sign() < 0 || !ms.Int.IsInt64() {
				return nil, errors.NewRuntimeError(errors.TypeMismatch, call.Pos,
					"wait expects a non-negative integer number of milliseconds, got %s", runtime.Format(args[0]))
			}
			time.Sleep(time.Duration(ms.Int.Int64()) * time.Millisecond)
			return runtime.Unit, nil
		},
	}
}

// clear wipes the terminal and moves the cursor home.
func addClear() *runtime.BuiltinValue {
	return &runtime.BuiltinValue{
		Name:  "clear",
		Arity: 0,
		Impl: func(call runtime.NativeCall, args []runtime.Value) (runtime.Value, error) {
			_, err := fmt.Fprint(call.Out, "\x1b[2J\x1b[1;1H")
			return runtime.Unit, err
		},
	}
}
