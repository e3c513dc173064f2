package interp

import (
	"io"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"

	"github.com/ham-lang/hamgo/ast"
	"github.com/ham-lang/hamgo/lexer"
	"github.com/ham-lang/hamgo/parser"
	"github.com/ham-lang/hamgo/runtime"
)

var plog = capnslog.NewPackageLogger("github.com/ham-lang/hamgo", "interp")

const (
	// DefaultMaxCallDepth bounds recursion when Settings leaves it unset.
	DefaultMaxCallDepth = 1000
	// MaxCallDepthLimit is the largest depth that still fits in the Go
	// stack; deeper settings are lowered to it.
	MaxCallDepthLimit = 20000
)

type Settings struct {
	// Filename is used in error positions.
	Filename string
	// Output receives everything println and print write.
	Output io.Writer
	// MaxCallDepth is the deepest chain of active calls before a stack
	// overflow error is raised.
	MaxCallDepth int
}

func (s Settings) withDefaults() Settings {
	if s.Filename == "" {
		s.Filename = "<input>"
	}
	if s.Output == nil {
		s.Output = os.Stdout
	}
	if s.MaxCallDepth <= 0 {
		s.MaxCallDepth = DefaultMaxCallDepth
	}
	if s.MaxCallDepth > MaxCallDepthLimit {
		plog.Warningf("max call depth %d lowered to %d", s.MaxCallDepth, MaxCallDepthLimit)
		s.MaxCallDepth = MaxCallDepthLimit
	}
	return s
}

// Interpreter drives evaluation of Ham programs.
type Interpreter struct {
	global   *runtime.Environment
	settings Settings
	depth    int
}

func New(settings Settings) *Interpreter {
	i := &Interpreter{
		global:   runtime.NewEnvironment(nil),
		settings: settings.withDefaults(),
	}
	addBuiltins(i.global)
	return i
}

// GlobalEnvironment holds the builtins and every top level binding.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

func (i *Interpreter) Settings() Settings {
	return i.settings
}

// Evaluate lexes, parses and runs source with a fresh interpreter. The value
// of the last top level expression statement is returned, or Unit.
func Evaluate(source string, settings Settings) (runtime.Value, error) {
	return New(settings).EvaluateSource(source)
}

func (i *Interpreter) EvaluateSource(source string) (runtime.Value, error) {
	p := parser.NewParser(lexer.FromString(source, i.settings.Filename))
	prog, err := p.Parse()
	if err != nil {
		return nil, err
	}
	return i.Run(prog)
}

// Run executes a parsed program against the global environment.
func (i *Interpreter) Run(prog ast.Program) (runtime.Value, error) {
	plog.Debugf("running %s (%d statements)", i.settings.Filename, len(prog.Body))

	var last runtime.Value = runtime.Unit
	for _, stmt := range prog.Body {
		res, err := i.execStatement(stmt, i.global)
		if err != nil {
			return nil, tracerr.Wrap(err)
		}
		switch res.flow {
		case flowReturn:
			// a top level return ends the program with its value
			return res.value, nil
		case flowBreak:
			return nil, tracerr.Wrap(breakOutsideLoop(res))
		}
		if _, ok := stmt.(ast.ExprStmt); ok {
			last = res.value
		}
	}
	return last, nil
}
