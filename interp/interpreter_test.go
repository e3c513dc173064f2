package interp

import (
	"bytes"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/repr"

	"github.com/ham-lang/hamgo/errors"
	"github.com/ham-lang/hamgo/runtime"
)

func run(t *testing.T, src string) (string, runtime.Value, error) {
	t.Helper()
	var out bytes.Buffer
	v, err := Evaluate(src, Settings{Filename: "test.ham", Output: &out})
	return out.String(), v, err
}

func mustRun(t *testing.T, src string) (string, runtime.Value) {
	t.Helper()
	out, v, err := run(t, src)
	if err != nil {
		t.Fatalf("evaluation failed: %s", errors.Describe(err))
	}
	return out, v
}

func runFile(t *testing.T, name string) (string, runtime.Value) {
	t.Helper()
	data, err := ioutil.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return mustRun(t, string(data))
}

func expectClass(t *testing.T, src string, class errors.Class) *errors.RuntimeError {
	t.Helper()
	_, v, err := run(t, src)
	if err == nil {
		t.Fatalf("expected %s, got value %s", class, repr.String(v))
	}
	re, ok := errors.AsRuntime(err)
	if !ok {
		t.Fatalf("expected a runtime error, got %s", errors.Describe(err))
	}
	if re.Class != class {
		t.Fatalf("expected %s, got %s", class, re)
	}
	return re
}

func expectNumber(t *testing.T, v runtime.Value, want string) {
	t.Helper()
	num, ok := v.(runtime.NumberValue)
	if !ok || num.String() != want {
		t.Fatalf("expected number %s, got %s", want, repr.String(v))
	}
}

func TestRecursion(t *testing.T) {
	out, v := runFile(t, "recursion.ham")

	want := "Value is 1\nValue is 2\nValue is 3\nValue is 4\nValue is 5\n"
	if out != want {
		t.Fatalf("unexpected output:\n%s", out)
	}
	expectNumber(t, v, "0")
}

func TestClosures(t *testing.T) {
	out, v := runFile(t, "closures.ham")
	if out != "13 2 42\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if v != runtime.Unit {
		t.Fatalf("println should leave unit as the final value, got %s", repr.String(v))
	}
}

func TestClosureSeesLaterMutation(t *testing.T) {
	_, v := mustRun(t, `
let x = 1
fn get() {
	return x
}
x = 2
get()
`)
	expectNumber(t, v, "2")
}

func TestClosureCapturesCallArgument(t *testing.T) {
	_, v := mustRun(t, `
fn make(n) {
	return fn() { return n }
}
let a = make(1)
let b = make(2)
a() + b() * 10
`)
	expectNumber(t, v, "21")
}

func TestWhileAndBreak(t *testing.T) {
	out, v := runFile(t, "loop.ham")
	if out != "total 55\n" {
		t.Fatalf("unexpected output %q", out)
	}
	expectNumber(t, v, "55")
}

func TestArithmetic(t *testing.T) {
	cases := map[string]string{
		"1 + 2":                      "3",
		"1 + 2 * 3":                  "7",
		"(1 + 2) * 3":                "9",
		"10 - 4 - 3":                 "3",
		"7 / 2":                      "3",
		"-7 / 2":                     "-3",
		"1.5 + 1":                    "2.5",
		"9223372036854775807 + 1":    "9223372036854775808",
		"2.5.sum(0.5)":               "3",
		"let n = 4\nn.sum(1)\nn":     "4",
		"let n = 4\nn.mut_sum(1)":    "5",
		"let n = 4\nn.mut_sum(1)\nn": "5",
		"\"héllo\".len()":            "5",
	}
	for src, want := range cases {
		_, v := mustRun(t, src)
		expectNumber(t, v, want)
	}
}

func TestEqualityAndStrings(t *testing.T) {
	cases := map[string]runtime.Value{
		"1 == 1":                   runtime.BoolValue{Val: true},
		"1 == 1.0":                 runtime.BoolValue{Val: true},
		"1 != 2":                   runtime.BoolValue{Val: true},
		`"a" == "a"`:               runtime.BoolValue{Val: true},
		"true == false":            runtime.BoolValue{Val: false},
		`"ab" + "cd"`:              runtime.StringValue{Val: "abcd"},
		`format("{}-{}", 1, true)`: runtime.StringValue{Val: "1-true"},
		`format("{}", "{}")`:       runtime.StringValue{Val: "{}"},
		`format("plain")`:          runtime.StringValue{Val: "plain"},
	}
	for src, want := range cases {
		_, v := mustRun(t, src)
		if runtime.Format(v) != runtime.Format(want) || v.Kind() != want.Kind() {
			t.Fatalf("%s: got %s, want %s", src, repr.String(v), repr.String(want))
		}
	}
}

func TestShadowing(t *testing.T) {
	out, v := mustRun(t, `
let x = 1
if true {
	let x = 2
	println(x)
}
fn inner() {
	let x = 3
	return x
}
inner()
x
`)
	if out != "2\n" {
		t.Fatalf("unexpected output %q", out)
	}
	expectNumber(t, v, "1")
}

func TestReturnWithoutValueAndFallthrough(t *testing.T) {
	_, v := mustRun(t, `
fn nothing() {
	return
}
fn fallthrough() {
	let a = 1
}
println(nothing(), fallthrough())
nothing()
`)
	if v != runtime.Unit {
		t.Fatalf("expected unit, got %s", repr.String(v))
	}
}

func TestReturnInsideLoop(t *testing.T) {
	_, v := mustRun(t, `
fn root_of(square) {
	let i = 0
	while true {
		i.mut_sum(1)
		if i * i == square {
			return i
		}
	}
}
root_of(49)
`)
	expectNumber(t, v, "7")
}

func TestPrintln(t *testing.T) {
	out, _ := mustRun(t, `
println("hello")
println(1, "+", 2.5)
print("a", "b")
print(true)
println()
`)
	want := "hello\n1+2.5\na btrue\n"
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestWait(t *testing.T) {
	_, v := mustRun(t, "wait(0)")
	if v != runtime.Unit {
		t.Fatalf("wait should return unit")
	}
	expectClass(t, `wait("soon")`, errors.TypeMismatch)
	expectClass(t, "wait(-1)", errors.TypeMismatch)
}

func TestRuntimeErrors(t *testing.T) {
	cases := []struct {
		src   string
		class errors.Class
	}{
		{"missing", errors.UndefinedName},
		{"missing = 1", errors.UndefinedName},
		{"fn f(a) { return a }\nf()", errors.WrongArity},
		{"fn f() { return 1 }\nf(1, 2)", errors.WrongArity},
		{"wait()", errors.WrongArity},
		{"format()", errors.WrongArity},
		{"let s = \"x\"\ns.mut_sum(1)", errors.UnsupportedMethod},
		{"true.len()", errors.UnsupportedMethod},
		{"5.nope()", errors.UnsupportedMethod},
		{"5.mut_sum()", errors.WrongArity},
		{"5.mut_sum(\"1\")", errors.TypeMismatch},
		{`1 + "a"`, errors.TypeMismatch},
		{`"a" + 1`, errors.TypeMismatch},
		{`1 == "1"`, errors.TypeMismatch},
		{"true + true", errors.TypeMismatch},
		{`-"a"`, errors.TypeMismatch},
		{"if 1 { }", errors.TypeMismatch},
		{"while \"x\" { }", errors.TypeMismatch},
		{"let x = 1\nx()", errors.TypeMismatch},
		{"format(1)", errors.TypeMismatch},
		{`format("{} {}", 1)`, errors.FormatMismatch},
		{`format("{}", 1, 2)`, errors.FormatMismatch},
		{"1 / 0", errors.DivisionByZero},
		{"1.5 / 0.0", errors.DivisionByZero},
		{"break", errors.BreakOutsideLoop},
		{"fn f() { break }\nwhile true { f() }", errors.BreakOutsideLoop},
	}
	for _, c := range cases {
		expectClass(t, c.src, c.class)
	}
}

func TestErrorPosition(t *testing.T) {
	re := expectClass(t, "let a = 1\nlet b = a + nope", errors.UndefinedName)
	if re.Location.From.Line != 2 || re.Location.From.Column != 13 {
		t.Fatalf("unexpected position %s", re.Location)
	}
	if !strings.Contains(errors.Describe(re), "nope") {
		t.Fatalf("message should name the identifier: %s", errors.Describe(re))
	}
}

func TestErrorsStopExecution(t *testing.T) {
	out, _, err := run(t, `
println("before")
missing()
println("after")
`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if out != "before\n" {
		t.Fatalf("output after the error must not be produced, got %q", out)
	}
}

func TestStackOverflow(t *testing.T) {
	src := `
fn forever(n) {
	return forever(n + 1)
}
forever(0)
`
	var out bytes.Buffer
	_, err := Evaluate(src, Settings{Output: &out, MaxCallDepth: 50})
	re, ok := errors.AsRuntime(err)
	if !ok || re.Class != errors.StackOverflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
	if !strings.Contains(re.Message, "50") {
		t.Fatalf("message should report the limit: %s", re.Message)
	}

	// the default limit also stops unbounded recursion
	expectClass(t, src, errors.StackOverflow)
}

func TestDepthWithinLimit(t *testing.T) {
	src := `
fn down(n) {
	if n == 0 {
		return 0
	}
	return down(n - 1)
}
down(49)
`
	_, err := Evaluate(src, Settings{Output: &bytes.Buffer{}, MaxCallDepth: 50})
	if err != nil {
		t.Fatalf("50 frames should fit: %s", errors.Describe(err))
	}
}

func TestInterpreterKeepsGlobals(t *testing.T) {
	var out bytes.Buffer
	i := New(Settings{Output: &out})
	if _, err := i.EvaluateSource("let total = 1"); err != nil {
		t.Fatal(err)
	}
	v, err := i.EvaluateSource("total.mut_sum(2)\ntotal")
	if err != nil {
		t.Fatal(err)
	}
	expectNumber(t, v, "3")

	for _, name := range []string{"println", "print", "format", "wait", "total"} {
		if _, ok := i.GlobalEnvironment().Get(name); !ok {
			t.Fatalf("%s should be bound globally", name)
		}
	}
	if i.Settings().MaxCallDepth != DefaultMaxCallDepth || i.Settings().Filename != "<input>" {
		t.Fatalf("defaults were not applied: %s", repr.String(i.Settings()))
	}
}

func TestTopLevelReturn(t *testing.T) {
	out, v := mustRun(t, `
println("one")
return 7
println("two")
`)
	if out != "one\n" {
		t.Fatalf("unexpected output %q", out)
	}
	expectNumber(t, v, "7")
}

func TestSyntaxErrorsSurface(t *testing.T) {
	_, _, err := run(t, "let = 1")
	ce, ok := errors.AsCore(err)
	if !ok || ce.Kind() != "ParseError" {
		t.Fatalf("expected a parse error, got %v", err)
	}

	_, _, err = run(t, `println("open`)
	ce, ok = errors.AsCore(err)
	if !ok || ce.Kind() != "LexError" {
		t.Fatalf("expected a lex error, got %v", err)
	}
}

func TestMaxCallDepthIsCapped(t *testing.T) {
	i := New(Settings{Output: &bytes.Buffer{}, MaxCallDepth: 1000000})
	if got := i.Settings().MaxCallDepth; got != MaxCallDepthLimit {
		t.Fatalf("depth should be lowered to %d, got %d", MaxCallDepthLimit, got)
	}

	_, err := i.EvaluateSource("fn f(n) { return f(n) }\nf(1)")
	re, ok := errors.AsRuntime(err)
	if !ok || re.Class != errors.StackOverflow {
		t.Fatalf("expected stack overflow, got %v", err)
	}
}

func TestLeadingMinusStartsStatement(t *testing.T) {
	_, v := mustRun(t, "let a = 5\n-1\na")
	expectNumber(t, v, "5")
}

func TestClear(t *testing.T) {
	out, v := mustRun(t, "clear()")
	if out != "\x1b[2J\x1b[1;1H" || v != runtime.Unit {
		t.Fatalf("unexpected clear output %q", out)
	}
	expectClass(t, "clear(1)", errors.WrongArity)
}

func TestPointers(t *testing.T) {
	out, v := mustRun(t, `
let x = 1
let p = &x
p = 5
println(x, " ", p, " ", p + 1)
&x = 6
fn bump(ptr) {
	ptr.mut_sum(10)
}
bump(&x)
let q = p
q = q * 2
x
`)
	if out != "5 5 6\n" {
		t.Fatalf("unexpected output %q", out)
	}
	expectNumber(t, v, "32")
}

func TestPointerIntoEnclosingScope(t *testing.T) {
	_, v := mustRun(t, `
let total = 0
fn add(into, n) {
	into = into + n
}
let i = 0
while i != 4 {
	i = i + 1
	add(&total, i)
}
total == 10
`)
	if b, ok := v.(runtime.BoolValue); !ok || !b.Val {
		t.Fatalf("expected true, got %s", repr.String(v))
	}
}

func TestPointerErrors(t *testing.T) {
	expectClass(t, "&missing", errors.UndefinedName)
	expectClass(t, "let a = 1\nlet b = &a\na = &b\nb + 1", errors.BrokenPointer)
	expectClass(t, "let a = 1\nlet p = &a\np.len()", errors.UnsupportedMethod)
}
