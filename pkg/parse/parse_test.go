package parse

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"src.gdsl.dev/pkg/term"
	"src.gdsl.dev/pkg/testutil"
)

// Shorthands for building expected terms.

func c(i int64) term.LeafTerm  { return term.Constant(i) }
func v(s string) term.LeafTerm { return term.Variable(s) }
func o(s string) term.LeafTerm { return term.Opaque(s) }

func fa(name string, args ...term.LeafTerm) term.FunctionApplication {
	return term.FunctionApplication{Name: name, Args: args}
}

func app(name string, args ...term.LeafTerm) term.Term {
	return term.Application{Call: fa(name, args...)}
}

func mapped(gen term.FunctionApplication, param string, body term.FunctionApplication) term.Term {
	return term.MappedApplication{
		Generator:   gen,
		Abstraction: term.FunctionAbstraction{Param: param, Body: body},
	}
}

var parseTests = []struct {
	name string
	code string
	want []term.Term
}{
	{
		name: "bindings and return of a name",
		code: `
			def p1():
			    g1 = cycle_graph(0, 10)
			    g2 = cycle_graph(10, 20)
			    g3 = cycle_graph(20, 30)
			    g4 = union_graphs(g1, g2, g3)
			    return g4
			`,
		want: []term.Term{
			app("cycle_graph", c(0), c(10)),
			app("cycle_graph", c(10), c(20)),
			app("cycle_graph", c(20), c(30)),
			app("union_graphs", v("g1"), v("g2"), v("g3")),
		},
	},
	{
		name: "tuple arguments are opaque",
		code: `
			def p4():
			    g1 = complete_graph(0, 6)
			    g2 = remove_edges(g1, (0, 3), (1, 4), (2, 5))
			    return g2
			`,
		want: []term.Term{
			app("complete_graph", c(0), c(6)),
			app("remove_edges", v("g1"), o("(0, 3)"), o("(1, 4)"), o("(2, 5)")),
		},
	},
	{
		name: "mapped application spanning lines",
		code: `
			def p5():
			    g = union_map(
			        numerical_range(5), lambda i: connect_one_to_all(0, 2 * i + 1, 2 * i + 2)
			    )
			    return g
			`,
		want: []term.Term{
			mapped(fa("numerical_range", c(5)), "i",
				fa("connect_one_to_all", c(0), o("2 * i + 1"), o("2 * i + 2"))),
		},
	},
	{
		name: "return of a call",
		code: `
			def p18():
			    return union_map(numerical_range(3), lambda i: connect_one_to_all(i, 3, 4, 5, 6, 7))
			`,
		want: []term.Term{
			mapped(fa("numerical_range", c(3)), "i",
				fa("connect_one_to_all", v("i"), c(3), c(4), c(5), c(6), c(7))),
		},
	},
	{
		name: "redundant parentheses are dropped from opaque leaves",
		code: `
			def p9():
			    inner = union_map(
			        numerical_range(8), lambda i: connect_one_to_all(i + 8, ((i + 3) % 8) + 8)
			    )
			    return inner
			`,
		want: []term.Term{
			mapped(fa("numerical_range", c(8)), "i",
				fa("connect_one_to_all", o("i + 8"), o("(i + 3) % 8 + 8"))),
		},
	},
	{
		name: "docstrings are skipped",
		code: `
			def compress():
			    """Two cycles."""
			    g = cycle_graph(5)
			    'another note'
			    return g
			`,
		want: []term.Term{app("cycle_graph", c(5))},
	},
	{
		name: "bare call statements",
		code: `
			def compress():
			    cycle_graph(5)
			`,
		want: []term.Term{app("cycle_graph", c(5))},
	},
	{
		name: "semicolon-separated statements",
		code: `
			def compress():
			    a = f(1); b = g(a)
			`,
		want: []term.Term{app("f", c(1)), app("g", v("a"))},
	},
	{
		name: "one-line body",
		code: "def compress(): return f(1)\n",
		want: []term.Term{app("f", c(1))},
	},
	{
		name: "empty argument lists",
		code: `
			def compress():
			    g = empty_graph()
			    return union_map(numerical_range(), lambda i: f())
			`,
		want: []term.Term{
			app("empty_graph"),
			mapped(fa("numerical_range"), "i", fa("f")),
		},
	},
	{
		name: "bare return",
		code: `
			def compress():
			    f(1)
			    return
			`,
		want: []term.Term{app("f", c(1))},
	},
	{
		name: "other top-level statements are skipped",
		code: `
			import networkx as nx
			from dsl import *

			LIMIT = [1,
			         2]

			class Helper:
			    def method(self):
			        pass

			@decorator
			def compress(n: int = 3) -> Graph:
			    return f(n)

			if __name__ == "__main__":
			    compress()
			`,
		want: []term.Term{app("f", v("n"))},
	},
	{
		name: "async definitions do not count",
		code: `
			async def helper():
			    pass

			def compress():
			    return f(1)
			`,
		want: []term.Term{app("f", c(1))},
	},
	{
		name: "comments and continuation lines",
		code: "def compress():  # entry\n" +
			"    # a comment line\n" +
			"\n" +
			"    g = f(1, \\\n" +
			"          2)  # trailing\n",
		want: []term.Term{app("f", c(1), c(2))},
	},
	{
		name: "tab indentation",
		code: "def compress():\n\tg = f(1)\n\treturn g\n",
		want: []term.Term{app("f", c(1))},
	},
	{
		name: "no trailing newline",
		code: "def compress():\n    return f(1)",
		want: []term.Term{app("f", c(1))},
	},
	{
		name: "constants in every base, with separators",
		code: `
			def compress():
			    f(0, 1_000, 0x10, 0o17, 0b101, 00)
			`,
		want: []term.Term{app("f", c(0), c(1000), c(16), c(15), c(5), c(0))},
	},
	{
		name: "integers outside int64 are opaque",
		code: `
			def compress():
			    f(99999999999999999999, -1)
			`,
		want: []term.Term{app("f", o("99999999999999999999"), o("-1"))},
	},
	{
		name: "starred arguments take a slot, keyword arguments none",
		code: `
			def compress():
			    f(a, step = 2, *xs, **kw)
			`,
		want: []term.Term{app("f", v("a"), o("*xs"))},
	},
}

func TestParse(t *testing.T) {
	for _, test := range parseTests {
		t.Run(test.name, func(t *testing.T) {
			code := testutil.Dedent(test.code)
			p, err := Parse(SourceForTest(code), Config{})
			if err != nil {
				t.Fatalf("Parse returns error: %v", err)
			}
			if diff := cmp.Diff(test.want, p.Instructions); diff != "" {
				t.Errorf("Parse returns instructions (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Routine(t *testing.T) {
	code := "import x\n\ndef compress():\n    return f(1)\n"
	p, err := Parse(Source{Name: "a.py", Code: code}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	r := p.Routine
	if r.Source != "a.py" || r.Name != "compress" || r.Code != code {
		t.Errorf("got routine %+v", r)
	}
	if got, want := code[r.From:r.To], "def compress():\n    return f(1)"; got != want {
		t.Errorf("routine range covers %q, want %q", got, want)
	}
}

func TestParse_Spans(t *testing.T) {
	code := testutil.Dedent(`
		def compress():
		    "doc"
		    g = f(1)
		    h(g); k(
		        2)
		    return g
		`)
	p, err := Parse(SourceForTest(code), Config{})
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, span := range p.Routine.Spans {
		texts = append(texts, code[span.From:span.To])
	}
	want := []string{"g = f(1)", "h(g)", "k(\n        2)"}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("spans (-want +got):\n%s", diff)
	}
}

func TestParse_IsDeterministic(t *testing.T) {
	src := SourceForTest(testutil.Dedent(parseTests[2].code))
	p1, err1 := Parse(src, Config{})
	p2, err2 := Parse(src, Config{})
	if err1 != nil || err2 != nil {
		t.Fatalf("Parse returns errors %v, %v", err1, err2)
	}
	if !term.Equal(p1, p2) {
		t.Errorf("two parses differ:\n%s\n%s", p1, p2)
	}
	p1.Instructions[0] = app("changed")
	if term.Equal(p1, p2) {
		t.Errorf("programs from two parses share instructions")
	}
}

var opaqueTests = []struct {
	code string
	want string
}{
	// Spacing and parentheses.
	{"(4,9)", "(4, 9)"},
	{"( 4 , )", "(4,)"},
	{"()", "()"},
	{"2*i+1", "2 * i + 1"},
	{"(i+5)%14", "(i + 5) % 14"},
	{"a - (b - c)", "a - (b - c)"},
	{"(a - b) - c", "a - b - c"},
	{"a * (b + c)", "a * (b + c)"},
	{"2 ** 3 ** 2", "2 ** 3 ** 2"},
	{"(2 ** 3) ** 2", "(2 ** 3) ** 2"},
	{"(-1) ** 2", "(-1) ** 2"},
	{"-x ** 2", "-x ** 2"},
	{"- 1", "-1"},
	{"~ x", "~x"},
	{"a<<1|b&c^d", "a << 1 | b & c ^ d"},
	{"not a", "not a"},
	{"a or b and c", "a or (b and c)"},
	{"a and b or c", "a and b or c"},
	{"a or b or not c", "a or b or (not c)"},
	{"(a or b) and c", "(a or b) and c"},
	{"a and not b", "a and (not b)"},
	{"not not a", "not not a"},
	{"-(-x)", "--x"},
	{"-2 ** -1", "-2 ** (-1)"},
	{"x<y<=z", "x < y <= z"},
	{"a not in b", "a not in b"},
	{"a is not b", "a is not b"},
	{"a if b else c", "a if b else c"},
	{"(a if b else c) + 1", "(a if b else c) + 1"},
	{"x if a else (y if b else z)", "x if a else y if b else z"},
	{"(x := 1)", "(x := 1)"},
	// Displays and comprehensions.
	{"[1, 2,]", "[1, 2]"},
	{"[]", "[]"},
	{"{1:2, **d}", "{1: 2, **d}"},
	{"{1, 2}", "{1, 2}"},
	{"{}", "{}"},
	{"{*()}", "{*()}"},
	{"[i for i in r if i % 2]", "[i for i in r if i % 2]"},
	{"{k: v for k, v in items}", "{k: v for k, v in items}"},
	{"(a, b) + (c,)", "(a, b) + (c,)"},
	// Subscripts and attributes.
	{"xs[ i ]", "xs[i]"},
	{"xs[1:2]", "xs[1:2]"},
	{"xs[::2]", "xs[::2]"},
	{"xs[:]", "xs[:]"},
	{"m[i, j]", "m[i, j]"},
	{"m[1:2, 3]", "m[1:2, 3]"},
	{"a . b", "a.b"},
	{"1 .real", "1 .real"},
	{"(a, b)[0]", "(a, b)[0]"},
	{"a[b:c, ]", "a[b:c,]"},
	// Literals.
	{`"abc"`, `'abc'`},
	{`"it's"`, `"it's"`},
	{`'a\nb'`, `'a\nb'`},
	{`r'a\nb'`, `'a\\nb'`},
	{`'\x41\101'`, `'AA'`},
	{`b"x\x00"`, `b'x\x00'`},
	{`'\N{BULLET}'`, `'•'`},
	{`'\N{bullet} \N{CJK UNIFIED IDEOGRAPH-4E00}'`, `'• 一'`},
	{`b'\N{BULLET}'`, `b'\\N{BULLET}'`},
	{`'a' "b"`, `'ab'`},
	{`f"{x}"`, `f"{x}"`},
	{"1.5", "1.5"},
	{"1e3", "1000.0"},
	{"1e20", "1e+20"},
	{".5", "0.5"},
	{"2j", "2j"},
	{"True", "True"},
	{"None", "None"},
	{"...", "..."},
}

func TestParse_OpaqueRendering(t *testing.T) {
	for _, test := range opaqueTests {
		code := "def compress():\n    f(" + test.code + ")\n"
		p, err := Parse(SourceForTest(code), Config{})
		if err != nil {
			t.Errorf("f(%s): Parse returns error: %v", test.code, err)
			continue
		}
		want := []term.Term{app("f", o(test.want))}
		if diff := cmp.Diff(want, p.Instructions); diff != "" {
			t.Errorf("f(%s): (-want +got):\n%s", test.code, diff)
		}
	}
}

var parseErrorTests = []struct {
	name        string
	code        string
	wantKind    ErrorKind
	wantMsg     string
	wantCulprit string
}{
	// Module shape.
	{
		name:        "no definition",
		code:        "x = f()\n",
		wantKind:    MultipleOrNoDefinitions,
		wantMsg:     "expected exactly one top-level function definition, found 0",
		wantCulprit: "x = f()\n",
	},
	{
		name:        "two definitions",
		code:        "def a():\n    f()\ndef b():\n    g()\n",
		wantKind:    MultipleOrNoDefinitions,
		wantMsg:     "expected exactly one top-level function definition, found 2",
		wantCulprit: "def b():\n    g()",
	},

	// Statements.
	{
		name:        "conditional",
		code:        "def f():\n    if x:\n        g()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "if statement not supported: if x: ...",
		wantCulprit: "if x:\n        g()",
	},
	{
		name:        "loop",
		code:        "def f():\n    for i in r:\n        g(i)\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "for loop not supported: for i in r: ...",
		wantCulprit: "for i in r:\n        g(i)",
	},
	{
		name:        "nested definition",
		code:        "def f():\n    def g():\n        h()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "nested function definition not supported: def g(): ...",
		wantCulprit: "def g():\n        h()",
	},
	{
		name:        "multiple targets",
		code:        "def f():\n    a = b = g()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "assignment to multiple targets not supported: a = b = g()",
		wantCulprit: "a = b = g()",
	},
	{
		name:        "tuple target",
		code:        "def f():\n    a, b = g()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "assignment to a non-name target not supported: a, b = g()",
		wantCulprit: "a, b = g()",
	},
	{
		name:        "arithmetic-only binding",
		code:        "def f():\n    x = 1 + 2\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "assignment of a non-call value not supported: x = 1 + 2",
		wantCulprit: "x = 1 + 2",
	},
	{
		name:        "augmented assignment",
		code:        "def f():\n    x += g()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "augmented assignment not supported: x += g()",
		wantCulprit: "x += g()",
	},
	{
		name:        "annotated assignment",
		code:        "def f():\n    x: int = g()\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "annotated assignment not supported: x: int = g()",
		wantCulprit: "x: int = g()",
	},
	{
		name:        "pass",
		code:        "def f():\n    pass\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "pass statement not supported: pass",
		wantCulprit: "pass",
	},
	{
		name:        "arithmetic expression statement",
		code:        "def f():\n    x + 1\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "expression statement not supported: x + 1",
		wantCulprit: "x + 1",
	},
	{
		name:        "bytes literal statement",
		code:        "def f():\n    b'doc'\n",
		wantKind:    UnsupportedStatement,
		wantMsg:     "expression statement not supported: b'doc'",
		wantCulprit: "b'doc'",
	},

	// Calls.
	{
		name:        "attribute callee",
		code:        "def f():\n    g = nx.cycle_graph(3)\n",
		wantKind:    UnresolvedFunctionReference,
		wantMsg:     "unsupported function reference: nx.cycle_graph",
		wantCulprit: "nx.cycle_graph",
	},
	{
		name:        "mapped application without lambda",
		code:        "def f():\n    g = union_map(numerical_range(3))\n",
		wantKind:    MalformedMappedApplication,
		wantMsg:     "union_map(items: Call, fn: Lambda) expected, got union_map(numerical_range(3))",
		wantCulprit: "union_map(numerical_range(3))",
	},
	{
		name:        "mapped application with swapped arguments",
		code:        "def f():\n    union_map(lambda i: h(i), r())\n",
		wantKind:    MalformedMappedApplication,
		wantMsg:     "union_map(items: Call, fn: Lambda) expected, got union_map(lambda i: h(i), r())",
		wantCulprit: "union_map(lambda i: h(i), r())",
	},
	{
		name:        "mapped application as generator",
		code:        "def f():\n    union_map(union_map(r(), lambda i: h(i)), lambda j: k(j))\n",
		wantKind:    MalformedMappedApplication,
		wantMsg:     "generator of union_map cannot be another union_map",
		wantCulprit: "union_map(r(), lambda i: h(i))",
	},
	{
		name:        "mapped application as lambda body",
		code:        "def f():\n    union_map(r(), lambda i: union_map(s(), lambda j: h(j)))\n",
		wantKind:    MalformedMappedApplication,
		wantMsg:     "lambda body cannot be another union_map",
		wantCulprit: "union_map(s(), lambda j: h(j))",
	},
	{
		name:        "two-parameter lambda",
		code:        "def f():\n    union_map(r(), lambda i, j: h(i, j))\n",
		wantKind:    UnsupportedLambdaArity,
		wantMsg:     "only single-parameter lambdas are supported, got lambda i, j: h(i, j)",
		wantCulprit: "lambda i, j: h(i, j)",
	},
	{
		name:        "zero-parameter lambda",
		code:        "def f():\n    union_map(r(), lambda: h())\n",
		wantKind:    UnsupportedLambdaArity,
		wantMsg:     "only single-parameter lambdas are supported, got lambda: h()",
		wantCulprit: "lambda: h()",
	},
	{
		name:        "lambda with default",
		code:        "def f():\n    union_map(r(), lambda i=1: h(i))\n",
		wantKind:    UnsupportedLambdaArity,
		wantMsg:     "only single-parameter lambdas are supported, got lambda i=1: h(i)",
		wantCulprit: "lambda i=1: h(i)",
	},
	{
		name:        "lambda body not a call",
		code:        "def f():\n    union_map(r(), lambda i: i + 1)\n",
		wantKind:    LambdaBodyNotCall,
		wantMsg:     "lambda body must be a single call, got i + 1",
		wantCulprit: "i + 1",
	},
	{
		name:        "call in argument position",
		code:        "def f():\n    ring = shift_graph(cycle_graph(10), 10)\n",
		wantKind:    NestedApplication,
		wantMsg:     "call in argument position: cycle_graph(10)",
		wantCulprit: "cycle_graph(10)",
	},
	{
		name:        "call inside an argument expression",
		code:        "def f():\n    g(1 + h(2))\n",
		wantKind:    NestedApplication,
		wantMsg:     "call in argument position: h(2)",
		wantCulprit: "h(2)",
	},
	{
		name:        "lambda in argument position",
		code:        "def f():\n    g(lambda x: h(x))\n",
		wantKind:    NestedApplication,
		wantMsg:     "lambda in argument position: lambda x: h(x)",
		wantCulprit: "lambda x: h(x)",
	},
	{
		name:        "call in lambda body argument",
		code:        "def f():\n    union_map(r(), lambda i: h(k(i)))\n",
		wantKind:    NestedApplication,
		wantMsg:     "call in argument position: k(i)",
		wantCulprit: "k(i)",
	},

	// Syntax.
	{
		name:        "unclosed parenthesis",
		code:        "def f(:\n",
		wantKind:    SyntaxError,
		wantMsg:     "'(' was never closed",
		wantCulprit: "(",
	},
	{
		name:        "unmatched bracket",
		code:        "def f():\n    g(1]\n",
		wantKind:    SyntaxError,
		wantMsg:     "closing parenthesis ']' does not match opening parenthesis '('",
		wantCulprit: "]",
	},
	{
		name:        "missing indented block",
		code:        "def f():\ng()\n",
		wantKind:    SyntaxError,
		wantMsg:     `unexpected "g", should be an indented block`,
		wantCulprit: "g",
	},
	{
		name:        "two expressions on a line",
		code:        "def f():\n    g() h()\n",
		wantKind:    SyntaxError,
		wantMsg:     `unexpected "h", should be newline`,
		wantCulprit: "h",
	},
	{
		name:        "bad dedent",
		code:        "def f():\n    g()\n  h()\n",
		wantKind:    SyntaxError,
		wantMsg:     "unindent does not match any outer indentation level",
		wantCulprit: "",
	},
	{
		name:        "unterminated string",
		code:        "def f():\n    g('abc)\n",
		wantKind:    SyntaxError,
		wantMsg:     "unterminated string literal",
		wantCulprit: "'abc)",
	},
	{
		name:        "invalid number",
		code:        "def f():\n    g(0x)\n",
		wantKind:    SyntaxError,
		wantMsg:     `invalid number literal "0x"`,
		wantCulprit: "0x",
	},
	{
		name:        "mixed bytes and str literals",
		code:        "def f():\n    g('a' b'b')\n",
		wantKind:    SyntaxError,
		wantMsg:     "cannot mix bytes and nonbytes literals",
		wantCulprit: "b'b'",
	},
	{
		name:        "unknown character name",
		code:        "def f():\n    g('\\N{NO SUCH THING}')\n",
		wantKind:    SyntaxError,
		wantMsg:     "unknown Unicode character name",
		wantCulprit: "'\\N{NO SUCH THING}'",
	},
	{
		name:        "malformed character name escape",
		code:        "def f():\n    g('\\N')\n",
		wantKind:    SyntaxError,
		wantMsg:     `malformed \N character escape`,
		wantCulprit: "'\\N'",
	},
	{
		name:        "syntax error wins over definition count",
		code:        "def a():\n    g(,)\ndef b():\n    h()\n",
		wantKind:    SyntaxError,
		wantMsg:     `unexpected ",", should be expression`,
		wantCulprit: ",",
	},
}

func TestParse_Errors(t *testing.T) {
	for _, test := range parseErrorTests {
		t.Run(test.name, func(t *testing.T) {
			src := SourceForTest(test.code)
			_, err := Parse(src, Config{})
			if err == nil {
				t.Fatalf("Parse returns no error, want %v", test.wantKind)
			}
			parseErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("Parse returns %T, want *Error", err)
			}
			if parseErr.Tag != test.wantKind {
				t.Errorf("got kind %v, want %v", parseErr.Tag, test.wantKind)
			}
			if parseErr.Message != test.wantMsg {
				t.Errorf("got message %q, want %q", parseErr.Message, test.wantMsg)
			}
			r := parseErr.Range()
			if culprit := test.code[r.From:r.To]; culprit != test.wantCulprit {
				t.Errorf("got culprit %q, want %q", culprit, test.wantCulprit)
			}
			if kind, ok := KindOf(err); !ok || kind != test.wantKind {
				t.Errorf("KindOf returns %v, %v", kind, ok)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	_, err := Parse(SourceForTest("def f():\n    pass\n"), Config{})
	want := "unsupported statement: [test]:2:5: pass statement not supported: pass"
	if err == nil || err.Error() != want {
		t.Errorf("got error %v, want %q", err, want)
	}
}

func TestParse_ConfiguredMappedApplyName(t *testing.T) {
	code := "def f():\n    g = each(r(), lambda i: h(i))\n    union_map(x)\n"
	p, err := Parse(SourceForTest(code), Config{MappedApplyName: "each"})
	if err != nil {
		t.Fatal(err)
	}
	renamed := mapped(fa("r"), "i", fa("h", v("i"))).(term.MappedApplication)
	renamed.Name = "each"
	want := []term.Term{renamed, app("union_map", v("x"))}
	if diff := cmp.Diff(want, p.Instructions); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := p.Instructions[0].String(); got != "each(r(), lambda i: h(i))" {
		t.Errorf("got rendering %q", got)
	}
}

func TestParse_WarnsAboutExtraMappedArguments(t *testing.T) {
	var buf bytes.Buffer
	code := "def f():\n    g = union_map(r(), lambda i: h(i), 3, k=4)\n"
	p, err := Parse(SourceForTest(code), Config{WarningWriter: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Instructions) != 1 {
		t.Errorf("got %d instructions, want 1", len(p.Instructions))
	}
	want := "[test]:2:9: warning: 2 extra argument(s) to union_map ignored\n"
	if got := buf.String(); got != want {
		t.Errorf("got warning %q, want %q", got, want)
	}
}

func TestParse_WarnsAboutKeywordArguments(t *testing.T) {
	var buf bytes.Buffer
	code := "def f():\n    g = h(1, key=2, **kw)\n"
	p, err := Parse(SourceForTest(code), Config{WarningWriter: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]term.Term{app("h", c(1))}, p.Instructions); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	want := "[test]:2:9: warning: keyword argument key=2 of h ignored\n" +
		"[test]:2:9: warning: keyword argument **kw of h ignored\n"
	if got := buf.String(); got != want {
		t.Errorf("got warning %q, want %q", got, want)
	}
}

func TestParse_KeywordArgumentsMayNotHideCalls(t *testing.T) {
	_, err := Parse(SourceForTest("def f():\n    g = h(1, key=r(2))\n"), Config{})
	if kind, _ := KindOf(err); kind != NestedApplication {
		t.Errorf("got error %v, want a NestedApplication error", err)
	}
}

func TestParse_NoWarningWithoutExtraArguments(t *testing.T) {
	var buf bytes.Buffer
	code := "def f():\n    union_map(r(), lambda i: h(i))\n"
	Parse(SourceForTest(code), Config{WarningWriter: &buf})
	if buf.Len() != 0 {
		t.Errorf("got warning %q", buf.String())
	}
}

func TestTokenize(t *testing.T) {
	toks, err := tokenize(SourceForTest("def f():\n  g(1,\n    2)\n"))
	if err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, tok := range toks {
		kinds = append(kinds, tok.describe())
	}
	want := []string{
		`"def"`, `"f"`, `"("`, `")"`, `":"`, "newline",
		"indent", `"g"`, `"("`, `"1"`, `","`, `"2"`, `")"`, "newline",
		"dedent", "end of input",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTokenize_StringPrefixes(t *testing.T) {
	toks, err := tokenize(SourceForTest(`rb'a' Br"b" f'''c''' u"d"`))
	if err != nil {
		t.Fatal(err)
	}
	var texts []string
	for _, tok := range toks {
		if tok.kind == tokString {
			texts = append(texts, tok.text)
		}
	}
	want := []string{`rb'a'`, `Br"b"`, `f'''c'''`, `u"d"`}
	if diff := cmp.Diff(want, texts); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestNumberValue(t *testing.T) {
	for _, bad := range []string{"0x", "1__0", "1_", "012", "0b2", "1e", "0x_"} {
		if _, ok := numberValue(bad); ok {
			t.Errorf("numberValue(%q) accepts", bad)
		}
	}
	for text, want := range map[string]string{
		"0": "0", "000": "0", "0x_ff": "255", "1_0.5": "10.5", "1.": "1.0",
		"1e-5": "1e-05", "1E+2": "100.0", "3.14j": "3.14j", "1e999": "1e309",
	} {
		n, ok := numberValue(text)
		if !ok {
			t.Errorf("numberValue(%q) rejects", text)
			continue
		}
		if got := n.render(); got != want {
			t.Errorf("numberValue(%q).render() = %q, want %q", text, got, want)
		}
	}
}

func TestQuoteString(t *testing.T) {
	for s, want := range map[string]string{
		"":        "''",
		"a'b":     `"a'b"`,
		`a'b"c`:   `'a\'b"c'`,
		"tab\t":   `'tab\t'`,
		"\x01é":   `'\x01é'`,
		"\u200b":  `'\u200b'`,
		`back\sl`: `'back\\sl'`,
	} {
		if got := quoteString(s); got != want {
			t.Errorf("quoteString(%q) = %s, want %s", s, got, want)
		}
	}
}

func TestDocExample(t *testing.T) {
	// The example in the package documentation parses.
	code := `
		def compress():
		    "Two disjoint cycles."
		    g1 = cycle_graph(0, 10)
		    g2 = shift_graph(g1, 10)
		    return union_graphs(g1, g2)
		`
	p, err := Parse(SourceForTest(testutil.Dedent(code)), Config{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(p.String(), "\n"); got != 3 {
		t.Errorf("got %d instructions, want 3", got)
	}
}
