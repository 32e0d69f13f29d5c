package parse

import (
	"fmt"
	"strings"

	"src.gdsl.dev/pkg/diag"
	"src.gdsl.dev/pkg/term"
)

// Lowering turns the syntax tree of the routine into terms, validating the
// restricted shapes along the way.

func (ps *parser) lowerRoutine(def *funcDef) term.Program {
	var instructions []term.Term
	var spans []diag.Ranging
	for _, s := range def.body {
		if t := ps.lowerStatement(s); t != nil {
			instructions = append(instructions, t)
			spans = append(spans, s.Range())
		}
	}
	return term.Program{
		Instructions: instructions,
		Routine: term.Routine{
			Source: ps.src.Name, Name: def.name, Code: ps.src.Code,
			Ranging: def.Ranging, Spans: spans},
	}
}

// Returns the term of a body statement, or nil if the statement adds no
// instruction.
func (ps *parser) lowerStatement(s stmt) term.Term {
	switch s := s.(type) {
	case *exprStmt:
		switch x := s.x.(type) {
		case *callExpr:
			return ps.lowerCall(x)
		case *stringExpr:
			if x.kind == plainString {
				return nil
			}
		}
		ps.unsupported(s, "expression statement")
	case *assignStmt:
		switch {
		case len(s.targets) > 1:
			ps.unsupported(s, "assignment to multiple targets")
		case !isName(s.targets[0]):
			ps.unsupported(s, "assignment to a non-name target")
		}
		if call, ok := s.value.(*callExpr); ok {
			return ps.lowerCall(call)
		}
		ps.unsupported(s, "assignment of a non-call value")
	case *returnStmt:
		// Returning a bound name, or nothing, adds no instruction.
		if call, ok := s.value.(*callExpr); ok {
			return ps.lowerCall(call)
		}
		return nil
	case *otherStmt:
		ps.unsupported(s, s.what)
	}
	panic("unreachable")
}

func isName(e expr) bool {
	_, ok := e.(*nameExpr)
	return ok
}

func (ps *parser) unsupported(s stmt, what string) {
	ps.fail(UnsupportedStatement, s, "%s not supported: %s", what, ps.firstLine(s))
}

// Returns the first line of the source text of r, with an ellipsis if the
// text spans several lines.
func (ps *parser) firstLine(r diag.Ranger) string {
	text := ps.sourceText(r)
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return strings.TrimRight(text[:i], " \t") + " ..."
	}
	return text
}

func (ps *parser) lowerCall(c *callExpr) term.Term {
	if ps.callee(c) == ps.cfg.mappedApplyName() {
		return ps.lowerMapped(c)
	}
	return term.Application{Call: ps.lowerApplication(c)}
}

func (ps *parser) callee(c *callExpr) string {
	if n, ok := c.fn.(*nameExpr); ok {
		return n.name
	}
	ps.fail(UnresolvedFunctionReference, c.fn,
		"unsupported function reference: %s", render(c.fn))
	return ""
}

func (ps *parser) lowerMapped(c *callExpr) term.Term {
	name := ps.cfg.mappedApplyName()
	// Starred arguments are positional too.
	var positional []argument
	for _, a := range c.args {
		if a.kind == positionalArg || a.kind == starArg {
			positional = append(positional, a)
		}
	}
	var gen *callExpr
	var lambda *lambdaExpr
	if len(positional) >= 2 && positional[0].kind == positionalArg &&
		positional[1].kind == positionalArg {
		gen, _ = positional[0].value.(*callExpr)
		lambda, _ = positional[1].value.(*lambdaExpr)
	}
	if gen == nil || lambda == nil {
		ps.fail(MalformedMappedApplication, c,
			"%s(items: Call, fn: Lambda) expected, got %s", name, ps.firstLine(c))
	}

	if ps.callee(gen) == name {
		ps.fail(MalformedMappedApplication, gen,
			"generator of %s cannot be another %s", name, name)
	}
	generator := ps.lowerApplication(gen)
	abstraction := ps.lowerLambda(lambda)

	if extra := len(c.args) - 2; extra > 0 {
		ps.warnf(c, "%d extra argument(s) to %s ignored", extra, name)
	}
	m := term.MappedApplication{Generator: generator, Abstraction: abstraction}
	if name != term.MappedApplyName {
		m.Name = name
	}
	return m
}

func (ps *parser) lowerLambda(l *lambdaExpr) term.FunctionAbstraction {
	if len(l.params) != 1 || l.params[0].kind != plainParam || l.params[0].def != nil {
		ps.fail(UnsupportedLambdaArity, l,
			"only single-parameter lambdas are supported, got %s", render(l))
	}
	body, ok := l.body.(*callExpr)
	if !ok {
		ps.fail(LambdaBodyNotCall, l.body,
			"lambda body must be a single call, got %s", render(l.body))
	}
	if name := ps.cfg.mappedApplyName(); ps.callee(body) == name {
		ps.fail(MalformedMappedApplication, body,
			"lambda body cannot be another %s", name)
	}
	return term.FunctionAbstraction{Param: l.params[0].name, Body: ps.lowerApplication(body)}
}

// Keyword arguments, including **kw, take no argument slot.
func (ps *parser) lowerApplication(c *callExpr) term.FunctionApplication {
	name := ps.callee(c)
	var args []term.LeafTerm
	for _, a := range c.args {
		leaf := ps.lowerLeaf(a)
		if a.kind == keywordArg || a.kind == doubleStarArg {
			ps.warnf(c, "keyword argument %s of %s ignored", leaf, name)
			continue
		}
		args = append(args, leaf)
	}
	return term.FunctionApplication{Name: name, Args: args}
}

func (ps *parser) warnf(r diag.Ranger, format string, args ...any) {
	if ps.cfg.WarningWriter == nil {
		return
	}
	ctx := diag.NewContext(ps.src.Name, ps.src.Code, r)
	fmt.Fprintf(ps.cfg.WarningWriter, "%s: warning: %s\n", ctx.Describe(), fmt.Sprintf(format, args...))
}

func (ps *parser) lowerLeaf(a argument) term.LeafTerm {
	if n := findNested(a.value); n != nil {
		what := "call"
		if _, isLambda := n.(*lambdaExpr); isLambda {
			what = "lambda"
		}
		ps.fail(NestedApplication, n,
			"%s in argument position: %s", what, ps.firstLine(n))
	}
	switch a.kind {
	case positionalArg:
		switch v := a.value.(type) {
		case *numberExpr:
			if v.value.kind == intNumber && v.value.int.IsInt64() {
				return term.Constant(v.value.int.Int64())
			}
		case *nameExpr:
			return term.Variable(v.name)
		}
		return term.Opaque(render(a.value))
	default:
		var r renderer
		r.argument(a)
		return term.Opaque(r.sb.String())
	}
}

// Returns the first call or lambda within e, including e itself, or nil.
func findNested(e expr) expr {
	if e == nil {
		return nil
	}
	switch e.(type) {
	case *callExpr, *lambdaExpr:
		return e
	}
	for _, child := range children(e) {
		if n := findNested(child); n != nil {
			return n
		}
	}
	return nil
}

// Returns the direct subexpressions of e in source order. Nil entries are
// possible and must be skipped by the caller.
func children(e expr) []expr {
	switch e := e.(type) {
	case *unaryExpr:
		return []expr{e.x}
	case *binaryExpr:
		return []expr{e.x, e.y}
	case *boolExpr:
		return e.xs
	case *compareExpr:
		return append([]expr{e.first}, e.rest...)
	case *ifExpr:
		return []expr{e.body, e.test, e.orelse}
	case *namedExpr:
		return []expr{e.target, e.value}
	case *attrExpr:
		return []expr{e.x}
	case *subscriptExpr:
		return []expr{e.x, e.index}
	case *sliceExpr:
		return []expr{e.lo, e.hi, e.step}
	case *tupleExpr:
		return e.elts
	case *listExpr:
		return e.elts
	case *setExpr:
		return e.elts
	case *dictExpr:
		var xs []expr
		for _, item := range e.items {
			xs = append(xs, item.key, item.value)
		}
		return xs
	case *starExpr:
		return []expr{e.x}
	case *compExpr:
		xs := []expr{e.key, e.elt}
		for _, c := range e.clauses {
			xs = append(xs, c.target, c.iter)
			xs = append(xs, c.ifs...)
		}
		return xs
	}
	return nil
}
