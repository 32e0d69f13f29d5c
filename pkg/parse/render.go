package parse

import "strings"

// Canonical rendering of expressions, used for Opaque leaves and
// diagnostics. Spacing is normalized and parentheses are written only where
// operator precedence requires them, so equivalent spellings of the same
// expression render identically.

type prec int

// Precedence levels, lowest first.
const (
	precNamed prec = iota
	precTuple
	precYield
	precTest
	precOr
	precAnd
	precNot
	precCmp
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precArith
	precTerm
	precFactor
	precPower
	precAwait
	precAtom
)

func (p prec) next() prec {
	if p == precAtom {
		return p
	}
	return p + 1
}

var compBrackets = map[compKind]string{
	listComp: "[]", setComp: "{}", dictComp: "{}", generatorComp: "()",
}

var binaryPrec = map[string]prec{
	"|": precBitOr, "^": precBitXor, "&": precBitAnd,
	"<<": precShift, ">>": precShift,
	"+": precArith, "-": precArith,
	"*": precTerm, "/": precTerm, "//": precTerm, "%": precTerm, "@": precTerm,
	"**": precPower,
}

// render returns the canonical text of e as an argument.
func render(e expr) string {
	var r renderer
	r.expr(e, precTest)
	return r.sb.String()
}

type renderer struct {
	sb strings.Builder
}

func (r *renderer) write(ss ...string) {
	for _, s := range ss {
		r.sb.WriteString(s)
	}
}

// Writes e in a context of precedence ctx, parenthesizing it if it binds
// more loosely than the context requires.
func (r *renderer) wrap(ctx, own prec, f func()) {
	if ctx > own {
		r.write("(")
		f()
		r.write(")")
	} else {
		f()
	}
}

func (r *renderer) expr(e expr, ctx prec) {
	switch e := e.(type) {
	case *nameExpr:
		r.write(e.name)
	case *numberExpr:
		r.write(e.value.render())
	case *stringExpr:
		switch e.kind {
		case bytesString:
			r.write(quoteBytes(e.value))
		case formatString:
			r.write(strings.Join(e.raw, " "))
		default:
			r.write(quoteString(e.value))
		}
	case *constExpr:
		r.write(e.name)
	case *unaryExpr:
		own := precFactor
		if e.op == "not" {
			own = precNot
		}
		r.wrap(ctx, own, func() {
			r.write(e.op)
			if own == precNot {
				r.write(" ")
			}
			r.expr(e.x, own)
		})
	case *binaryExpr:
		own := binaryPrec[e.op]
		left, right := own, own.next()
		if e.op == "**" {
			left, right = right, left
		}
		r.wrap(ctx, own, func() {
			r.expr(e.x, left)
			r.write(" ", e.op, " ")
			r.expr(e.y, right)
		})
	case *boolExpr:
		own := precOr
		if e.op == "and" {
			own = precAnd
		}
		r.wrap(ctx, own, func() {
			operand := own
			for i, x := range e.xs {
				if i > 0 {
					r.write(" ", e.op, " ")
				}
				operand = operand.next()
				r.expr(x, operand)
			}
		})
	case *compareExpr:
		r.wrap(ctx, precCmp, func() {
			r.expr(e.first, precCmp.next())
			for i, op := range e.ops {
				r.write(" ", op, " ")
				r.expr(e.rest[i], precCmp.next())
			}
		})
	case *ifExpr:
		r.wrap(ctx, precTest, func() {
			r.expr(e.body, precTest.next())
			r.write(" if ")
			r.expr(e.test, precTest.next())
			r.write(" else ")
			r.expr(e.orelse, precTest)
		})
	case *lambdaExpr:
		r.wrap(ctx, precTest, func() {
			r.write("lambda")
			for i, p := range e.params {
				if i == 0 {
					r.write(" ")
				} else {
					r.write(", ")
				}
				r.param(p)
			}
			r.write(": ")
			r.expr(e.body, precTest)
		})
	case *namedExpr:
		r.wrap(ctx, precNamed, func() {
			r.write(e.target.name, " := ")
			r.expr(e.value, precAtom)
		})
	case *callExpr:
		r.expr(e.fn, precAtom)
		r.write("(")
		for i, a := range e.args {
			if i > 0 {
				r.write(", ")
			}
			r.argument(a)
		}
		r.write(")")
	case *attrExpr:
		r.expr(e.x, precAtom)
		if n, ok := e.x.(*numberExpr); ok && n.value.kind == intNumber {
			r.write(" ")
		}
		r.write(".", e.name)
	case *subscriptExpr:
		r.expr(e.x, precAtom)
		r.write("[")
		if t, ok := e.index.(*tupleExpr); ok && len(t.elts) > 0 {
			r.items(t.elts)
		} else {
			r.expr(e.index, precTest)
		}
		r.write("]")
	case *sliceExpr:
		if e.lo != nil {
			r.expr(e.lo, precTest)
		}
		r.write(":")
		if e.hi != nil {
			r.expr(e.hi, precTest)
		}
		if e.step != nil {
			r.write(":")
			r.expr(e.step, precTest)
		}
	case *tupleExpr:
		if len(e.elts) == 0 || ctx > precTuple {
			r.write("(")
			r.items(e.elts)
			r.write(")")
		} else {
			r.items(e.elts)
		}
	case *listExpr:
		r.write("[")
		r.list(e.elts)
		r.write("]")
	case *setExpr:
		if len(e.elts) == 0 {
			r.write("{*()}")
			return
		}
		r.write("{")
		r.list(e.elts)
		r.write("}")
	case *dictExpr:
		r.write("{")
		for i, item := range e.items {
			if i > 0 {
				r.write(", ")
			}
			if item.key == nil {
				r.write("**")
				r.expr(item.value, precBitOr)
			} else {
				r.expr(item.key, precTest)
				r.write(": ")
				r.expr(item.value, precTest)
			}
		}
		r.write("}")
	case *starExpr:
		r.write("*")
		r.expr(e.x, precBitOr)
	case *compExpr:
		brackets := compBrackets[e.kind]
		r.write(brackets[:1])
		if e.kind == dictComp {
			r.expr(e.key, precTest)
			r.write(": ")
		}
		r.expr(e.elt, precTest)
		for _, c := range e.clauses {
			if c.async {
				r.write(" async")
			}
			r.write(" for ")
			r.expr(c.target, precTuple)
			r.write(" in ")
			r.expr(c.iter, precOr.next())
			for _, cond := range c.ifs {
				r.write(" if ")
				r.expr(cond, precOr.next())
			}
		}
		r.write(brackets[1:])
	}
}

// Writes tuple elements; a single element gets a trailing comma.
func (r *renderer) items(elts []expr) {
	if len(elts) == 1 {
		r.expr(elts[0], precTest)
		r.write(",")
		return
	}
	r.list(elts)
}

func (r *renderer) list(elts []expr) {
	for i, x := range elts {
		if i > 0 {
			r.write(", ")
		}
		r.expr(x, precTest)
	}
}

func (r *renderer) argument(a argument) {
	switch a.kind {
	case starArg:
		r.write("*")
		r.expr(a.value, precBitOr)
	case keywordArg:
		r.write(a.name, "=")
		r.expr(a.value, precTest)
	case doubleStarArg:
		r.write("**")
		r.expr(a.value, precTest)
	default:
		r.expr(a.value, precTest)
	}
}

func (r *renderer) param(p param) {
	switch p.kind {
	case starParam:
		r.write("*", p.name)
	case doubleStarParam:
		r.write("**", p.name)
	case keywordOnlyMarker:
		r.write("*")
	case positionalOnlyMarker:
		r.write("/")
	default:
		r.write(p.name)
	}
	if p.annotation != nil {
		r.write(": ")
		r.expr(p.annotation, precTest)
	}
	if p.def != nil {
		r.write("=")
		r.expr(p.def, precTest)
	}
}
