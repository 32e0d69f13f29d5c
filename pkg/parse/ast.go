package parse

import "src.gdsl.dev/pkg/diag"

// Syntax tree of the surface language. It is internal to the package: the
// parser lowers it to a term.Program and discards it.

type expr interface {
	diag.Ranger
}

type nameExpr struct {
	diag.Ranging
	name string
}

type numberExpr struct {
	diag.Ranging
	value number
}

type stringKind int

const (
	plainString stringKind = iota
	bytesString
	formatString
)

// stringExpr is one or more adjacent string literals.
type stringExpr struct {
	diag.Ranging
	kind stringKind
	// Decoded value; unused for format strings.
	value string
	// Source text of each literal.
	raw []string
}

// constExpr is None, True, False or the ellipsis.
type constExpr struct {
	diag.Ranging
	name string
}

type unaryExpr struct {
	diag.Ranging
	op string
	x  expr
}

type binaryExpr struct {
	diag.Ranging
	op   string
	x, y expr
}

type boolExpr struct {
	diag.Ranging
	op string
	xs []expr
}

type compareExpr struct {
	diag.Ranging
	first expr
	ops   []string
	rest  []expr
}

type ifExpr struct {
	diag.Ranging
	body, test, orelse expr
}

type paramKind int

const (
	plainParam paramKind = iota
	// *args
	starParam
	// **kwargs
	doubleStarParam
	// A bare * separator.
	keywordOnlyMarker
	// A / separator.
	positionalOnlyMarker
)

type param struct {
	diag.Ranging
	kind paramKind
	name string
	// Annotation and default value; either may be nil.
	annotation expr
	def        expr
}

type lambdaExpr struct {
	diag.Ranging
	params []param
	body   expr
}

type argKind int

const (
	positionalArg argKind = iota
	starArg
	keywordArg
	doubleStarArg
)

type argument struct {
	diag.Ranging
	kind argKind
	// Set for keywordArg.
	name  string
	value expr
}

type callExpr struct {
	diag.Ranging
	fn   expr
	args []argument
}

type attrExpr struct {
	diag.Ranging
	x    expr
	name string
}

type subscriptExpr struct {
	diag.Ranging
	x     expr
	index expr
}

// sliceExpr is lo:hi or lo:hi:step inside a subscript; any part may be nil.
type sliceExpr struct {
	diag.Ranging
	lo, hi, step expr
}

type tupleExpr struct {
	diag.Ranging
	elts []expr
}

type listExpr struct {
	diag.Ranging
	elts []expr
}

type setExpr struct {
	diag.Ranging
	elts []expr
}

// dictItem is key: value, or **value when key is nil.
type dictItem struct {
	key, value expr
}

type dictExpr struct {
	diag.Ranging
	items []dictItem
}

type starExpr struct {
	diag.Ranging
	x expr
}

type namedExpr struct {
	diag.Ranging
	target *nameExpr
	value  expr
}

type compKind int

const (
	listComp compKind = iota
	setComp
	dictComp
	generatorComp
)

type compClause struct {
	async  bool
	target expr
	iter   expr
	ifs    []expr
}

type compExpr struct {
	diag.Ranging
	kind compKind
	// For dictComp, key is the key and elt the value.
	key, elt expr
	clauses  []compClause
}

// Statements.

type stmt interface {
	diag.Ranger
}

type exprStmt struct {
	diag.Ranging
	x expr
}

type assignStmt struct {
	diag.Ranging
	targets []expr
	value   expr
}

type returnStmt struct {
	diag.Ranging
	value expr
}

// otherStmt is a statement outside the grammar, kept only for diagnostics.
type otherStmt struct {
	diag.Ranging
	what string
}

// funcDef is a routine definition.
type funcDef struct {
	diag.Ranging
	name   string
	params []param
	body   []stmt
}
