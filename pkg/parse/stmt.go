package parse

// Statement level. Only routine definitions are parsed in full; other
// top-level statements are skipped token by token. Inside a routine body,
// simple statements are parsed and compound statements are kept as
// otherStmt for diagnostics.

var compoundStatements = map[string]string{
	"if":      "if statement",
	"elif":    "if statement",
	"else":    "else clause",
	"for":     "for loop",
	"while":   "while loop",
	"with":    "with statement",
	"try":     "try statement",
	"except":  "try statement",
	"finally": "try statement",
	"def":     "nested function definition",
	"class":   "class definition",
	"async":   "async statement",
}

var augmentedAssignOps = []string{
	"+=", "-=", "*=", "/=", "//=", "%=", "@=", "&=", "|=", "^=", ">>=", "<<=", "**=",
}

// Parses a whole module and returns its top-level routine definitions.
func (ps *parser) parseModule() []*funcDef {
	var defs []*funcDef
	for {
		t := ps.peek()
		switch {
		case t.kind == tokEOF:
			return defs
		case t.kind == tokIndent:
			ps.fail(SyntaxError, t, "unexpected indent")
		case t.kind == tokNewline || t.kind == tokDedent:
			ps.next()
		case t.kind == tokOp && t.text == "@":
			for ps.isOp("@") {
				ps.skipLine()
			}
			if ps.isKeyword("def") {
				defs = append(defs, ps.parseFuncDef(t.From))
			} else {
				ps.skipStatement()
			}
		case t.kind == tokName && t.text == "def":
			defs = append(defs, ps.parseFuncDef(t.From))
		default:
			ps.skipStatement()
		}
	}
}

// Skips the rest of the logical line, including the newline.
func (ps *parser) skipLine() {
	for {
		switch ps.next().kind {
		case tokNewline, tokEOF:
			return
		}
	}
}

// Skips one statement and the indented block that follows it, if any.
func (ps *parser) skipStatement() {
	ps.skipLine()
	if ps.peek().kind != tokIndent {
		return
	}
	ps.next()
	for depth := 1; depth > 0; {
		switch ps.next().kind {
		case tokIndent:
			depth++
		case tokDedent:
			depth--
		case tokEOF:
			return
		}
	}
}

func (ps *parser) parseFuncDef(from int) *funcDef {
	ps.expectKeyword("def")
	name := ps.expectIdent()
	ps.expectOp("(")
	params := ps.parseParams(")", true)
	ps.expectOp(")")
	if ps.acceptOp("->") {
		ps.parseTest()
	}
	ps.expectOp(":")
	body := ps.parseSuite()
	return &funcDef{ps.rangeFrom(from), name.text, params, body}
}

// Parses the body of a compound statement: either simple statements on the
// same line, or an indented block.
func (ps *parser) parseSuite() []stmt {
	if ps.peek().kind != tokNewline {
		return ps.parseSimpleStatements()
	}
	ps.next()
	ps.expectKind(tokIndent, "an indented block")
	var body []stmt
	for {
		switch ps.peek().kind {
		case tokDedent:
			ps.next()
			return body
		case tokEOF:
			return body
		}
		body = append(body, ps.parseStatement()...)
	}
}

func (ps *parser) parseStatement() []stmt {
	t := ps.peek()
	switch {
	case t.kind == tokIndent:
		ps.fail(SyntaxError, t, "unexpected indent")
	case t.kind == tokOp && t.text == "@":
		for ps.isOp("@") {
			ps.skipLine()
		}
		s := ps.skipCompound("decorated definition")
		s.From = t.From
		return []stmt{s}
	case t.kind == tokName:
		if what, ok := compoundStatements[t.text]; ok {
			return []stmt{ps.skipCompound(what)}
		}
	}
	return ps.parseSimpleStatements()
}

func (ps *parser) skipCompound(what string) *otherStmt {
	from := ps.peek().From
	ps.skipStatement()
	return &otherStmt{ps.rangeFrom(from), what}
}

// Parses simple statements separated by semicolons, up to and including the
// newline.
func (ps *parser) parseSimpleStatements() []stmt {
	var stmts []stmt
	for {
		stmts = append(stmts, ps.parseSmallStatement())
		if !ps.acceptOp(";") || ps.peek().kind == tokNewline {
			break
		}
	}
	ps.expectKind(tokNewline, "newline")
	return stmts
}

func (ps *parser) parseSmallStatement() stmt {
	t := ps.peek()
	from := t.From
	if t.kind == tokName {
		switch t.text {
		case "return":
			ps.next()
			var value expr
			if !ps.isOp(";") && ps.peek().kind != tokNewline {
				value = ps.parseExprList()
			}
			return &returnStmt{ps.rangeFrom(from), value}
		case "pass", "break", "continue", "del", "global", "nonlocal",
			"import", "from", "raise", "assert", "yield":
			ps.skipSmallStatement()
			return &otherStmt{ps.rangeFrom(from), t.text + " statement"}
		}
	}

	x := ps.parseExprList()
	switch {
	case ps.isOp("="):
		targets := []expr{x}
		var value expr
		for ps.acceptOp("=") {
			if ps.isKeyword("yield") {
				ps.skipSmallStatement()
				return &otherStmt{ps.rangeFrom(from), "yield expression"}
			}
			value = ps.parseExprList()
			if ps.isOp("=") {
				targets = append(targets, value)
			}
		}
		return &assignStmt{ps.rangeFrom(from), targets, value}
	case ps.acceptOp(":"):
		ps.parseTest()
		if ps.acceptOp("=") {
			ps.parseExprList()
		}
		return &otherStmt{ps.rangeFrom(from), "annotated assignment"}
	case ps.peek().kind == tokOp && contains(augmentedAssignOps, ps.peek().text):
		ps.next()
		ps.parseExprList()
		return &otherStmt{ps.rangeFrom(from), "augmented assignment"}
	}
	return &exprStmt{ps.rangeFrom(from), x}
}

// Skips to the end of a simple statement, stopping before the semicolon or
// newline.
func (ps *parser) skipSmallStatement() {
	for {
		t := ps.peek()
		if t.kind == tokNewline || t.kind == tokEOF || t.kind == tokOp && t.text == ";" {
			return
		}
		ps.next()
	}
}
