package parse

// Expression grammar, from lowest to highest precedence:
//
//	exprlist   = (test | star) { ',' (test | star) } [ ',' ]
//	test       = lambda | orTest [ 'if' orTest 'else' test ]
//	orTest     = andTest { 'or' andTest }
//	andTest    = notTest { 'and' notTest }
//	notTest    = 'not' notTest | comparison
//	comparison = bitOr { compOp bitOr }
//	bitOr .. term: the binary operator levels | ^ & << >> + - * / // % @
//	factor     = ('+' | '-' | '~') factor | power
//	power      = atomExpr [ '**' factor ]
//	atomExpr   = atom { '(' args ')' | '[' subscripts ']' | '.' NAME }

func startsExpr(t token) bool {
	switch t.kind {
	case tokNumber, tokString:
		return true
	case tokName:
		switch t.text {
		case "lambda", "not", "None", "True", "False", "await":
			return true
		}
		return !keywords[t.text]
	case tokOp:
		switch t.text {
		case "(", "[", "{", "-", "+", "~", "*", "...":
			return true
		}
	}
	return false
}

// Parses a comma-separated list of expressions. A list with a comma becomes
// an unparenthesized tuple.
func (ps *parser) parseExprList() expr {
	from := ps.peek().From
	first := ps.parseTestOrStar()
	if !ps.isOp(",") {
		return first
	}
	elts := []expr{first}
	for ps.acceptOp(",") {
		if !startsExpr(ps.peek()) {
			break
		}
		elts = append(elts, ps.parseTestOrStar())
	}
	return &tupleExpr{ps.rangeFrom(from), elts}
}

func (ps *parser) parseTestOrStar() expr {
	if ps.isOp("*") {
		from := ps.next().From
		x := ps.parseBitOr()
		return &starExpr{ps.rangeFrom(from), x}
	}
	return ps.parseTest()
}

func (ps *parser) parseNamedOrStar() expr {
	if ps.isOp("*") {
		return ps.parseTestOrStar()
	}
	return ps.parseNamedTest()
}

func (ps *parser) parseNamedTest() expr {
	from := ps.peek().From
	x := ps.parseTest()
	if !ps.isOp(":=") {
		return x
	}
	target, ok := x.(*nameExpr)
	if !ok {
		ps.fail(SyntaxError, x, "cannot use assignment expression with %s", ps.sourceText(x))
	}
	ps.next()
	value := ps.parseTest()
	return &namedExpr{ps.rangeFrom(from), target, value}
}

func (ps *parser) parseTest() expr {
	if ps.isKeyword("lambda") {
		return ps.parseLambda()
	}
	from := ps.peek().From
	body := ps.parseOrTest()
	if !ps.acceptKeyword("if") {
		return body
	}
	test := ps.parseOrTest()
	ps.expectKeyword("else")
	orelse := ps.parseTest()
	return &ifExpr{ps.rangeFrom(from), body, test, orelse}
}

func (ps *parser) parseLambda() expr {
	from := ps.expectKeyword("lambda").From
	params := ps.parseParams(":", false)
	ps.expectOp(":")
	body := ps.parseTest()
	return &lambdaExpr{ps.rangeFrom(from), params, body}
}

// Parses a parameter list up to, but not including, closer. Annotations are
// only allowed in routine signatures.
func (ps *parser) parseParams(closer string, annotations bool) []param {
	var params []param
	for !ps.isOp(closer) {
		from := ps.peek().From
		var p param
		switch {
		case ps.acceptOp("*"):
			if ps.isOp(",") || ps.isOp(closer) {
				p.kind = keywordOnlyMarker
			} else {
				p.kind = starParam
				p.name = ps.expectIdent().text
			}
		case ps.acceptOp("**"):
			p.kind = doubleStarParam
			p.name = ps.expectIdent().text
		case ps.acceptOp("/"):
			p.kind = positionalOnlyMarker
		default:
			p.kind = plainParam
			p.name = ps.expectIdent().text
		}
		if p.name != "" && annotations && ps.acceptOp(":") {
			p.annotation = ps.parseTest()
		}
		if p.kind == plainParam && ps.acceptOp("=") {
			p.def = ps.parseTest()
		}
		p.Ranging = ps.rangeFrom(from)
		params = append(params, p)
		if !ps.acceptOp(",") {
			break
		}
	}
	return params
}

func (ps *parser) parseOrTest() expr {
	return ps.parseBoolOp("or", ps.parseAndTest)
}

func (ps *parser) parseAndTest() expr {
	return ps.parseBoolOp("and", ps.parseNotTest)
}

func (ps *parser) parseBoolOp(op string, operand func() expr) expr {
	from := ps.peek().From
	x := operand()
	if !ps.isKeyword(op) {
		return x
	}
	xs := []expr{x}
	for ps.acceptKeyword(op) {
		xs = append(xs, operand())
	}
	return &boolExpr{ps.rangeFrom(from), op, xs}
}

func (ps *parser) parseNotTest() expr {
	if ps.isKeyword("not") {
		from := ps.next().From
		x := ps.parseNotTest()
		return &unaryExpr{ps.rangeFrom(from), "not", x}
	}
	return ps.parseComparison()
}

func (ps *parser) parseComparison() expr {
	from := ps.peek().From
	first := ps.parseBitOr()
	var ops []string
	var rest []expr
	for {
		op := ps.compareOp()
		if op == "" {
			break
		}
		ops = append(ops, op)
		rest = append(rest, ps.parseBitOr())
	}
	if len(ops) == 0 {
		return first
	}
	return &compareExpr{ps.rangeFrom(from), first, ops, rest}
}

// Consumes and returns a comparison operator, or returns "" if there is none.
func (ps *parser) compareOp() string {
	t := ps.peek()
	switch {
	case t.kind == tokOp:
		switch t.text {
		case "<", ">", "==", ">=", "<=", "!=":
			ps.next()
			return t.text
		}
	case t.kind == tokName:
		switch t.text {
		case "in":
			ps.next()
			return "in"
		case "not":
			if n := ps.peekAt(1); n.kind == tokName && n.text == "in" {
				ps.next()
				ps.next()
				return "not in"
			}
		case "is":
			ps.next()
			if ps.acceptKeyword("not") {
				return "is not"
			}
			return "is"
		}
	}
	return ""
}

func (ps *parser) parseBitOr() expr {
	return ps.parseBinary([]string{"|"}, ps.parseBitXor)
}

func (ps *parser) parseBitXor() expr {
	return ps.parseBinary([]string{"^"}, ps.parseBitAnd)
}

func (ps *parser) parseBitAnd() expr {
	return ps.parseBinary([]string{"&"}, ps.parseShift)
}

func (ps *parser) parseShift() expr {
	return ps.parseBinary([]string{"<<", ">>"}, ps.parseArith)
}

func (ps *parser) parseArith() expr {
	return ps.parseBinary([]string{"+", "-"}, ps.parseTerm)
}

func (ps *parser) parseTerm() expr {
	return ps.parseBinary([]string{"*", "/", "//", "%", "@"}, ps.parseFactor)
}

// Parses a left-associative chain of binary operators.
func (ps *parser) parseBinary(ops []string, operand func() expr) expr {
	from := ps.peek().From
	x := operand()
	for {
		t := ps.peek()
		if t.kind != tokOp || !contains(ops, t.text) {
			return x
		}
		ps.next()
		y := operand()
		x = &binaryExpr{ps.rangeFrom(from), t.text, x, y}
	}
}

func contains(ss []string, s string) bool {
	for _, x := range ss {
		if x == s {
			return true
		}
	}
	return false
}

func (ps *parser) parseFactor() expr {
	t := ps.peek()
	if t.kind == tokOp && (t.text == "+" || t.text == "-" || t.text == "~") {
		ps.next()
		x := ps.parseFactor()
		return &unaryExpr{ps.rangeFrom(t.From), t.text, x}
	}
	return ps.parsePower()
}

func (ps *parser) parsePower() expr {
	from := ps.peek().From
	x := ps.parseAtomExpr()
	if !ps.acceptOp("**") {
		return x
	}
	y := ps.parseFactor()
	return &binaryExpr{ps.rangeFrom(from), "**", x, y}
}

func (ps *parser) parseAtomExpr() expr {
	if t := ps.peek(); t.kind == tokName && t.text == "await" {
		ps.fail(SyntaxError, t, "await expressions are not supported")
	}
	from := ps.peek().From
	x := ps.parseAtom()
	for {
		switch {
		case ps.isOp("("):
			x = ps.parseCall(x, from)
		case ps.isOp("["):
			x = ps.parseSubscript(x, from)
		case ps.acceptOp("."):
			name := ps.expectIdent()
			x = &attrExpr{ps.rangeFrom(from), x, name.text}
		default:
			return x
		}
	}
}

func (ps *parser) parseAtom() expr {
	t := ps.peek()
	switch t.kind {
	case tokName:
		switch t.text {
		case "None", "True", "False":
			ps.next()
			return &constExpr{t.Ranging, t.text}
		case "yield":
			ps.fail(SyntaxError, t, "yield expressions are not supported")
		}
		if keywords[t.text] {
			ps.unexpected("expression")
		}
		ps.next()
		return &nameExpr{t.Ranging, t.text}
	case tokNumber:
		ps.next()
		value, _ := numberValue(t.text)
		return &numberExpr{t.Ranging, value}
	case tokString:
		return ps.parseStrings()
	case tokOp:
		switch t.text {
		case "(":
			return ps.parseParen()
		case "[":
			return ps.parseList()
		case "{":
			return ps.parseBrace()
		case "...":
			ps.next()
			return &constExpr{t.Ranging, "..."}
		}
	}
	ps.unexpected("expression")
	return nil
}

// Parses adjacent string literals, which are concatenated.
func (ps *parser) parseStrings() expr {
	from := ps.peek().From
	s := &stringExpr{}
	for i := 0; ps.peek().kind == tokString; i++ {
		t := ps.next()
		kind, value, err := decodeString(t.text)
		if err != nil {
			ps.fail(SyntaxError, t, "%v", err)
		}
		switch {
		case i == 0:
			s.kind = kind
		case (kind == bytesString) != (s.kind == bytesString):
			ps.fail(SyntaxError, t, "cannot mix bytes and nonbytes literals")
		case kind == formatString:
			s.kind = formatString
		}
		s.value += value
		s.raw = append(s.raw, t.text)
	}
	s.Ranging = ps.rangeFrom(from)
	return s
}

func (ps *parser) parseParen() expr {
	from := ps.expectOp("(").From
	if ps.acceptOp(")") {
		return &tupleExpr{ps.rangeFrom(from), nil}
	}
	first := ps.parseNamedOrStar()
	if ps.startsComp() {
		clauses := ps.parseComp()
		ps.expectOp(")")
		return &compExpr{ps.rangeFrom(from), generatorComp, nil, first, clauses}
	}
	if !ps.isOp(",") {
		ps.expectOp(")")
		return first
	}
	elts := ps.parseRest([]expr{first}, ")")
	return &tupleExpr{ps.rangeFrom(from), elts}
}

func (ps *parser) parseList() expr {
	from := ps.expectOp("[").From
	if ps.acceptOp("]") {
		return &listExpr{ps.rangeFrom(from), nil}
	}
	first := ps.parseNamedOrStar()
	if ps.startsComp() {
		clauses := ps.parseComp()
		ps.expectOp("]")
		return &compExpr{ps.rangeFrom(from), listComp, nil, first, clauses}
	}
	elts := ps.parseRest([]expr{first}, "]")
	return &listExpr{ps.rangeFrom(from), elts}
}

func (ps *parser) parseBrace() expr {
	from := ps.expectOp("{").From
	if ps.acceptOp("}") {
		return &dictExpr{ps.rangeFrom(from), nil}
	}
	if ps.acceptOp("**") {
		return ps.parseDictRest(from, []dictItem{{nil, ps.parseBitOr()}})
	}
	first := ps.parseNamedOrStar()
	if ps.acceptOp(":") {
		value := ps.parseTest()
		if ps.startsComp() {
			clauses := ps.parseComp()
			ps.expectOp("}")
			return &compExpr{ps.rangeFrom(from), dictComp, first, value, clauses}
		}
		return ps.parseDictRest(from, []dictItem{{first, value}})
	}
	if ps.startsComp() {
		clauses := ps.parseComp()
		ps.expectOp("}")
		return &compExpr{ps.rangeFrom(from), setComp, nil, first, clauses}
	}
	elts := ps.parseRest([]expr{first}, "}")
	return &setExpr{ps.rangeFrom(from), elts}
}

// Parses the remaining comma-separated elements of a display and the closing
// bracket.
func (ps *parser) parseRest(elts []expr, closer string) []expr {
	for ps.acceptOp(",") {
		if ps.isOp(closer) {
			break
		}
		elts = append(elts, ps.parseNamedOrStar())
	}
	ps.expectOp(closer)
	return elts
}

func (ps *parser) parseDictRest(from int, items []dictItem) expr {
	for ps.acceptOp(",") {
		if ps.isOp("}") {
			break
		}
		if ps.acceptOp("**") {
			items = append(items, dictItem{nil, ps.parseBitOr()})
			continue
		}
		key := ps.parseTest()
		ps.expectOp(":")
		items = append(items, dictItem{key, ps.parseTest()})
	}
	ps.expectOp("}")
	return &dictExpr{ps.rangeFrom(from), items}
}

func (ps *parser) startsComp() bool {
	if ps.isKeyword("for") {
		return true
	}
	n := ps.peekAt(1)
	return ps.isKeyword("async") && n.kind == tokName && n.text == "for"
}

func (ps *parser) parseComp() []compClause {
	var clauses []compClause
	for ps.startsComp() {
		var c compClause
		c.async = ps.acceptKeyword("async")
		ps.expectKeyword("for")
		c.target = ps.parseTargetList()
		ps.expectKeyword("in")
		c.iter = ps.parseOrTest()
		for ps.acceptKeyword("if") {
			if ps.isKeyword("lambda") {
				c.ifs = append(c.ifs, ps.parseLambda())
			} else {
				c.ifs = append(c.ifs, ps.parseOrTest())
			}
		}
		clauses = append(clauses, c)
	}
	return clauses
}

// Parses the target list of a comprehension clause, stopping before 'in'.
func (ps *parser) parseTargetList() expr {
	from := ps.peek().From
	target := func() expr {
		if ps.isOp("*") {
			starFrom := ps.next().From
			x := ps.parseBitOr()
			return &starExpr{ps.rangeFrom(starFrom), x}
		}
		return ps.parseBitOr()
	}
	first := target()
	if !ps.isOp(",") {
		return first
	}
	elts := []expr{first}
	for ps.acceptOp(",") {
		if ps.isKeyword("in") {
			break
		}
		elts = append(elts, target())
	}
	return &tupleExpr{ps.rangeFrom(from), elts}
}

func (ps *parser) parseCall(fn expr, from int) expr {
	ps.expectOp("(")
	var args []argument
	for !ps.isOp(")") {
		argFrom := ps.peek().From
		var a argument
		switch t := ps.peek(); {
		case ps.acceptOp("*"):
			a.kind = starArg
			a.value = ps.parseTest()
		case ps.acceptOp("**"):
			a.kind = doubleStarArg
			a.value = ps.parseTest()
		case t.kind == tokName && !keywords[t.text] &&
			ps.peekAt(1).kind == tokOp && ps.peekAt(1).text == "=":
			ps.next()
			ps.next()
			a.kind = keywordArg
			a.name = t.text
			a.value = ps.parseTest()
		default:
			a.kind = positionalArg
			a.value = ps.parseNamedTest()
			if ps.startsComp() {
				clauses := ps.parseComp()
				a.value = &compExpr{ps.rangeFrom(argFrom), generatorComp, nil, a.value, clauses}
			}
		}
		a.Ranging = ps.rangeFrom(argFrom)
		args = append(args, a)
		if !ps.acceptOp(",") {
			break
		}
	}
	ps.expectOp(")")
	return &callExpr{ps.rangeFrom(from), fn, args}
}

func (ps *parser) parseSubscript(x expr, from int) expr {
	ps.expectOp("[")
	indexFrom := ps.peek().From
	index := ps.parseSubscriptItem()
	if ps.isOp(",") {
		elts := []expr{index}
		for ps.acceptOp(",") {
			if ps.isOp("]") {
				break
			}
			elts = append(elts, ps.parseSubscriptItem())
		}
		index = &tupleExpr{ps.rangeFrom(indexFrom), elts}
	}
	ps.expectOp("]")
	return &subscriptExpr{ps.rangeFrom(from), x, index}
}

func (ps *parser) parseSubscriptItem() expr {
	from := ps.peek().From
	var lo expr
	if !ps.isOp(":") {
		lo = ps.parseNamedOrStar()
		if !ps.isOp(":") {
			return lo
		}
	}
	ps.expectOp(":")
	s := &sliceExpr{lo: lo}
	endsPart := func() bool { return ps.isOp(":") || ps.isOp("]") || ps.isOp(",") }
	if !endsPart() {
		s.hi = ps.parseTest()
	}
	if ps.acceptOp(":") && !endsPart() {
		s.step = ps.parseTest()
	}
	s.Ranging = ps.rangeFrom(from)
	return s
}
