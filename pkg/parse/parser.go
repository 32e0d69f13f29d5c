package parse

import (
	"fmt"

	"src.gdsl.dev/pkg/diag"
)

// parser maintains the state of parsing one source. Parsing stops at the
// first error: fail records it and unwinds to Parse with a bailout panic.
type parser struct {
	src  Source
	cfg  Config
	toks []token
	pos  int
	err  *Error
}

type bailout struct{}

var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true,
	"class": true, "continue": true, "def": true, "del": true, "elif": true,
	"else": true, "except": true, "finally": true, "for": true,
	"from": true, "global": true, "if": true, "import": true, "in": true,
	"is": true, "lambda": true, "nonlocal": true, "not": true, "or": true,
	"pass": true, "raise": true, "return": true, "try": true,
	"while": true, "with": true, "yield": true,
}

func (ps *parser) peek() token { return ps.peekAt(0) }

func (ps *parser) peekAt(n int) token {
	i := ps.pos + n
	if i >= len(ps.toks) {
		return ps.toks[len(ps.toks)-1]
	}
	return ps.toks[i]
}

func (ps *parser) next() token {
	t := ps.toks[ps.pos]
	if t.kind != tokEOF {
		ps.pos++
	}
	return t
}

// Returns the end position of the last consumed token that is not a newline,
// indent or dedent.
func (ps *parser) lastEnd() int {
	for i := ps.pos - 1; i >= 0; i-- {
		switch t := ps.toks[i]; t.kind {
		case tokNewline, tokIndent, tokDedent:
		default:
			return t.To
		}
	}
	return 0
}

// Returns the range from the given start position to the end of the last
// consumed token.
func (ps *parser) rangeFrom(from int) diag.Ranging {
	return diag.Ranging{From: from, To: ps.lastEnd()}
}

func (ps *parser) isOp(s string) bool {
	t := ps.peek()
	return t.kind == tokOp && t.text == s
}

func (ps *parser) isKeyword(s string) bool {
	t := ps.peek()
	return t.kind == tokName && t.text == s
}

func (ps *parser) acceptOp(s string) bool {
	if ps.isOp(s) {
		ps.next()
		return true
	}
	return false
}

func (ps *parser) acceptKeyword(s string) bool {
	if ps.isKeyword(s) {
		ps.next()
		return true
	}
	return false
}

func (ps *parser) expectOp(s string) token {
	if !ps.isOp(s) {
		ps.unexpected(fmt.Sprintf("'%s'", s))
	}
	return ps.next()
}

func (ps *parser) expectKeyword(s string) token {
	if !ps.isKeyword(s) {
		ps.unexpected(fmt.Sprintf("'%s'", s))
	}
	return ps.next()
}

func (ps *parser) expectKind(kind tokenKind, what string) token {
	if ps.peek().kind != kind {
		ps.unexpected(what)
	}
	return ps.next()
}

// Parses an identifier that is not a keyword.
func (ps *parser) expectIdent() token {
	t := ps.peek()
	if t.kind != tokName || keywords[t.text] {
		ps.unexpected("identifier")
	}
	return ps.next()
}

func (ps *parser) unexpected(want string) {
	t := ps.peek()
	if t.kind == tokIndent {
		ps.fail(SyntaxError, t, "unexpected indent")
	}
	ps.fail(SyntaxError, t, "unexpected %s, should be %s", t.describe(), want)
}

func (ps *parser) fail(kind ErrorKind, r diag.Ranger, format string, args ...any) {
	ps.err = &Error{
		Tag:     kind,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(ps.src.Name, ps.src.Code, r),
	}
	panic(bailout{})
}

func (ps *parser) sourceText(r diag.Ranger) string {
	rg := r.Range()
	return ps.src.Code[rg.From:rg.To]
}
