package parse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"src.gdsl.dev/pkg/diag"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIndent
	tokDedent
	tokName
	tokNumber
	tokString
	tokOp
)

// token is a lexical token. The text of a tokString includes the prefix and
// the quotes; structural tokens (newline, indent, dedent, EOF) have no text.
type token struct {
	kind tokenKind
	text string
	diag.Ranging
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokIndent:
		return "indent"
	case tokDedent:
		return "dedent"
	}
	return strconv.Quote(t.text)
}

// Operators, longest first within each leading character so that the first
// match is the longest.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"->", ":=", "**", "//", "<<", ">>", "<=", ">=", "==", "!=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "@=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "=",
}

var closingBracket = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// lexer turns source text into tokens, synthesizing newline, indent and
// dedent tokens from the layout the way an indentation-sensitive tokenizer
// does: newlines inside brackets and after a backslash continuation are
// insignificant, and blank or comment-only lines produce no tokens.
type lexer struct {
	src     Source
	pos     int
	toks    []token
	indents []int
	// Open brackets and their positions.
	brackets    []byte
	bracketPos  []int
	atLineStart bool
	err         *Error
}

func tokenize(src Source) ([]token, *Error) {
	lx := &lexer{src: src, indents: []int{0}, atLineStart: true}
	lx.run()
	if lx.err != nil {
		return nil, lx.err
	}
	return lx.toks, nil
}

func (lx *lexer) run() {
	code := lx.src.Code
	for lx.err == nil {
		if lx.atLineStart && len(lx.brackets) == 0 {
			if !lx.lineStart() {
				break
			}
		}
		lx.skipSpaces()
		if lx.pos >= len(code) {
			break
		}
		c := code[lx.pos]
		switch {
		case c == '#':
			lx.skipComment()
		case c == '\n' || c == '\r':
			begin := lx.pos
			lx.skipLineEnd()
			if len(lx.brackets) == 0 {
				lx.emit(tokNewline, "", begin, begin)
				lx.atLineStart = true
			}
		case c == '\\':
			begin := lx.pos
			lx.pos++
			if lx.pos < len(code) && (code[lx.pos] == '\n' || code[lx.pos] == '\r') {
				lx.skipLineEnd()
			} else {
				lx.errorf(diag.Ranging{From: begin, To: lx.pos},
					"unexpected character after line continuation character")
			}
		case c >= '0' && c <= '9' || c == '.' && lx.pos+1 < len(code) && isDigit(code[lx.pos+1]):
			lx.number()
		case c == '\'' || c == '"':
			lx.str(lx.pos)
		default:
			r, _ := utf8.DecodeRuneInString(code[lx.pos:])
			if isIdentStart(r) {
				lx.nameOrString()
			} else {
				lx.operator()
			}
		}
	}
	if lx.err != nil {
		return
	}
	if n := len(lx.brackets); n > 0 {
		p := lx.bracketPos[n-1]
		lx.errorf(diag.Ranging{From: p, To: p + 1},
			"'%c' was never closed", lx.brackets[n-1])
		return
	}
	end := len(code)
	if n := len(lx.toks); n > 0 && lx.toks[n-1].kind != tokNewline &&
		lx.toks[n-1].kind != tokDedent {
		lx.emit(tokNewline, "", end, end)
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(tokDedent, "", end, end)
	}
	lx.emit(tokEOF, "", end, end)
}

// lineStart measures the indentation of a new logical line and emits indent
// and dedent tokens. Blank and comment-only lines are consumed whole. It
// returns false at the end of input.
func (lx *lexer) lineStart() bool {
	code := lx.src.Code
	for {
		col := 0
		i := lx.pos
	measure:
		for i < len(code) {
			switch code[i] {
			case ' ':
				col++
			case '\t':
				col = (col/8 + 1) * 8
			case '\f':
				col = 0
			default:
				break measure
			}
			i++
		}
		lx.pos = i
		if i >= len(code) {
			return false
		}
		switch code[i] {
		case '#':
			lx.skipComment()
			if lx.pos >= len(code) {
				return false
			}
			lx.skipLineEnd()
			continue
		case '\n', '\r':
			lx.skipLineEnd()
			continue
		}

		lx.atLineStart = false
		top := lx.indents[len(lx.indents)-1]
		if col > top {
			lx.indents = append(lx.indents, col)
			lx.emit(tokIndent, "", i, i)
			return true
		}
		for col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(tokDedent, "", i, i)
		}
		if col != lx.indents[len(lx.indents)-1] {
			lx.errorf(diag.PointRanging(i),
				"unindent does not match any outer indentation level")
		}
		return true
	}
}

func (lx *lexer) skipSpaces() {
	code := lx.src.Code
	for lx.pos < len(code) {
		switch code[lx.pos] {
		case ' ', '\t', '\f':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *lexer) skipComment() {
	code := lx.src.Code
	for lx.pos < len(code) && code[lx.pos] != '\n' && code[lx.pos] != '\r' {
		lx.pos++
	}
}

func (lx *lexer) skipLineEnd() {
	code := lx.src.Code
	if lx.pos < len(code) && code[lx.pos] == '\r' {
		lx.pos++
	}
	if lx.pos < len(code) && code[lx.pos] == '\n' {
		lx.pos++
	}
}

func (lx *lexer) nameOrString() {
	code := lx.src.Code
	begin := lx.pos
	for lx.pos < len(code) {
		r, w := utf8.DecodeRuneInString(code[lx.pos:])
		if !isIdentPart(r) {
			break
		}
		lx.pos += w
	}
	if lx.pos < len(code) && (code[lx.pos] == '\'' || code[lx.pos] == '"') &&
		isStringPrefix(code[begin:lx.pos]) {
		lx.str(begin)
		return
	}
	lx.emit(tokName, code[begin:lx.pos], begin, lx.pos)
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}

// str scans a string literal whose prefix starts at begin and whose opening
// quote is at lx.pos.
func (lx *lexer) str(begin int) {
	code := lx.src.Code
	q := code[lx.pos]
	delim := string(q)
	if strings.HasPrefix(code[lx.pos:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	lx.pos += len(delim)
	for {
		if lx.pos >= len(code) {
			lx.errorf(diag.Ranging{From: begin, To: len(code)}, "unterminated string literal")
			return
		}
		c := code[lx.pos]
		switch {
		case c == '\\':
			lx.pos += 2
			if lx.pos > len(code) {
				lx.pos = len(code)
			}
			continue
		case (c == '\n' || c == '\r') && len(delim) == 1:
			lx.errorf(diag.Ranging{From: begin, To: lx.pos}, "unterminated string literal")
			return
		case strings.HasPrefix(code[lx.pos:], delim):
			lx.pos += len(delim)
			lx.emit(tokString, code[begin:lx.pos], begin, lx.pos)
			return
		}
		lx.pos++
	}
}

func (lx *lexer) number() {
	code := lx.src.Code
	begin := lx.pos
	digits := func(ok func(byte) bool) {
		for lx.pos < len(code) && (ok(code[lx.pos]) || code[lx.pos] == '_') {
			lx.pos++
		}
	}
	if code[lx.pos] == '0' && lx.pos+1 < len(code) && strings.ContainsRune("xXoObB", rune(code[lx.pos+1])) {
		lx.pos += 2
		digits(isHexDigit)
	} else {
		digits(isDigit)
		if lx.pos < len(code) && code[lx.pos] == '.' {
			lx.pos++
			digits(isDigit)
		}
		if lx.pos < len(code) && (code[lx.pos] == 'e' || code[lx.pos] == 'E') {
			save := lx.pos
			lx.pos++
			if lx.pos < len(code) && (code[lx.pos] == '+' || code[lx.pos] == '-') {
				lx.pos++
			}
			if lx.pos < len(code) && isDigit(code[lx.pos]) {
				digits(isDigit)
			} else {
				lx.pos = save
			}
		}
		if lx.pos < len(code) && (code[lx.pos] == 'j' || code[lx.pos] == 'J') {
			lx.pos++
		}
	}
	text := code[begin:lx.pos]
	if _, ok := numberValue(text); !ok {
		lx.errorf(diag.Ranging{From: begin, To: lx.pos}, "invalid number literal %q", text)
		return
	}
	lx.emit(tokNumber, text, begin, lx.pos)
}

func (lx *lexer) operator() {
	code := lx.src.Code
	begin := lx.pos
	for _, op := range operators {
		if !strings.HasPrefix(code[lx.pos:], op) {
			continue
		}
		lx.pos += len(op)
		switch c := op[0]; {
		case len(op) == 1 && (c == '(' || c == '[' || c == '{'):
			lx.brackets = append(lx.brackets, c)
			lx.bracketPos = append(lx.bracketPos, begin)
		case len(op) == 1 && (c == ')' || c == ']' || c == '}'):
			n := len(lx.brackets)
			if n == 0 {
				lx.errorf(diag.Ranging{From: begin, To: lx.pos}, "unmatched '%c'", c)
				return
			}
			if closingBracket[lx.brackets[n-1]] != c {
				lx.errorf(diag.Ranging{From: begin, To: lx.pos},
					"closing parenthesis '%c' does not match opening parenthesis '%c'",
					c, lx.brackets[n-1])
				return
			}
			lx.brackets = lx.brackets[:n-1]
			lx.bracketPos = lx.bracketPos[:n-1]
		}
		lx.emit(tokOp, op, begin, lx.pos)
		return
	}
	r, w := utf8.DecodeRuneInString(code[lx.pos:])
	lx.errorf(diag.Ranging{From: begin, To: begin + w}, "invalid character %q", r)
}

func (lx *lexer) emit(kind tokenKind, text string, from, to int) {
	lx.toks = append(lx.toks, token{kind, text, diag.Ranging{From: from, To: to}})
}

func (lx *lexer) errorf(r diag.Ranging, format string, args ...any) {
	if lx.err != nil {
		return
	}
	lx.err = &Error{
		Tag:     SyntaxError,
		Message: fmt.Sprintf(format, args...),
		Context: *diag.NewContext(lx.src.Name, lx.src.Code, r),
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) ||
		unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}
