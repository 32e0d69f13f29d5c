package parse

import (
	"errors"

	"src.gdsl.dev/pkg/diag"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

// Kinds of parse failures. All of them are terminal.
const (
	// The source is not lexically or syntactically well-formed.
	SyntaxError ErrorKind = iota
	// The source does not contain exactly one top-level routine definition.
	MultipleOrNoDefinitions
	// A body statement has a shape outside the grammar.
	UnsupportedStatement
	// A callee is not a bare identifier.
	UnresolvedFunctionReference
	// A call of the reserved higher-order name has the wrong shape.
	MalformedMappedApplication
	// A lambda does not take exactly one plain parameter.
	UnsupportedLambdaArity
	// A lambda body is not a call.
	LambdaBodyNotCall
	// An argument contains a call or a lambda.
	NestedApplication
)

var kindNames = [...]string{
	SyntaxError:                 "SyntaxError",
	MultipleOrNoDefinitions:     "MultipleOrNoDefinitions",
	UnsupportedStatement:        "UnsupportedStatement",
	UnresolvedFunctionReference: "UnresolvedFunctionReference",
	MalformedMappedApplication:  "MalformedMappedApplication",
	UnsupportedLambdaArity:      "UnsupportedLambdaArity",
	LambdaBodyNotCall:           "LambdaBodyNotCall",
	NestedApplication:           "NestedApplication",
}

var kindTags = [...]string{
	SyntaxError:                 "syntax error",
	MultipleOrNoDefinitions:     "multiple or no definitions",
	UnsupportedStatement:        "unsupported statement",
	UnresolvedFunctionReference: "unresolved function reference",
	MalformedMappedApplication:  "malformed mapped application",
	UnsupportedLambdaArity:      "unsupported lambda arity",
	LambdaBodyNotCall:           "lambda body not call",
	NestedApplication:           "nested application",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "ErrorKind(?)"
	}
	return kindNames[k]
}

// ErrorTag returns the human-readable class name of the kind. It implements
// diag.ErrorTag.
func (k ErrorKind) ErrorTag() string {
	if k < 0 || int(k) >= len(kindTags) {
		return "parse error"
	}
	return kindTags[k]
}

// Error is a parse error. Its Tag is the ErrorKind and its Context covers the
// offending statement or expression.
type Error = diag.Error[ErrorKind]

// KindOf returns the ErrorKind of err if it is or wraps a parse error.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag, true
	}
	return 0, false
}
