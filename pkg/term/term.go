// Package term defines the term tree of a parsed candidate routine.
//
// A routine parses into a Program, an ordered sequence of Terms. A Term is
// either a direct call (Application) or the single higher-order construct
// (MappedApplication). Every argument of a call is a LeafTerm; leaves never
// contain further calls.
//
// LeafTerm and Term are closed sums: their marker methods are unexported, so
// only the variants declared in this package implement them. Consumers
// switch on the variants and treat anything else as a malformed tree.
package term

import (
	"strconv"
	"strings"

	"src.gdsl.dev/pkg/diag"
)

// MappedApplyName is the default reserved name of the higher-order construct.
const MappedApplyName = "union_map"

// LeafTerm is an argument of a function application. It is one of Constant,
// Variable and Opaque.
type LeafTerm interface {
	isLeafTerm()
	String() string
}

// Constant is an integer literal.
type Constant int64

// Variable is a bare identifier: a parameter reference or a free name.
type Variable string

// Opaque is any other argument expression, kept as its canonical source
// rendering.
type Opaque string

func (Constant) isLeafTerm() {}
func (Variable) isLeafTerm() {}
func (Opaque) isLeafTerm()   {}

func (c Constant) String() string { return strconv.FormatInt(int64(c), 10) }
func (v Variable) String() string { return string(v) }
func (o Opaque) String() string   { return string(o) }

// FunctionApplication is a call of a named function with leaf arguments.
type FunctionApplication struct {
	Name string
	Args []LeafTerm
}

// Arity returns the number of arguments.
func (a FunctionApplication) Arity() int { return len(a.Args) }

func (a FunctionApplication) String() string {
	var sb strings.Builder
	sb.WriteString(a.Name)
	sb.WriteByte('(')
	for i, arg := range a.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		if arg == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(arg.String())
		}
	}
	sb.WriteByte(')')
	return sb.String()
}

// FunctionAbstraction is a one-parameter anonymous function whose body is a
// single application.
type FunctionAbstraction struct {
	Param string
	Body  FunctionApplication
}

func (f FunctionAbstraction) String() string {
	return "lambda " + f.Param + ": " + f.Body.String()
}

// Term is a top-level instruction. It is one of Application and
// MappedApplication.
type Term interface {
	isTerm()
	String() string
}

// Application is a direct call instruction.
type Application struct {
	Call FunctionApplication
}

// MappedApplication applies Abstraction to every element produced by
// Generator and combines the results.
type MappedApplication struct {
	Generator   FunctionApplication
	Abstraction FunctionAbstraction
	// Reserved name the construct was written with, if not MappedApplyName.
	Name string
}

func (Application) isTerm()       {}
func (MappedApplication) isTerm() {}

func (a Application) String() string { return a.Call.String() }

func (m MappedApplication) String() string {
	name := m.Name
	if name == "" {
		name = MappedApplyName
	}
	return name + "(" + m.Generator.String() + ", " + m.Abstraction.String() + ")"
}

// Routine identifies the definition a Program was parsed from. It is kept
// for provenance only.
type Routine struct {
	// Name of the source, such as a file name.
	Source string
	// Name of the routine.
	Name string
	// Full source text.
	Code string
	// Range of the definition within Code.
	diag.Ranging
	// Ranges of the statements the instructions were lowered from, one per
	// instruction.
	Spans []diag.Ranging
}

// Program is the parsed form of a routine. A Program owns its instructions
// and is not modified after it is produced.
type Program struct {
	Instructions []Term
	Routine      Routine
}

// String renders the instructions, one per line.
func (p Program) String() string {
	var sb strings.Builder
	for _, t := range p.Instructions {
		if t == nil {
			sb.WriteString("<nil>")
		} else {
			sb.WriteString(t.String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
