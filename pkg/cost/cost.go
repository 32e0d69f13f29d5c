// Package cost computes the structural cost of a parsed program.
//
// The cost approximates how much information is needed to write the program
// down:
//
//   - an application costs its arity;
//   - an abstraction costs 1 for its parameter plus the cost of its body;
//   - a mapped application costs its generator plus its abstraction;
//   - a program costs the sum of its instructions.
//
// Leaves are not decomposed: an Opaque argument occupies one slot no matter
// how long its text is.
package cost

import (
	"fmt"

	"src.gdsl.dev/pkg/term"
)

// MalformedTermError is returned for a term tree that the parser could not
// have produced, such as one with a nil instruction.
type MalformedTermError struct {
	// Index of the offending instruction, or -1 if the tree is not a program.
	Index  int
	Reason string
}

func (e *MalformedTermError) Error() string {
	if e.Index < 0 {
		return "malformed term: " + e.Reason
	}
	return fmt.Sprintf("malformed term at instruction %d: %s", e.Index, e.Reason)
}

// Application returns the cost of a function application, its arity.
func Application(a term.FunctionApplication) (int, error) {
	if a.Name == "" {
		return 0, malformed("application with empty function name")
	}
	for i, arg := range a.Args {
		switch arg.(type) {
		case term.Constant, term.Variable, term.Opaque:
		case nil:
			return 0, malformed(fmt.Sprintf("nil argument %d of %s", i, a.Name))
		default:
			return 0, malformed(fmt.Sprintf("argument %d of %s has unknown type %T", i, a.Name, arg))
		}
	}
	return a.Arity(), nil
}

// Abstraction returns the cost of a function abstraction: 1 for the bound
// parameter plus the cost of the body.
func Abstraction(f term.FunctionAbstraction) (int, error) {
	if f.Param == "" {
		return 0, malformed("abstraction with empty parameter")
	}
	body, err := Application(f.Body)
	if err != nil {
		return 0, err
	}
	return 1 + body, nil
}

// Term returns the cost of a single instruction.
func Term(t term.Term) (int, error) {
	switch t := t.(type) {
	case term.Application:
		return Application(t.Call)
	case term.MappedApplication:
		gen, err := Application(t.Generator)
		if err != nil {
			return 0, err
		}
		abs, err := Abstraction(t.Abstraction)
		if err != nil {
			return 0, err
		}
		return gen + abs, nil
	case nil:
		return 0, malformed("nil term")
	default:
		return 0, malformed(fmt.Sprintf("unknown term type %T", t))
	}
}

// Program returns the cost of a whole program, the sum of the costs of its
// instructions. Identical instructions are counted each time they appear.
func Program(p term.Program) (int, error) {
	costs, err := Breakdown(p)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range costs {
		total += c
	}
	return total, nil
}

// Breakdown returns the cost of each instruction of p, in order.
func Breakdown(p term.Program) ([]int, error) {
	costs := make([]int, len(p.Instructions))
	for i, t := range p.Instructions {
		c, err := Term(t)
		if err != nil {
			if me, ok := err.(*MalformedTermError); ok {
				me.Index = i
			}
			return nil, err
		}
		costs[i] = c
	}
	return costs, nil
}

func malformed(reason string) *MalformedTermError {
	return &MalformedTermError{Index: -1, Reason: reason}
}
