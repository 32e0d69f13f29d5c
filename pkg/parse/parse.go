// Package parse implements the parser of candidate routines.
//
// A candidate is a module with exactly one top-level routine definition
// written in a small, Python-shaped graph-construction language. The body of
// the routine is a flat list of statements, each binding, evaluating or
// returning one call:
//
//	def compress():
//	    "Two disjoint cycles."
//	    g1 = cycle_graph(0, 10)
//	    g2 = shift_graph(g1, 10)
//	    return union_graphs(g1, g2)
//
// The only higher-order construct is a call of the reserved name union_map
// with a generator call and a one-parameter lambda:
//
//	g = union_map(numerical_range(1, 5), lambda k: shift_graph(rung, k))
//
// Parse tokenizes the source, builds an internal syntax tree and lowers it to
// a term.Program. Arguments of calls become leaves: integer literals and bare
// names keep their value; any other expression is kept as its canonical
// rendering. Calls and lambdas are not allowed inside arguments.
package parse

import (
	"io"

	"src.gdsl.dev/pkg/diag"
	"src.gdsl.dev/pkg/term"
)

// Config keeps configuration options when parsing.
type Config struct {
	// Reserved name of the higher-order construct. If empty,
	// term.MappedApplyName is used.
	MappedApplyName string
	// Destination of warnings. If nil, warnings are suppressed.
	WarningWriter io.Writer
}

func (cfg Config) mappedApplyName() string {
	if cfg.MappedApplyName == "" {
		return term.MappedApplyName
	}
	return cfg.MappedApplyName
}

// Parse parses the given source. The returned error always has type *Error
// if it is not nil.
//
// Parse only reads its arguments: parsing the same source twice yields equal
// programs that share nothing.
func Parse(src Source, cfg Config) (prog term.Program, err error) {
	toks, lexErr := tokenize(src)
	if lexErr != nil {
		return term.Program{}, lexErr
	}
	ps := &parser{src: src, cfg: cfg, toks: toks}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(bailout); !ok {
			panic(r)
		}
		prog, err = term.Program{}, ps.err
	}()

	defs := ps.parseModule()
	if len(defs) != 1 {
		var r diag.Ranger = diag.Ranging{From: 0, To: len(src.Code)}
		if len(defs) > 1 {
			r = defs[1]
		}
		ps.fail(MultipleOrNoDefinitions, r,
			"expected exactly one top-level function definition, found %d", len(defs))
	}
	return ps.lowerRoutine(defs[0]), nil
}
