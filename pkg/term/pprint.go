package term

import (
	"fmt"
	"io"
	"strconv"
)

const indentInc = 2

// PPrint pretty-prints the term tree of a Program to w, one node per line.
func PPrint(w io.Writer, p Program) {
	fmt.Fprintf(w, "Program %s\n", p.Routine.Name)
	for _, t := range p.Instructions {
		pprintTerm(w, t, indentInc)
	}
}

func pprintTerm(w io.Writer, t Term, indent int) {
	switch t := t.(type) {
	case Application:
		pprintApplication(w, "Application", t.Call, indent)
	case MappedApplication:
		fmt.Fprintf(w, "%*sMappedApplication\n", indent, "")
		pprintApplication(w, "Generator", t.Generator, indent+indentInc)
		fmt.Fprintf(w, "%*sAbstraction %s\n", indent+indentInc, "", t.Abstraction.Param)
		pprintApplication(w, "Body", t.Abstraction.Body, indent+2*indentInc)
	default:
		fmt.Fprintf(w, "%*s<malformed %T>\n", indent, "", t)
	}
}

func pprintApplication(w io.Writer, label string, a FunctionApplication, indent int) {
	fmt.Fprintf(w, "%*s%s %s\n", indent, "", label, a.Name)
	for _, arg := range a.Args {
		switch arg := arg.(type) {
		case Constant:
			fmt.Fprintf(w, "%*sConstant %d\n", indent+indentInc, "", int64(arg))
		case Variable:
			fmt.Fprintf(w, "%*sVariable %s\n", indent+indentInc, "", string(arg))
		case Opaque:
			fmt.Fprintf(w, "%*sOpaque %s\n", indent+indentInc, "", strconv.Quote(string(arg)))
		default:
			fmt.Fprintf(w, "%*s<malformed %T>\n", indent+indentInc, "", arg)
		}
	}
}
