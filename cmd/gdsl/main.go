// Command gdsl scores candidate graph-construction routines by their
// structural cost. It can also evaluate a corpus of samples and serve as a
// language server.
package main

import (
	"os"

	"src.gdsl.dev/pkg/buildinfo"
	"src.gdsl.dev/pkg/costprog"
	"src.gdsl.dev/pkg/lsp"
	"src.gdsl.dev/pkg/pprof"
	"src.gdsl.dev/pkg/prog"
)

func main() {
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&pprof.Program{}, &buildinfo.Program{}, &lsp.Program{}, &costprog.Program{})))
}
