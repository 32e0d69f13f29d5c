// Package pprof adds profiling flags to the gdsl program.
package pprof

import (
	"fmt"
	"os"
	"runtime/pprof"

	"src.gdsl.dev/pkg/prog"
)

// Program adds support for the -cpuprofile and -allocsprofile flags. It never
// runs by itself, and should come first in a composite program.
type Program struct {
	cpuProfile    string
	allocsProfile string
}

func (p *Program) RegisterFlags(f *prog.FlagSet) {
	f.StringVar(&p.cpuProfile, "cpuprofile", "", "write CPU profile to file")
	f.StringVar(&p.allocsProfile, "allocsprofile", "", "write memory allocation profile to file")
}

func (p *Program) Run(fds [3]*os.File, _ []string) error {
	var cleanups []func([3]*os.File)
	if f := create(fds, p.cpuProfile, "CPU profile"); f != nil {
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot start CPU profiling:", err)
			f.Close()
		} else {
			cleanups = append(cleanups, func([3]*os.File) {
				pprof.StopCPUProfile()
				f.Close()
			})
		}
	}
	if f := create(fds, p.allocsProfile, "memory allocation profile"); f != nil {
		cleanups = append(cleanups, func(fds [3]*os.File) {
			if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
				fmt.Fprintln(fds[2], "Warning: cannot write memory allocation profile:", err)
			}
			f.Close()
		})
	}
	return prog.NextProgram(cleanups...)
}

// Creates the profile file, or returns nil with a warning if that fails.
func create(fds [3]*os.File, name, what string) *os.File {
	if name == "" {
		return nil
	}
	f, err := os.Create(name)
	if err != nil {
		fmt.Fprintf(fds[2], "Warning: cannot create %s: %v\n", what, err)
		fmt.Fprintf(fds[2], "Continuing without %s.\n", what)
		return nil
	}
	return f
}
