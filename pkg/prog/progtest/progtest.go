// Package progtest provides a framework for testing subprograms.
//
// A test is a list of cases, each of which runs the program with some
// arguments and checks its stdout, stderr and exit status.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.gdsl.dev/pkg/must"
	"src.gdsl.dev/pkg/prog"
)

// Case is a test case that can be used in Test.
type Case struct {
	args  []string
	stdin string
	want  result
}

type result struct {
	exitCode int
	stdout   output
	stderr   output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + o.content
	}
	return o.content
}

// ThatGdsl returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "gdsl -bad-flag" exits with 2 reads
// like:
//
//	ThatGdsl("-bad-flag").ExitsWith(2)
func ThatGdsl(args ...string) Case {
	return Case{args: append([]string{"gdsl"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin
// of the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark that a case doesn't
// expect any effects, for readability.
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to exit with
// the given status.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.stdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.stdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.stderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.stderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !matchOutput(r.stdout, c.want.stdout) {
				t.Errorf("got stdout %q, want %q", r.stdout, c.want.stdout)
			}
			if !matchOutput(r.stderr, c.want.stderr) {
				t.Errorf("got stderr %q, want %q", r.stderr, c.want.stderr)
			}
		})
	}
}

// Run runs a Program with the given arguments. It returns the exit code and
// the output written to stdout and stderr.
func Run(p prog.Program, args ...string) (exit int, stdout, stderr string) {
	r := run(p, append([]string{"gdsl"}, args...), "")
	return r.exitCode, r.stdout.content, r.stderr.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.OK2(os.Pipe())
	r1, w1 := must.OK2(os.Pipe())
	r2, w2 := must.OK2(os.Pipe())
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Read stdout and stderr concurrently so that a program writing more than
	// a pipe can buffer does not block.
	stdout := readAllAsync(r1)
	stderr := readAllAsync(r2)

	exitCode := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exitCode, output{content: <-stdout}, output{content: <-stderr}}
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.OK1(io.ReadAll(r)))
		r.Close()
	}()
	return ch
}

func matchOutput(got, want output) bool {
	if want.partial {
		return strings.Contains(got.content, want.content)
	}
	return got.content == want.content
}
