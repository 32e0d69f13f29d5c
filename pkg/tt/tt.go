// Package tt supports table-driven tests with little boilerplate.
//
// See the test case for this package for example usage.
package tt

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Table represents a test table.
type Table []*Case

// Case represents a test case. It is created by the Args function, and offers
// setters that augment and return itself; those calls can be chained like
// Args(...).Rets(...).
type Case struct {
	args         []any
	retsMatchers [][]any
}

// Args returns a new Case with the given arguments.
func Args(args ...any) *Case {
	return &Case{args: args}
}

// Rets modifies the test case so that it requires the return values to match
// the given values. It returns the receiver. The arguments may implement the
// Matcher interface, in which case its Match method is called with the actual
// return value. Otherwise, cmp.Diff with CommonCmpOpt is used to determine
// matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnDescriptor describes a function to test.
type FnDescriptor struct {
	name    string
	body    any
	argsFmt string
}

// Fn makes a new FnDescriptor with the given function name and body.
func Fn(name string, body any) *FnDescriptor {
	return &FnDescriptor{name: name, body: body}
}

// ArgsFmt sets the string for formatting arguments in test error messages,
// and returns fn itself.
func (fn *FnDescriptor) ArgsFmt(s string) *FnDescriptor {
	fn.argsFmt = s
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// CommonCmpOpt is the cmp.Option used when comparing return values. Empty
// and nil slices and maps are considered equal.
var CommonCmpOpt = cmp.Options([]cmp.Option{
	cmpopts.EquateEmpty(),
	cmp.Exporter(exportAll),
})

// Test tests a function against test cases.
func Test(t T, fn *FnDescriptor, tests Table) {
	t.Helper()
	for _, test := range tests {
		rets := call(fn.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if !match(retsMatcher, rets) {
				var args string
				if fn.argsFmt == "" {
					args = sprintArgs(test.args...)
				} else {
					args = fmt.Sprintf(fn.argsFmt, test.args...)
				}
				diff := cmp.Diff(retsMatcher, rets, CommonCmpOpt)
				t.Errorf("%s(%s) returns (-Wanted +Actual):\n%s", fn.name, args, diff)
			}
		}
	}
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// ErrorWithMessage returns a Matcher that matches any non-nil error with the
// given message.
func ErrorWithMessage(msg string) Matcher { return errorWithMessage{msg} }

type errorWithMessage struct{ msg string }

func (m errorWithMessage) Match(v RetValue) bool {
	err, ok := v.(error)
	return ok && err.Error() == m.msg
}

func match(matchers, actual []any) bool {
	for i, matcher := range matchers {
		if !matchOne(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func matchOne(m, a any) bool {
	if m, ok := m.(Matcher); ok {
		return m.Match(a)
	}
	return cmp.Equal(m, a, CommonCmpOpt)
}

func exportAll(reflect.Type) bool { return true }

func sprintArgs(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprint(&sb, arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	fnType := reflect.TypeOf(fn)
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) returns a zero Value; use a zero value of
			// the parameter type instead.
			var paramType reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				paramType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				paramType = fnType.In(i)
			}
			argsReflect[i] = reflect.New(paramType).Elem()
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}
