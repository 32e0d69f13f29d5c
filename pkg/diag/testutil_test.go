package diag

import (
	"strings"

	"src.gdsl.dev/pkg/testutil"
)

func setCulpritMarkers(c testutil.Cleanuper, begin, end string) {
	testutil.Set(c, &culpritLineBegin, begin)
	testutil.Set(c, &culpritLineEnd, end)
}

func setMessageMarkers(c testutil.Cleanuper, start, end string) {
	testutil.Set(c, &messageStart, start)
	testutil.Set(c, &messageEnd, end)
}

// Returns a Context with the given name and source, and a range for the part
// between ( and ).
func contextInParen(name, src string) *Context {
	return NewContext(name, src,
		Ranging{strings.Index(src, "("), strings.Index(src, ")") + 1})
}

func lines(lines ...string) string {
	return strings.Join(lines, "\n")
}
