package diag

import (
	"fmt"
	"strings"
)

// ErrorTag is the constraint on the tag type of [Error]. The tag classifies
// the error; its ErrorTag method returns the human-readable class name.
type ErrorTag interface {
	ErrorTag() string
}

// Error represents an error with a classifying tag and a source context that
// can be showed.
type Error[T ErrorTag] struct {
	Tag     T
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error[T]) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Tag.ErrorTag(), e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error[T]) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error[T]) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n",
		capitalize(e.Tag.ErrorTag()), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.ShowCompact(indent+"  ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
