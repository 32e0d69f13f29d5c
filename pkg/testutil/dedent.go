package testutil

import (
	"regexp"
	"strings"
)

var (
	whitespaceOnly    = regexp.MustCompile("(?m)^[ \t]+$")
	leadingWhitespace = regexp.MustCompile("(?m)(^[ \t]*)(?:[^ \t\n])")
)

// Dedent removes the common leading whitespace from every line in text. An
// initial newline is removed, so that a raw string can start on the line after
// the opening backtick.
//
// Candidate sources in tests are indentation-sensitive, so they are usually
// written as indented raw strings and passed through Dedent.
func Dedent(text string) string {
	if text == "" {
		return text
	}
	if text[0] == '\n' {
		text = text[1:]
	}
	text = whitespaceOnly.ReplaceAllString(text, "")

	var margin string
	for i, indent := range leadingWhitespace.FindAllStringSubmatch(text, -1) {
		switch {
		case i == 0:
			margin = indent[1]
		case strings.HasPrefix(indent[1], margin):
			// Deeper than the current margin; margin unchanged.
		case strings.HasPrefix(margin, indent[1]):
			margin = indent[1]
		default:
			margin = ""
		}
		if margin == "" {
			break
		}
	}

	if margin != "" {
		text = regexp.MustCompile("(?m)^"+margin).ReplaceAllString(text, "")
	}
	return text
}
