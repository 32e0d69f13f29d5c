package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a source code. It is typically used for
// errors that can be associated with a part of the source code, like parse
// errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Markers around the culprit and the message. Changed by UseColor and in
// tests.
var (
	culpritLineBegin   = "\033[1;4m"
	culpritLineEnd     = "\033[m"
	culpritPlaceHolder = "^"
	messageStart       = "\033[31;1m"
	messageEnd         = "\033[m"
)

// UseColor chooses between ANSI-styled and plain markers for the output of
// Show, ShowCompact and ShowError.
func UseColor(on bool) {
	if on {
		culpritLineBegin, culpritLineEnd = "\033[1;4m", "\033[m"
		messageStart, messageEnd = "\033[31;1m", "\033[m"
	} else {
		culpritLineBegin, culpritLineEnd = "", ""
		messageStart, messageEnd = "", ""
	}
}

// Information about the source range that is needed for showing.
type rangeShowInfo struct {
	// Head is the text immediately before Culprit, extending to, but not
	// including the closest line boundary.
	Head string
	// Culprit is Source[From:To], with any trailing newline stripped.
	Culprit string
	// Tail is the text immediately after Culprit, extending to, but not
	// including the closest line boundary.
	Tail string
	// BeginLine and EndLine are the 1-based lines of the first and last
	// character of Culprit.
	BeginLine int
	EndLine   int
}

func (c *Context) showInfo() rangeShowInfo {
	before := c.Source[:c.From]
	culprit := c.Source[c.From:c.To]
	after := c.Source[c.To:]

	head := lastLine(before)
	beginLine := strings.Count(before, "\n") + 1

	var tail string
	if strings.HasSuffix(culprit, "\n") {
		culprit = culprit[:len(culprit)-1]
	} else {
		tail = firstLine(after)
	}
	endLine := beginLine + strings.Count(culprit, "\n")
	return rangeShowInfo{head, culprit, tail, beginLine, endLine}
}

// Describe returns the "name:line:col" description of the start of the range.
func (c *Context) Describe() string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	pos := PositionOf(c.Source, c.From)
	return fmt.Sprintf("%s:%d:%d", c.Name, pos.Line, pos.Col)
}

// Show shows the Context, putting the relevant source excerpt on the lines
// after the description, each prefixed by sourceIndent.
func (c *Context) Show(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	return c.Describe() + ":\n" + sourceIndent + c.relevantSource(sourceIndent)
}

// ShowCompact is like Show, but puts the first line of the excerpt on the
// same line as the description.
func (c *Context) ShowCompact(sourceIndent string) string {
	if err := c.checkPosition(); err != nil {
		return err.Error()
	}
	desc := c.Describe() + ": "
	descIndent := strings.Repeat(" ", len([]rune(desc)))
	return desc + c.relevantSource(sourceIndent+descIndent)
}

func (c *Context) checkPosition() error {
	if c.From == -1 {
		return fmt.Errorf("%s, unknown position", c.Name)
	} else if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Errorf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	return nil
}

func (c *Context) relevantSource(sourceIndent string) string {
	info := c.showInfo()

	var sb strings.Builder
	sb.WriteString(info.Head)

	culprit := info.Culprit
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	for i, line := range strings.Split(culprit, "\n") {
		if i > 0 {
			sb.WriteByte('\n')
			sb.WriteString(sourceIndent)
		}
		sb.WriteString(culpritLineBegin)
		sb.WriteString(line)
		sb.WriteString(culpritLineEnd)
	}

	sb.WriteString(info.Tail)
	return sb.String()
}

func firstLine(s string) string {
	i := strings.IndexByte(s, '\n')
	if i == -1 {
		return s
	}
	return s[:i]
}

func lastLine(s string) string {
	// When s does not contain '\n', LastIndexByte returns -1, which happens to
	// be what we want.
	return s[strings.LastIndexByte(s, '\n')+1:]
}
