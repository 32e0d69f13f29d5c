// Package extract pulls candidate code out of a raw model response.
package extract

import (
	"regexp"
	"strings"
)

// EntryPoint is the routine a response is expected to define.
const EntryPoint = "def compress"

var fencedBlock = regexp.MustCompile("```(?:python)?\\s*([\\s\\S]*?)```")

// Code returns the candidate code in a response. The first fenced code block
// that defines the entry point wins, then the first fenced block of any
// kind. Without fenced blocks, the text from the entry point on is used, or
// the whole response if there is no entry point either.
//
// The result always ends with a newline.
func Code(response string) string {
	text := strings.TrimSpace(response)

	var code string
	if blocks := Blocks(text); len(blocks) > 0 {
		code = blocks[0]
		for _, block := range blocks {
			if strings.Contains(block, EntryPoint) {
				code = block
				break
			}
		}
	} else if i := strings.Index(text, EntryPoint); i >= 0 {
		code = strings.TrimSpace(text[i:])
	} else {
		code = text
	}

	if !strings.HasSuffix(code, "\n") {
		code += "\n"
	}
	return code
}

// Blocks returns the trimmed contents of the fenced code blocks in text, in
// order. An optional "python" info string is dropped.
func Blocks(text string) []string {
	var blocks []string
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		blocks = append(blocks, strings.TrimSpace(m[1]))
	}
	return blocks
}
