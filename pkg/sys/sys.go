// Package sys provide system utilities with the same API across OSes.
package sys

import (
	"os"

	"github.com/mattn/go-isatty"
)

// IsATTY determines whether the given file is a terminal.
func IsATTY(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
