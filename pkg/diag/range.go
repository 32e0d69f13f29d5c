package diag

import "strings"

// Ranger wraps the Range method.
type Ranger interface {
	// Range returns the range associated with the value.
	Range() Ranging
}

// Ranging represents a byte range [From, To) within a source text. Structs
// can embed Ranging to satisfy the [Ranger] interface.
type Ranging struct {
	From int
	To   int
}

// Range returns the Ranging itself.
func (r Ranging) Range() Ranging { return r }

// PointRanging returns a zero-width Ranging at the given point.
func PointRanging(p int) Ranging {
	return Ranging{p, p}
}

// MixedRanging returns a Ranging from the start position of a to the end
// position of b.
func MixedRanging(a, b Ranger) Ranging {
	return Ranging{a.Range().From, b.Range().To}
}

// Position is a 1-based line and column pair. Columns count runes.
type Position struct {
	Line int
	Col  int
}

// PositionOf returns the position of byte index idx in source.
func PositionOf(source string, idx int) Position {
	if idx > len(source) {
		idx = len(source)
	}
	before := source[:idx]
	line := strings.Count(before, "\n") + 1
	col := len([]rune(lastLine(before))) + 1
	return Position{line, col}
}
