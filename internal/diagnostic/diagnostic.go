// Package diagnostic holds the span and location types shared by every
// pipeline stage's error type (spec.md §7: "each error kind carries enough
// context for a user to locate the source cause without re-parsing").
package diagnostic

import "fmt"

// Span is a half-open byte range into the source text.
type Span struct {
	Start int
	End   int
}

// String implements fmt.Stringer.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Location pinpoints an operand inside a parsed module: the function and
// block it belongs to, and which operand position within the offending
// instruction. Used by CompatError (spec.md §6: "Report the first
// offending element with a human-readable location (function name, block
// name, operand position)").
type Location struct {
	Function string
	Block    string
	Operand  int
}

// String implements fmt.Stringer.
func (l Location) String() string {
	switch {
	case l.Function == "":
		return "<module>"
	case l.Block == "":
		return fmt.Sprintf("function %q", l.Function)
	case l.Operand < 0:
		return fmt.Sprintf("function %q, block %q", l.Function, l.Block)
	default:
		return fmt.Sprintf("function %q, block %q, operand %d", l.Function, l.Block, l.Operand)
	}
}
