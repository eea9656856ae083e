package ir

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/diagnostic"
)

// LexError is returned when the lexer encounters input it cannot
// tokenize (spec.md §7: "malformed or unrecognized input character").
type LexError struct {
	Offset int
	Char   rune
}

// Error implements error.
func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: unexpected character %q", e.Offset, e.Char)
}

// ParseErrorKind enumerates the ways parsing can fail (spec.md §4.2).
type ParseErrorKind int

const (
	UnexpectedToken ParseErrorKind = iota
	UnexpectedEOF
	InvalidType
	DuplicateLabel
	UnresolvedReference
)

// String implements fmt.Stringer.
func (k ParseErrorKind) String() string {
	switch k {
	case UnexpectedToken:
		return "UnexpectedToken"
	case UnexpectedEOF:
		return "UnexpectedEof"
	case InvalidType:
		return "InvalidType"
	case DuplicateLabel:
		return "DuplicateLabel"
	case UnresolvedReference:
		return "UnresolvedReference"
	default:
		return "Unknown"
	}
}

// ParseError is returned by Parse on any grammar violation. It is fatal:
// the parser never returns a partial Module alongside an error (spec.md
// §4.2: "Does not partially return on failure").
type ParseError struct {
	Kind    ParseErrorKind
	Span    diagnostic.Span
	Message string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (%s) at %s: %s", e.Kind, e.Span, e.Message)
}
