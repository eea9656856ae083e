package regalloc

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error is the RegAllocError taxonomy from spec.md §7: OutOfRegisters
// (scratch exhaustion during the spill rewrite, a bug class rather than a
// normal failure) and SpillFailed (the frame would grow past a
// target-defined maximum).
type Error struct {
	Kind   string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func outOfScratch() error {
	return errors.WithStack(&Error{Kind: "OutOfRegisters", Detail: "spill rewriter exhausted its two reserved scratch registers"})
}

func spillFailed(detail string) error {
	return errors.WithStack(&Error{Kind: "SpillFailed", Detail: detail})
}
