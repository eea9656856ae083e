package regalloc

import "github.com/zkirc-project/zkirc/internal/isa"

// Run is the package's single entry point for driver code: build live
// intervals, run linear scan, then rewrite the virtual-register stream
// into its final physical-register form (spec.md §4.6 end-to-end).
// frameBase is the byte size of the frame internal/translate's Context
// already claimed via AllocStack; spill slots are appended below it, and
// the function's total frame size (frameBase plus spill bytes) is
// returned alongside the rewritten stream.
func Run(instrs []Instruction, frameBase int32) ([]isa.Instruction, int32, error) {
	intervals := BuildIntervals(instrs)
	alloc, err := Allocate(intervals)
	if err != nil {
		return nil, 0, err
	}
	out, err := Rewrite(instrs, alloc, frameBase)
	if err != nil {
		return nil, 0, err
	}
	return out, frameBase + alloc.FrameSize(), nil
}
