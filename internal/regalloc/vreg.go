// Package regalloc implements the linear-scan register allocator: it
// consumes the virtual-register instruction stream internal/translate
// produces and rewrites it into a physical-register isa.Instruction
// stream, spilling to the stack frame where the virtual pool outruns the
// physical one (spec.md §4.6).
package regalloc

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/isa"
)

// VReg is a register reference in the pre-allocation instruction stream:
// either a virtual register minted by internal/translate's naive
// pre-allocator, or a physical register fixed by the ABI (zero, ra, sp,
// fp, a0..a3, the spill rewriter's scratch pair) that the allocator must
// never reassign.
//
// This mirrors wazero's backend/regalloc.VReg, which packs a RealReg into
// the same integer as a virtual id; here a single high bit discriminates
// "this is already a fixed physical register" from "this is a virtual id
// awaiting assignment", per spec.md §9's Open Question resolution that
// alloc_temp mints virtual registers and only the linear
// scan allocator performs physical assignment.
type VReg uint32

const fixedBit VReg = 1 << 31

// FixedVReg wraps a physical register the allocator must pass through
// unchanged.
func FixedVReg(r isa.Register) VReg {
	return fixedBit | VReg(r)
}

// VirtualVReg wraps a virtual register id minted by the naive
// pre-allocator. Ids are local to one function.
func VirtualVReg(id uint32) VReg {
	return VReg(id)
}

// IsFixed reports whether v is already a physical register.
func (v VReg) IsFixed() bool { return v&fixedBit != 0 }

// Fixed returns the physical register v wraps. Only valid if IsFixed.
func (v VReg) Fixed() isa.Register { return isa.Register(v &^ fixedBit) }

// ID returns the virtual register id v wraps. Only valid if !IsFixed.
func (v VReg) ID() uint32 { return uint32(v &^ fixedBit) }

// String implements fmt.Stringer for debugging.
func (v VReg) String() string {
	if v.IsFixed() {
		return v.Fixed().String()
	}
	return fmt.Sprintf("v%d", v.ID())
}
