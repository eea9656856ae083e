package regalloc

import "github.com/zkirc-project/zkirc/internal/isa"

// Rewrite lowers a virtual-register instruction stream into the final
// physical-register isa.Instruction stream (spec.md §4.6
// "Spill-rewriter"). Every operand the allocator kept in a register
// passes through unchanged; every spilled operand is rewritten as a
// reload into a scratch register before the instruction (for a use) or a
// store from a scratch register after it (for a def), using the two
// registers isa.ScratchRegisters reserves for exactly this purpose.
// frameBase is the frame size internal/translate already claimed via
// AllocStack; spill slots are placed immediately below it.
//
// Inserted reload/store instructions grow the stream, which would
// invalidate the branch offsets internal/translate.ResolveLabels already
// computed against the pre-allocation instruction count. Rewrite tracks
// where each original instruction's core opcode lands in the output and
// repatches every branch/jump immediate against that new numbering once
// the whole function has been rewritten.
func Rewrite(instrs []Instruction, alloc *Allocation, frameBase int32) ([]isa.Instruction, error) {
	coreIndex := make([]int, len(instrs)+1)

	var out []isa.Instruction
	for i, in := range instrs {
		defsRd, usesRs1, usesRs2 := fieldsUsed(in.Op)
		scratch := isa.ScratchRegisters[:]
		used := 0
		take := func() (isa.Register, error) {
			if used >= len(scratch) {
				return 0, outOfScratch()
			}
			r := scratch[used]
			used++
			return r, nil
		}

		var rs1, rs2 isa.Register
		if usesRs1 {
			r, spilled, off := resolve(in.Rs1, alloc, frameBase)
			if spilled {
				s, err := take()
				if err != nil {
					return nil, err
				}
				out = append(out, isa.Instruction{Op: isa.OpLw, Rd: s, Rs1: isa.RegFP, Imm: off})
				rs1 = s
			} else {
				rs1 = r
			}
		}
		if usesRs2 {
			r, spilled, off := resolve(in.Rs2, alloc, frameBase)
			if spilled {
				s, err := take()
				if err != nil {
					return nil, err
				}
				out = append(out, isa.Instruction{Op: isa.OpLw, Rd: s, Rs1: isa.RegFP, Imm: off})
				rs2 = s
			} else {
				rs2 = r
			}
		}

		var rd isa.Register
		var rdSpillOff int32
		rdIsSpilled := false
		if defsRd {
			r, spilled, off := resolve(in.Rd, alloc, frameBase)
			if spilled {
				// The core op has already consumed rs1/rs2 by the time it
				// writes rd, so the first scratch register is free again:
				// reusing it (rather than calling take()) keeps a plain
				// three-operand spill within the two scratch registers
				// isa.ScratchRegisters reserves (spec.md §4.6).
				rd = scratch[0]
				rdIsSpilled = true
				rdSpillOff = off
			} else {
				rd = r
			}
		}

		coreIndex[i] = len(out)
		out = append(out, isa.Instruction{Op: in.Op, Rd: rd, Rs1: rs1, Rs2: rs2, Imm: in.Imm, CallTarget: in.CallTarget})

		if rdIsSpilled {
			out = append(out, isa.Instruction{Op: isa.OpSw, Rs1: isa.RegFP, Rs2: rd, Imm: rdSpillOff})
		}
	}
	coreIndex[len(instrs)] = len(out)

	for i, in := range instrs {
		if !in.Op.IsBranch() {
			continue
		}
		oldTarget := i + int(in.Imm)/isa.Size
		if oldTarget < 0 || oldTarget >= len(coreIndex) {
			return nil, spillFailed("branch target fell outside the instruction stream during spill rewrite")
		}
		newIdx := coreIndex[i]
		newTarget := coreIndex[oldTarget]
		out[newIdx].Imm = int32(newTarget-newIdx) * isa.Size
	}

	return out, nil
}

// resolve returns either the physical register v was assigned, or (if it
// was spilled) its frame-pointer-relative offset.
func resolve(v VReg, alloc *Allocation, frameBase int32) (r isa.Register, spilled bool, offset int32) {
	if v.IsFixed() {
		return v.Fixed(), false, 0
	}
	if reg, ok := alloc.Register(v); ok {
		return reg, false, 0
	}
	off, _ := alloc.SpillOffset(v, frameBase)
	return 0, true, off
}
