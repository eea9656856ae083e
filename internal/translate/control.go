package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// translateRet lowers Ret: if a value is present it is materialized into
// a0 (or a0/a1 for 64-bit), then the target return instruction is emitted
// (spec.md §4.5 "Ret").
func translateRet(c *Context, in *ir.Instruction) error {
	if !in.HasRetValue {
		c.Emit(regalloc.Instruction{Op: isa.OpRet})
		return nil
	}

	if typeWidth(in.Type) == 64 {
		lo, hi, err := c.LoadValuePair(in.Value)
		if err != nil {
			return err
		}
		moveIfNeeded(c, regalloc.FixedVReg(isa.RegA0), lo)
		moveIfNeeded(c, regalloc.FixedVReg(isa.RegA1), hi)
		c.Emit(regalloc.Instruction{Op: isa.OpRet})
		return nil
	}

	r, err := c.LoadValue(in.Value)
	if err != nil {
		return err
	}
	moveIfNeeded(c, regalloc.FixedVReg(isa.RegA0), r)
	c.Emit(regalloc.Instruction{Op: isa.OpRet})
	return nil
}

// moveIfNeeded emits a register-to-register move unless src already is
// dst, so callers don't pay for a redundant ADD dst,dst,zero.
func moveIfNeeded(c *Context, dst, src regalloc.VReg) {
	if dst == src {
		return
	}
	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: dst, Rs1: src, Rs2: regalloc.FixedVReg(isa.RegZero)})
}

// translateBr lowers an unconditional branch: any phi moves the
// destination block expects from this predecessor are emitted first
// (there is only one successor, so no critical edge to split), then a
// plain jump (rd=zero discards the link) plus a fixup to the destination
// label (spec.md §4.5 "Br / CondBr", "Phi").
func translateBr(c *Context, in *ir.Instruction, fn *ir.Function, fromBlock string) error {
	if err := emitPhiMoves(c, fn, fromBlock, in.Dest); err != nil {
		return err
	}
	c.Emit(regalloc.Instruction{Op: isa.OpJal, Rd: regalloc.FixedVReg(isa.RegZero)})
	c.AddFixup(in.Dest)
	return nil
}

// translateCondBr lowers a conditional branch as BNE cond,zero,edge_label
// followed by the false path's phi moves and an unconditional jump to
// false_label, with the true path's phi moves and jump hanging off a
// synthetic edge label. A conditional branch has two successors, so its
// destinations' phi moves cannot both run unconditionally before
// branching — splitting the true edge into its own block is the standard
// way to resolve that without miscopying the untaken path's values
// (spec.md §4.5 "CondBr", "Phi").
func translateCondBr(c *Context, in *ir.Instruction, fn *ir.Function, fromBlock string) error {
	cond, err := c.LoadValue(in.Cond)
	if err != nil {
		return err
	}

	edgeLabel := c.nextEdgeLabel()
	c.Emit(regalloc.Instruction{Op: isa.OpBne, Rs1: cond, Rs2: regalloc.FixedVReg(isa.RegZero)})
	c.AddFixup(edgeLabel)

	if err := emitPhiMoves(c, fn, fromBlock, in.FalseDest); err != nil {
		return err
	}
	c.Emit(regalloc.Instruction{Op: isa.OpJal, Rd: regalloc.FixedVReg(isa.RegZero)})
	c.AddFixup(in.FalseDest)

	c.StartBlock(edgeLabel)
	if err := emitPhiMoves(c, fn, fromBlock, in.TrueDest); err != nil {
		return err
	}
	c.Emit(regalloc.Instruction{Op: isa.OpJal, Rd: regalloc.FixedVReg(isa.RegZero)})
	c.AddFixup(in.TrueDest)
	return nil
}

// translateCall lowers Call: the first four arguments go into a0..a3, the
// rest onto the stack at 4-byte stride above the stack pointer; the callee
// is resolved by name and reached with a branch-and-link; the result (if
// any) comes back in a0 (or a0/a1 for 64-bit) (spec.md §4.5 "Call", §6
// ABI).
func translateCall(c *Context, in *ir.Instruction) error {
	for i, arg := range in.Args {
		r, err := c.LoadValue(arg)
		if err != nil {
			return err
		}
		if i < len(isa.ArgRegisters) {
			moveIfNeeded(c, regalloc.FixedVReg(isa.ArgRegisters[i]), r)
			continue
		}
		offset := int32(i-len(isa.ArgRegisters)) * isa.WordSize
		c.Emit(regalloc.Instruction{Op: isa.OpSw, Rs1: regalloc.FixedVReg(isa.RegSP), Rs2: r, Imm: offset})
	}

	c.Emit(regalloc.Instruction{Op: isa.OpJal, Rd: regalloc.FixedVReg(isa.RegRA), CallTarget: in.Callee})

	if in.Result == "" {
		return nil
	}
	if typeWidth(in.RetType) == 64 {
		c.Bind(in.Result, RegPair(regalloc.FixedVReg(isa.RegA0), regalloc.FixedVReg(isa.RegA1)))
		return nil
	}
	c.Bind(in.Result, Reg(regalloc.FixedVReg(isa.RegA0)))
	return nil
}
