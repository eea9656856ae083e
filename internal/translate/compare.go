package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// translateICmp synthesizes every compare predicate from the target ISA's
// two primitives (signed/unsigned less-than), per spec.md §4.5:
//
//	eq:  xor tmp, a, b; sltiu rd, tmp, 1      (rd = 1 iff a == b)
//	ne:  xor tmp, a, b; sltu  rd, zero, tmp   (rd = 1 iff a != b)
//	slt/ult: direct
//	sgt/ugt: swapped slt/ult
//	sle/ule: sgt/ugt then invert with xor against an addi-loaded 1
//	sge/uge: slt/ult then invert with xor against an addi-loaded 1
func translateICmp(c *Context, in *ir.Instruction) error {
	rs1, err := c.LoadValue(in.Lhs)
	if err != nil {
		return err
	}
	rs2, err := c.LoadValue(in.Rhs)
	if err != nil {
		return err
	}
	rd, err := c.AllocTemp()
	if err != nil {
		return err
	}

	switch in.Pred {
	case ir.Eq:
		tmp, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpXor, Rd: tmp, Rs1: rs1, Rs2: rs2})
		c.Emit(regalloc.Instruction{Op: isa.OpSltiu, Rd: rd, Rs1: tmp, Imm: 1})
	case ir.Ne:
		tmp, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpXor, Rd: tmp, Rs1: rs1, Rs2: rs2})
		c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: rd, Rs1: regalloc.FixedVReg(isa.RegZero), Rs2: tmp})
	case ir.Slt:
		c.Emit(regalloc.Instruction{Op: isa.OpSlt, Rd: rd, Rs1: rs1, Rs2: rs2})
	case ir.Ult:
		c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: rd, Rs1: rs1, Rs2: rs2})
	case ir.Sgt:
		c.Emit(regalloc.Instruction{Op: isa.OpSlt, Rd: rd, Rs1: rs2, Rs2: rs1})
	case ir.Ugt:
		c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: rd, Rs1: rs2, Rs2: rs1})
	case ir.Sle:
		if err := emitNotSlt(c, rd, rs2, rs1); err != nil {
			return err
		}
	case ir.Ule:
		if err := emitNotSltu(c, rd, rs2, rs1); err != nil {
			return err
		}
	case ir.Sge:
		if err := emitNotSlt(c, rd, rs1, rs2); err != nil {
			return err
		}
	case ir.Uge:
		if err := emitNotSltu(c, rd, rs1, rs2); err != nil {
			return err
		}
	default:
		return unsupportedInstruction("compare predicate " + in.Pred.String())
	}

	c.Bind(in.Result, Reg(rd))
	return nil
}

// emitNotSlt computes rd = !(rs1 < rs2) signed, i.e. sle(rs2,rs1) when
// called with swapped operands, by computing slt into rd then inverting
// its low bit with xor against an immediate 1 materialized via addi.
func emitNotSlt(c *Context, rd, rs1, rs2 regalloc.VReg) error {
	c.Emit(regalloc.Instruction{Op: isa.OpSlt, Rd: rd, Rs1: rs1, Rs2: rs2})
	return emitInvertBit(c, rd)
}

func emitNotSltu(c *Context, rd, rs1, rs2 regalloc.VReg) error {
	c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: rd, Rs1: rs1, Rs2: rs2})
	return emitInvertBit(c, rd)
}

// emitInvertBit flips rd's low bit in place: rd = rd xor 1. Used to turn a
// slt/sltu result into its complementary predicate.
func emitInvertBit(c *Context, rd regalloc.VReg) error {
	one, err := c.AllocTemp()
	if err != nil {
		return err
	}
	c.Emit(regalloc.Instruction{Op: isa.OpAddi, Rd: one, Rs1: regalloc.FixedVReg(isa.RegZero), Imm: 1})
	c.Emit(regalloc.Instruction{Op: isa.OpXor, Rd: rd, Rs1: rd, Rs2: one})
	return nil
}
