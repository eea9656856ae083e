package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// translateBinary dispatches a source arithmetic/bitwise instruction to its
// width-specific lowering (spec.md §4.5).
func translateBinary(c *Context, in *ir.Instruction) error {
	bits := in.Type.Width
	if in.Type.Kind != ir.KindInt {
		bits = 32
	}

	switch in.Op {
	case ir.OpAdd:
		if bits <= 32 {
			return translateSimple32(c, isa.OpAdd, in)
		}
		if bits == 64 {
			return translateAdd64(c, in)
		}
		return UnsupportedWidth(bits)
	case ir.OpSub:
		if bits <= 32 {
			return translateSimple32(c, isa.OpSub, in)
		}
		if bits == 64 {
			return translateSub64(c, in)
		}
		return UnsupportedWidth(bits)
	case ir.OpMul:
		if bits <= 32 {
			return translateSimple32(c, isa.OpMul, in)
		}
		if bits == 64 {
			return translateMul64(c, in)
		}
		return UnsupportedWidth(bits)
	case ir.OpUDiv:
		if bits > 32 {
			return UnsupportedWidth(bits)
		}
		return translateSimple32(c, isa.OpDivu, in)
	case ir.OpSDiv:
		if bits > 32 {
			return UnsupportedWidth(bits)
		}
		return translateSimple32(c, isa.OpDiv, in)
	case ir.OpURem:
		if bits > 32 {
			return UnsupportedWidth(bits)
		}
		return translateSimple32(c, isa.OpRemu, in)
	case ir.OpSRem:
		if bits > 32 {
			return UnsupportedWidth(bits)
		}
		return translateSimple32(c, isa.OpRem, in)
	case ir.OpAnd:
		return translateSimple32(c, isa.OpAnd, in)
	case ir.OpOr:
		return translateSimple32(c, isa.OpOr, in)
	case ir.OpXor:
		return translateSimple32(c, isa.OpXor, in)
	case ir.OpShl:
		return translateSimple32(c, isa.OpSll, in)
	case ir.OpLShr:
		return translateSimple32(c, isa.OpSrl, in)
	case ir.OpAShr:
		return translateSimple32(c, isa.OpSra, in)
	default:
		return unsupportedInstruction("binary op " + in.Op.String())
	}
}

// translateSimple32 covers every arithmetic/bitwise opcode whose target
// lowering is "load both operands, emit one register-register instruction,
// bind the destination temp" (spec.md §4.5 "Arithmetic / bitwise, width ≤
// 32").
func translateSimple32(c *Context, op isa.Opcode, in *ir.Instruction) error {
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
	c.Emit(regalloc.Instruction{Op: op, Rd: rd, Rs1: rs1, Rs2: rs2})
	c.Bind(in.Result, Reg(rd))
	return nil
}

// translateAdd64 lowers a 64-bit add to lo/hi register pairs with
// carry-propagation, per spec.md §4.5:
//
//	sum_lo = a_lo + b_lo
//	carry  = sum_lo <u a_lo
//	sum_hi = a_hi + b_hi + carry
func translateAdd64(c *Context, in *ir.Instruction) error {
	aLo, aHi, err := c.LoadValuePair(in.Lhs)
	if err != nil {
		return err
	}
	bLo, bHi, err := c.LoadValuePair(in.Rhs)
	if err != nil {
		return err
	}

	sumLo, err := c.AllocTemp()
	if err != nil {
		return err
	}
	carry, err := c.AllocTemp()
	if err != nil {
		return err
	}
	tmp, err := c.AllocTemp()
	if err != nil {
		return err
	}
	sumHi, err := c.AllocTemp()
	if err != nil {
		return err
	}

	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: sumLo, Rs1: aLo, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: carry, Rs1: sumLo, Rs2: aLo})
	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: tmp, Rs1: aHi, Rs2: bHi})
	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: sumHi, Rs1: tmp, Rs2: carry})

	c.Bind(in.Result, RegPair(sumLo, sumHi))
	return nil
}

// translateSub64 lowers a 64-bit subtract with a borrow analog of
// translateAdd64: borrow = a_lo <u b_lo; diff_hi = a_hi - b_hi - borrow.
func translateSub64(c *Context, in *ir.Instruction) error {
	aLo, aHi, err := c.LoadValuePair(in.Lhs)
	if err != nil {
		return err
	}
	bLo, bHi, err := c.LoadValuePair(in.Rhs)
	if err != nil {
		return err
	}

	diffLo, err := c.AllocTemp()
	if err != nil {
		return err
	}
	borrow, err := c.AllocTemp()
	if err != nil {
		return err
	}
	tmp, err := c.AllocTemp()
	if err != nil {
		return err
	}
	diffHi, err := c.AllocTemp()
	if err != nil {
		return err
	}

	c.Emit(regalloc.Instruction{Op: isa.OpSub, Rd: diffLo, Rs1: aLo, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpSltu, Rd: borrow, Rs1: aLo, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpSub, Rd: tmp, Rs1: aHi, Rs2: bHi})
	c.Emit(regalloc.Instruction{Op: isa.OpSub, Rd: diffHi, Rs1: tmp, Rs2: borrow})

	c.Bind(in.Result, RegPair(diffLo, diffHi))
	return nil
}

// translateMul64 lowers a 64-bit multiply as the four 32x32 partial
// products of schoolbook long multiplication, summed with their carry
// propagated into the result's high word (spec.md §4.5):
//
//	lo      = a_lo*b_lo truncated to 32 bits
//	carry   = high 32 bits of a_lo*b_lo          (OpMulhu)
//	hi      = a_lo*b_hi + a_hi*b_lo + carry, mod 2^32
//
// a_hi*b_hi is never computed: it only ever contributes to bits [64:128),
// which a 64-bit result discards. This is exact modulo 2^64.
func translateMul64(c *Context, in *ir.Instruction) error {
	aLo, aHi, err := c.LoadValuePair(in.Lhs)
	if err != nil {
		return err
	}
	bLo, bHi, err := c.LoadValuePair(in.Rhs)
	if err != nil {
		return err
	}

	lo, err := c.AllocTemp()
	if err != nil {
		return err
	}
	carry, err := c.AllocTemp()
	if err != nil {
		return err
	}
	p1, err := c.AllocTemp()
	if err != nil {
		return err
	}
	p2, err := c.AllocTemp()
	if err != nil {
		return err
	}
	mid, err := c.AllocTemp()
	if err != nil {
		return err
	}
	hi, err := c.AllocTemp()
	if err != nil {
		return err
	}

	c.Emit(regalloc.Instruction{Op: isa.OpMul, Rd: lo, Rs1: aLo, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpMulhu, Rd: carry, Rs1: aLo, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpMul, Rd: p1, Rs1: aLo, Rs2: bHi})
	c.Emit(regalloc.Instruction{Op: isa.OpMul, Rd: p2, Rs1: aHi, Rs2: bLo})
	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: mid, Rs1: p1, Rs2: p2})
	c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: hi, Rs1: mid, Rs2: carry})

	c.Bind(in.Result, RegPair(lo, hi))
	return nil
}
