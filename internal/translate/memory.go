package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// translateLoad lowers Load by operand width: i8/i16 use byte/half loads
// (zero-extending per spec.md §4.5's covered-subset default), i32/ptr use
// a word load, i64 loads two words little-endian (spec.md §4.5
// "Load / Store").
func translateLoad(c *Context, in *ir.Instruction) error {
	base, err := c.LoadValue(in.Ptr)
	if err != nil {
		return err
	}

	width := typeWidth(in.Type)
	switch {
	case in.Type.Kind == ir.KindPtr || width == 32:
		rd, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpLw, Rd: rd, Rs1: base})
		c.Bind(in.Result, Reg(rd))
		return nil
	case width == 16:
		rd, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpLhu, Rd: rd, Rs1: base})
		c.Bind(in.Result, Reg(rd))
		return nil
	case width == 8 || width == 1:
		rd, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpLbu, Rd: rd, Rs1: base})
		c.Bind(in.Result, Reg(rd))
		return nil
	case width == 64:
		lo, err := c.AllocTemp()
		if err != nil {
			return err
		}
		hi, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpLw, Rd: lo, Rs1: base, Imm: 0})
		c.Emit(regalloc.Instruction{Op: isa.OpLw, Rd: hi, Rs1: base, Imm: isa.WordSize})
		c.Bind(in.Result, RegPair(lo, hi))
		return nil
	default:
		return UnsupportedWidth(width)
	}
}

// translateStore lowers Store symmetrically to translateLoad.
func translateStore(c *Context, in *ir.Instruction) error {
	base, err := c.LoadValue(in.Ptr)
	if err != nil {
		return err
	}

	width := typeWidth(in.Type)
	switch {
	case in.Type.Kind == ir.KindPtr || width == 32:
		rs2, err := c.LoadValue(in.Value)
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpSw, Rs1: base, Rs2: rs2})
		return nil
	case width == 16:
		rs2, err := c.LoadValue(in.Value)
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpSh, Rs1: base, Rs2: rs2})
		return nil
	case width == 8 || width == 1:
		rs2, err := c.LoadValue(in.Value)
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpSb, Rs1: base, Rs2: rs2})
		return nil
	case width == 64:
		lo, hi, err := c.LoadValuePair(in.Value)
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpSw, Rs1: base, Rs2: lo, Imm: 0})
		c.Emit(regalloc.Instruction{Op: isa.OpSw, Rs1: base, Rs2: hi, Imm: isa.WordSize})
		return nil
	default:
		return UnsupportedWidth(width)
	}
}

// translateAlloca reserves size_in_bytes(ty) on the frame and binds the
// result to a register holding fp + offset (spec.md §4.5 "Alloca").
func translateAlloca(c *Context, in *ir.Instruction) error {
	size := int32(in.Type.SizeInBytes())
	if size == 0 {
		size = isa.WordSize
	}
	offset := c.AllocStack(size)

	rd, err := c.AllocTemp()
	if err != nil {
		return err
	}
	c.Emit(regalloc.Instruction{Op: isa.OpAddi, Rd: rd, Rs1: regalloc.FixedVReg(isa.RegFP), Imm: offset})
	c.Bind(in.Result, Reg(rd))
	return nil
}

func typeWidth(t ir.Type) int64 {
	if t.Kind == ir.KindInt {
		return t.Width
	}
	return 32
}
