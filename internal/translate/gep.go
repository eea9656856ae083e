package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// translateGEP flattens the index list against the indexed type and sums
// scaled indices into the base pointer. Constant indices fold at
// translation time; variable indices emit a MUL/ADD pair (spec.md §4.5
// "GetElementPtr").
func translateGEP(c *Context, in *ir.Instruction) error {
	base, err := c.LoadValue(in.Ptr)
	if err != nil {
		return err
	}

	elemType := in.Type
	acc := base
	var constOffset int64

	for i, idx := range in.Indices {
		// The first index steps over whole in.Type objects; each later
		// index steps into the aggregate the previous one selected.
		if i > 0 {
			switch elemType.Kind {
			case ir.KindArray:
				elemType = *elemType.Elem
			case ir.KindStruct:
				if idx.Kind != ir.ValueConstInt || idx.Int < 0 || idx.Int >= int64(len(elemType.Fields)) {
					return unsupportedInstruction("getelementptr struct field index must be an in-range constant")
				}
				for _, f := range elemType.Fields[:idx.Int] {
					constOffset += f.SizeInBytes()
				}
				elemType = elemType.Fields[idx.Int]
				continue
			}
		}
		elemSize := elemType.SizeInBytes()
		if elemSize == 0 {
			elemSize = isa.WordSize
		}

		if idx.Kind == ir.ValueConstInt {
			constOffset += idx.Int * elemSize
			continue
		}

		idxReg, err := c.LoadValue(idx)
		if err != nil {
			return err
		}
		scaleReg, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.emitLoadImmediate(scaleReg, uint32(elemSize))

		scaled, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpMul, Rd: scaled, Rs1: idxReg, Rs2: scaleReg})

		next, err := c.AllocTemp()
		if err != nil {
			return err
		}
		c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: next, Rs1: acc, Rs2: scaled})
		acc = next
	}

	if constOffset != 0 {
		if constOffset >= isa.ImmSignedMin && constOffset <= isa.ImmSignedMax {
			next, err := c.AllocTemp()
			if err != nil {
				return err
			}
			c.Emit(regalloc.Instruction{Op: isa.OpAddi, Rd: next, Rs1: acc, Imm: int32(constOffset)})
			acc = next
		} else {
			offReg, err := c.AllocTemp()
			if err != nil {
				return err
			}
			c.emitLoadImmediate(offReg, uint32(constOffset))
			next, err := c.AllocTemp()
			if err != nil {
				return err
			}
			c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: next, Rs1: acc, Rs2: offReg})
			acc = next
		}
	}

	c.Bind(in.Result, Reg(acc))
	return nil
}
