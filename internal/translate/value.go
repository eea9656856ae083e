package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// LoadValue materializes an ir.Value into a single register, emitting
// loads or immediate-materialization as needed (spec.md §4.4). Wide values
// (64/128-bit) must go through LoadValuePair / LoadValueQuad instead.
func (c *Context) LoadValue(v ir.Value) (regalloc.VReg, error) {
	switch v.Kind {
	case ir.ValueLocal:
		loc, err := c.Location(v.Name)
		if err != nil {
			return 0, err
		}
		switch loc.Kind {
		case LocReg:
			return loc.Reg, nil
		case LocStack:
			rd, err := c.AllocTemp()
			if err != nil {
				return 0, err
			}
			c.Emit(regalloc.Instruction{Op: isa.OpLw, Rd: rd, Rs1: regalloc.FixedVReg(isa.RegFP), Imm: loc.StackOffset})
			return rd, nil
		case LocConst:
			rd, err := c.AllocTemp()
			if err != nil {
				return 0, err
			}
			c.emitLoadImmediate(rd, uint32(loc.ConstValue))
			return rd, nil
		default:
			return 0, unsupportedInstruction("load of a wide binding as a scalar")
		}
	case ir.ValueConstInt:
		rd, err := c.AllocTemp()
		if err != nil {
			return 0, err
		}
		c.emitLoadImmediate(rd, uint32(v.Int))
		return rd, nil
	case ir.ValueConstBool:
		rd, err := c.AllocTemp()
		if err != nil {
			return 0, err
		}
		if v.Bool {
			c.emitLoadImmediate(rd, 1)
		} else {
			c.emitLoadImmediate(rd, 0)
		}
		return rd, nil
	case ir.ValueNull:
		rd, err := c.AllocTemp()
		if err != nil {
			return 0, err
		}
		c.emitLoadImmediate(rd, 0)
		return rd, nil
	case ir.ValueUndef:
		// An undef's bit pattern is unobservable; zero is as valid as any
		// other choice and keeps codegen deterministic.
		rd, err := c.AllocTemp()
		if err != nil {
			return 0, err
		}
		c.emitLoadImmediate(rd, 0)
		return rd, nil
	default:
		return 0, unsupportedInstruction("load of value kind")
	}
}

// LoadValuePair materializes a 64-bit ir.Value as a (lo, hi) register pair.
func (c *Context) LoadValuePair(v ir.Value) (regalloc.VReg, regalloc.VReg, error) {
	switch v.Kind {
	case ir.ValueLocal:
		loc, err := c.Location(v.Name)
		if err != nil {
			return 0, 0, err
		}
		if loc.Kind != LocRegPair {
			return 0, 0, unsupportedInstruction("load pair of a non-pair binding")
		}
		return loc.Lo, loc.Hi, nil
	case ir.ValueConstInt:
		lo, err := c.AllocTemp()
		if err != nil {
			return 0, 0, err
		}
		hi, err := c.AllocTemp()
		if err != nil {
			return 0, 0, err
		}
		c.emitLoadImmediate(lo, uint32(v.Int))
		c.emitLoadImmediate(hi, uint32(v.Int>>32))
		return lo, hi, nil
	case ir.ValueUndef:
		lo, err := c.AllocTemp()
		if err != nil {
			return 0, 0, err
		}
		hi, err := c.AllocTemp()
		if err != nil {
			return 0, 0, err
		}
		c.emitLoadImmediate(lo, 0)
		c.emitLoadImmediate(hi, 0)
		return lo, hi, nil
	default:
		return 0, 0, unsupportedInstruction("load pair of value kind")
	}
}

// LoadValueQuad materializes a 128-bit ir.Value as a (r0,r1,r2,r3)
// register quad, little word first.
func (c *Context) LoadValueQuad(v ir.Value) (regalloc.VReg, regalloc.VReg, regalloc.VReg, regalloc.VReg, error) {
	switch v.Kind {
	case ir.ValueLocal:
		loc, err := c.Location(v.Name)
		if err != nil {
			return 0, 0, 0, 0, err
		}
		if loc.Kind != LocRegQuad {
			return 0, 0, 0, 0, unsupportedInstruction("load quad of a non-quad binding")
		}
		return loc.R0, loc.R1, loc.R2, loc.R3, nil
	case ir.ValueConstInt:
		words := [4]regalloc.VReg{}
		for i := range words {
			r, err := c.AllocTemp()
			if err != nil {
				return 0, 0, 0, 0, err
			}
			words[i] = r
			c.emitLoadImmediate(r, uint32(v.Int>>(32*uint(i))))
		}
		return words[0], words[1], words[2], words[3], nil
	default:
		return 0, 0, 0, 0, unsupportedInstruction("load quad of value kind")
	}
}

// paramWords is the number of 32-bit ABI words a parameter of type t
// occupies: one for a scalar or pointer, two for a 64-bit integer (lo,
// hi), four for a 128-bit integer (spec.md §6 ABI).
func paramWords(t ir.Type) int {
	switch typeWidth(t) {
	case 64:
		return 2
	case 128:
		return 4
	default:
		return 1
	}
}

// BindParameter binds a function parameter of type t to its ABI location,
// starting at wordIndex (a running count of ABI words consumed by earlier
// parameters, not a parameter index: a preceding 64-bit parameter consumes
// two words). A parameter whose words all fall within isa.ArgRegisters
// binds to the corresponding a0..a3 register(s) as a Reg/RegPair/RegQuad;
// one that doesn't fit arrives on the caller's stack at 4-byte stride
// above the frame pointer, one slot per word (spec.md §6 ABI). It returns
// the wordIndex for the next parameter.
func (c *Context) BindParameter(name string, wordIndex int, t ir.Type) int {
	words := paramWords(t)
	if wordIndex+words <= len(isa.ArgRegisters) {
		switch words {
		case 1:
			c.Bind(name, Reg(regalloc.FixedVReg(isa.ArgRegisters[wordIndex])))
		case 2:
			c.Bind(name, RegPair(
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex]),
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex+1]),
			))
		case 4:
			c.Bind(name, RegQuad(
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex]),
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex+1]),
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex+2]),
				regalloc.FixedVReg(isa.ArgRegisters[wordIndex+3]),
			))
		}
		return wordIndex + words
	}

	base := int32(wordIndex-len(isa.ArgRegisters)) * isa.WordSize
	if words == 1 {
		c.Bind(name, Stack(base))
		return wordIndex + words
	}

	// LocRegPair/LocRegQuad only name registers, so a wide stack-passed
	// parameter is reloaded into fresh temps once, up front, rather than
	// adding a stack-backed pair/quad location every later load site would
	// need to special-case.
	regs := make([]regalloc.VReg, words)
	for i := range regs {
		r, err := c.AllocTemp()
		if err != nil {
			// AllocTemp only fails past maxVirtualRegs, which parameters
			// (bound before anything else) reach only in a function with
			// hundreds of thousands of wide stack-passed parameters. name
			// is then left unbound, and its first use reports
			// UndefinedValue.
			return wordIndex + words
		}
		regs[i] = r
		c.Emit(regalloc.Instruction{Op: isa.OpLw, Rd: r, Rs1: regalloc.FixedVReg(isa.RegFP), Imm: base + int32(i)*isa.WordSize})
	}
	if words == 2 {
		c.Bind(name, RegPair(regs[0], regs[1]))
	} else {
		c.Bind(name, RegQuad(regs[0], regs[1], regs[2], regs[3]))
	}
	return wordIndex + words
}
