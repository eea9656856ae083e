package regalloc

import "github.com/zkirc-project/zkirc/internal/isa"

// Instruction mirrors isa.Instruction but references registers through
// VReg instead of a physical isa.Register, since internal/translate does
// not yet know where a virtual register will live. Rewrite() turns a
// stream of these into the final isa.Instruction stream.
type Instruction struct {
	Op  isa.Opcode
	Rd  VReg
	Rs1 VReg
	Rs2 VReg
	Imm int32

	CallTarget string
}

// fieldsUsed reports which of Rd/Rs1/Rs2 this opcode actually reads or
// writes. Defs, Uses, and Rewrite all key off this single table so the
// three never drift out of sync with each other.
func fieldsUsed(op isa.Opcode) (defsRd, usesRs1, usesRs2 bool) {
	switch op {
	case isa.OpSw, isa.OpSh, isa.OpSb, isa.OpBeq, isa.OpBne:
		return false, true, true
	case isa.OpRet, isa.OpNop:
		return false, false, false
	case isa.OpLui:
		return true, false, false
	case isa.OpJal:
		return true, false, false
	case isa.OpAddi, isa.OpSltiu, isa.OpLw, isa.OpLh, isa.OpLhu, isa.OpLb, isa.OpLbu, isa.OpJalr:
		return true, true, false
	default:
		return true, true, true
	}
}

// Defs returns the virtual register, if any, this instruction writes.
// OpJal with a fixed zero destination discards its link and defines
// nothing.
func (in Instruction) Defs() []VReg {
	defsRd, _, _ := fieldsUsed(in.Op)
	if !defsRd {
		return nil
	}
	if in.Op == isa.OpJal && in.Rd.IsFixed() && in.Rd.Fixed() == isa.RegZero {
		return nil
	}
	return []VReg{in.Rd}
}

// Uses returns the virtual register(s) this instruction reads.
func (in Instruction) Uses() []VReg {
	_, usesRs1, usesRs2 := fieldsUsed(in.Op)
	var uses []VReg
	if usesRs1 {
		uses = append(uses, in.Rs1)
	}
	if usesRs2 {
		uses = append(uses, in.Rs2)
	}
	return uses
}
