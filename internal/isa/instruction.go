package isa

import "fmt"

// Instruction is a single fixed-width target-ISA instruction. Not every
// field is meaningful for every opcode; unused fields are zero.
//
// Rd/Rs1/Rs2 index into the physical register file. Imm is a signed
// immediate whose meaning depends on Opcode: a branch/jump offset in bytes
// (a multiple of Size) for OpJal/OpBeq/OpBne, a sign-extended
// constant for OpAddi/OpSltiu, an unsigned upper-20 field for OpLui, or a
// byte offset for loads/stores.
type Instruction struct {
	Op  Opcode
	Rd  Register
	Rs1 Register
	Rs2 Register
	Imm int32

	// CallTarget, when non-empty, names the callee function for OpJal
	// instructions emitted by a Call translation. It is resolved by the
	// driver against the module's function table rather than by the
	// label-fixup mechanism used for intra-function branches.
	CallTarget string
}

// String implements fmt.Stringer for debugging/disassembly.
func (in Instruction) String() string {
	switch in.Op {
	case OpAdd, OpSub, OpMul, OpMulhu, OpDivu, OpDiv, OpRemu, OpRem,
		OpAnd, OpOr, OpXor, OpSll, OpSrl, OpSra, OpSlt, OpSltu:
		return fmt.Sprintf("%s %s, %s, %s", in.Op, in.Rd, in.Rs1, in.Rs2)
	case OpAddi, OpSltiu:
		return fmt.Sprintf("%s %s, %s, %d", in.Op, in.Rd, in.Rs1, in.Imm)
	case OpLui:
		return fmt.Sprintf("%s %s, %d", in.Op, in.Rd, in.Imm)
	case OpLw, OpLh, OpLhu, OpLb, OpLbu:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op, in.Rd, in.Imm, in.Rs1)
	case OpSw, OpSh, OpSb:
		return fmt.Sprintf("%s %s, %d(%s)", in.Op, in.Rs2, in.Imm, in.Rs1)
	case OpJal:
		if in.CallTarget != "" {
			return fmt.Sprintf("jal %s, %s", in.Rd, in.CallTarget)
		}
		return fmt.Sprintf("jal %s, %d", in.Rd, in.Imm)
	case OpJalr:
		return fmt.Sprintf("jalr %s, %s, %d", in.Rd, in.Rs1, in.Imm)
	case OpBeq, OpBne:
		return fmt.Sprintf("%s %s, %s, %d", in.Op, in.Rs1, in.Rs2, in.Imm)
	case OpRet:
		return "ret"
	case OpNop:
		return "nop"
	default:
		return "?"
	}
}

// Size is the fixed width, in bytes, of every encoded instruction.
const Size = 8
