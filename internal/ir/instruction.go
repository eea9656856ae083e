package ir

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/diagnostic"
)

// Opcode is the source-IR instruction's tagged-variant discriminant
// (spec.md §3).
type Opcode byte

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpUDiv
	OpSDiv
	OpURem
	OpSRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpLShr
	OpAShr
	OpICmp
	OpLoad
	OpStore
	OpAlloca
	OpRet
	OpBr
	OpCondBr
	OpCall
	OpPhi
	OpGetElementPtr
)

var opcodeNames = [...]string{
	"add", "sub", "mul", "udiv", "sdiv", "urem", "srem",
	"and", "or", "xor", "shl", "lshr", "ashr",
	"icmp", "load", "store", "alloca",
	"ret", "br", "condbr", "call", "phi", "getelementptr",
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if int(o) < len(opcodeNames) {
		return opcodeNames[o]
	}
	return "unknown"
}

// ICmpPredicate is the comparison predicate carried by an OpICmp
// instruction (spec.md §3).
type ICmpPredicate byte

const (
	Eq ICmpPredicate = iota
	Ne
	Slt
	Sle
	Sgt
	Sge
	Ult
	Ule
	Ugt
	Uge
)

var predicateNames = [...]string{"eq", "ne", "slt", "sle", "sgt", "sge", "ult", "ule", "ugt", "uge"}

// String implements fmt.Stringer.
func (p ICmpPredicate) String() string {
	if int(p) < len(predicateNames) {
		return predicateNames[p]
	}
	return "unknown"
}

// Signed reports whether p compares operands as signed integers. eq/ne
// are neither signed nor unsigned but are grouped with the unsigned
// synthesis rules in internal/translate (spec.md §4.5).
func (p ICmpPredicate) Signed() bool {
	switch p {
	case Slt, Sle, Sgt, Sge:
		return true
	default:
		return false
	}
}

// PhiIncoming is one (value, predecessor) pair of an OpPhi instruction.
type PhiIncoming struct {
	Value Value
	Block string
}

// Instruction is a flattened representation of every source-IR
// instruction variant (spec.md §3). Go has no sum types, so — following
// the teacher's ssa.Instruction — every field is populated only for the
// Opcode(s) that use it; the rest stay at zero value.
type Instruction struct {
	Op   Opcode
	Span diagnostic.Span

	// Result is the SSA name this instruction binds, or "" for
	// non-producing instructions (Store, Ret, Br, CondBr).
	Result string
	// Type is the operand type for binary/memory/alloca ops, or the
	// pointee type for GetElementPtr.
	Type Type

	Lhs, Rhs Value // arithmetic, bitwise, icmp
	Pred     ICmpPredicate

	Ptr   Value // Load, Store, GetElementPtr
	Value Value // Store (value to store), Ret (value, if any)
	HasRetValue bool

	Dest                string // Br
	Cond                Value  // CondBr
	TrueDest, FalseDest string // CondBr

	Callee  string // Call
	Args    []Value
	RetType Type

	Incoming []PhiIncoming // Phi

	Indices []Value // GetElementPtr
}

// IsTerminator reports whether this instruction ends a basic block
// (spec.md §3: Ret, Br, CondBr are terminators; nothing else is).
func (i *Instruction) IsTerminator() bool {
	switch i.Op {
	case OpRet, OpBr, OpCondBr:
		return true
	default:
		return false
	}
}

// HasResult reports whether this instruction binds an SSA name.
func (i *Instruction) HasResult() bool {
	return i.Result != ""
}

// String implements fmt.Stringer for debug printing.
func (i *Instruction) String() string {
	if i.HasResult() {
		return fmt.Sprintf("%%%s = %s", i.Result, i.Op)
	}
	return i.Op.String()
}
