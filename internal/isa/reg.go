// Package isa defines the frozen target-ISA dependency: the register file,
// opcode set, and binary encoding of the 32-register, 32-bit-word machine
// that internal/translate, internal/regalloc, and internal/emit all target.
//
// This package is intentionally small and stable. The rest of the compiler
// treats it the way the spec treats the real target ISA: as an injected,
// frozen contract rather than something the translator gets to redesign.
package isa

import "fmt"

// Register is a physical register index in the target machine's 32-entry,
// 32-bit-wide general purpose register file.
type Register uint8

// NumRegisters is the size of the physical register file.
const NumRegisters = 32

// Named physical registers, following the RISC-V-flavored convention the
// reference translation context assumes (zero, ra/fp/sp, a0..a3, t0..t11,
// s0..s7).
const (
	RegZero Register = 0
	RegRA   Register = 1
	RegSP   Register = 2
	RegFP   Register = 3

	RegA0 Register = 4
	RegA1 Register = 5
	RegA2 Register = 6
	RegA3 Register = 7

	RegT0 Register = 8
	RegT1 Register = 9
	RegT2 Register = 10
	RegT3 Register = 11
	RegT4 Register = 12
	RegT5 Register = 13
	RegT6 Register = 14
	RegT7 Register = 15

	RegS0 Register = 16
	RegS1 Register = 17
	RegS2 Register = 18
	RegS3 Register = 19
	RegS4 Register = 20
	RegS5 Register = 21
	RegS6 Register = 22
	RegS7 Register = 23

	RegT8  Register = 24
	RegT9  Register = 25
	RegT10 Register = 26
	RegT11 Register = 27

	// RegK0 and RegK1 are reserved scratch registers for the spill rewriter
	// (internal/regalloc). They are never members of AllocatablePool.
	RegK0 Register = 28
	RegK1 Register = 29

	regReserved30 Register = 30
	regReserved31 Register = 31
)

var registerNames = [NumRegisters]string{
	"zero", "ra", "sp", "fp",
	"a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "t10", "t11",
	"k0", "k1", "x30", "x31",
}

// String implements fmt.Stringer.
func (r Register) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return fmt.Sprintf("x%d", r)
}

// RegisterFromIndex validates and returns the Register for a raw index.
func RegisterFromIndex(i int) (Register, bool) {
	if i < 0 || i >= NumRegisters {
		return 0, false
	}
	return Register(i), true
}

// ArgRegisters are the registers used for the first four scalar/ptr/pointer
// arguments and the scalar/lo-hi return value, per the ABI in spec.md §6.
var ArgRegisters = [4]Register{RegA0, RegA1, RegA2, RegA3}

// AllocatablePool is the ordered pool of registers available to
// internal/regalloc, in preference order (caller-saved temps first, then
// callee-saved s-registers). zero/ra/sp/fp/a0..a3/k0/k1 are excluded: the
// first four because they have fixed ABI roles the translator manages
// directly, the last two because the spill rewriter reserves them as
// scratch (spec.md §4.6).
var AllocatablePool = []Register{
	RegT0, RegT1, RegT2, RegT3, RegT4, RegT5, RegT6, RegT7,
	RegT8, RegT9, RegT10, RegT11,
	RegS0, RegS1, RegS2, RegS3, RegS4, RegS5, RegS6, RegS7,
}

// CalleeSaved is the subset of AllocatablePool that a function must
// preserve across calls it makes (the s-registers).
var CalleeSaved = map[Register]bool{
	RegS0: true, RegS1: true, RegS2: true, RegS3: true,
	RegS4: true, RegS5: true, RegS6: true, RegS7: true,
}

// ScratchRegisters are reserved for the spill rewriter and never handed out
// by the register allocator.
var ScratchRegisters = [2]Register{RegK0, RegK1}

// WordSize is the machine's word size in bytes.
const WordSize = 4

// ImmSignedMin and ImmSignedMax bound the I-immediate range used by
// single-instruction ADDI materialization (spec.md §4.4).
const (
	ImmSignedMin = -2048
	ImmSignedMax = 2047
)
