// Package translate lowers a compatibility-checked source function into a
// pre-allocation stream of virtual-register target-ISA instructions
// (spec.md §4.4-4.5). One Context is created per function; the register
// allocator (internal/regalloc) consumes its output afterward and is the
// only stage that assigns physical registers (spec.md §9 Open Question,
// resolved in SPEC_FULL.md §14: alloc_temp mints virtual registers).
package translate

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// LocationKind discriminates the places a translated SSA value can live.
type LocationKind byte

const (
	LocReg LocationKind = iota
	LocRegPair
	LocRegQuad
	LocStack
	LocConst
)

// Location is where a translated SSA value lives at a point in translation
// (spec.md §3 "Value location"). Register fields hold virtual registers
// until internal/regalloc assigns them physical homes.
type Location struct {
	Kind LocationKind
	Reg  regalloc.VReg
	Lo   regalloc.VReg
	Hi   regalloc.VReg
	R0   regalloc.VReg
	R1   regalloc.VReg
	R2   regalloc.VReg
	R3   regalloc.VReg

	// StackOffset is valid for LocStack: an offset from the frame pointer,
	// non-negative for a stack-passed parameter (see BindParameter).
	StackOffset int32

	// ConstValue is valid for LocConst.
	ConstValue int64
}

// Reg builds a single-register Location.
func Reg(r regalloc.VReg) Location { return Location{Kind: LocReg, Reg: r} }

// RegPair builds a 64-bit register-pair Location (lo, hi).
func RegPair(lo, hi regalloc.VReg) Location { return Location{Kind: LocRegPair, Lo: lo, Hi: hi} }

// RegQuad builds a 128-bit register-quad Location.
func RegQuad(r0, r1, r2, r3 regalloc.VReg) Location {
	return Location{Kind: LocRegQuad, R0: r0, R1: r1, R2: r2, R3: r3}
}

// Stack builds a stack-slot Location.
func Stack(offset int32) Location { return Location{Kind: LocStack, StackOffset: offset} }

// Const builds a constant Location (never materialized until loaded).
func Const(v int64) Location { return Location{Kind: LocConst, ConstValue: v} }

// Error is the TranslateError taxonomy from spec.md §7: UndefinedValue,
// InvalidBranch, UnsupportedWidth, UnsupportedInstruction, OutOfRegisters.
type Error struct {
	Kind    string
	Detail  string
	Context string
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s (in %s)", e.Kind, e.Detail, e.Context)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func undefinedValue(name string) error {
	return errors.WithStack(&Error{Kind: "UndefinedValue", Detail: name})
}

func invalidBranch(label string) error {
	return errors.WithStack(&Error{Kind: "InvalidBranch", Detail: label})
}

// UnsupportedWidth builds the TranslateError for a bit width the
// translator does not implement at this opcode (e.g. 64-bit div/rem).
func UnsupportedWidth(w int64) error {
	return errors.WithStack(&Error{Kind: "UnsupportedWidth", Detail: fmt.Sprintf("%d", w)})
}

func unsupportedInstruction(detail string) error {
	return errors.WithStack(&Error{Kind: "UnsupportedInstruction", Detail: detail})
}

// outOfRegisters builds the bug-class error the reference implementation's
// literal physical-register counter would have hit. In the virtual-register
// regime this context now uses, AllocTemp returns it only once a function
// reaches the defensive maxVirtualRegs cap below (see SPEC_FULL.md §14),
// not as the everyday exhaustion path.
func outOfRegisters() error {
	return errors.WithStack(&Error{Kind: "OutOfRegisters", Detail: "virtual register cap exceeded"})
}

// maxVirtualRegs bounds one function's virtual register count as a
// defensive cap against pathological inputs (spec.md's reference allocator
// fails past 12 physical temps; this naive pre-allocator no longer shares
// that limit, but an unbounded counter would let a malicious or buggy
// module grow a live-interval list without any bound at all).
const maxVirtualRegs = 1 << 20

// Context is the per-function mutable translation state (spec.md §4.4).
// It owns the instruction buffer, binding map, label table, fixup list,
// temp counter, and stack frame size for the lifetime of one function's
// translation.
type Context struct {
	functionName string

	bindings map[string]Location

	instructions []regalloc.Instruction

	labels map[string]int
	// fixups records (instruction index, label name) pairs awaiting
	// resolution once every label in the function has been seen.
	fixups []fixup

	// nextVReg is the monotonically increasing virtual register counter
	// (spec.md §9 Open Question, option (a)).
	nextVReg uint32

	stackSize int32

	// edgeCounter names synthetic critical-edge blocks minted when a
	// CondBr's taken path needs its own phi-move sequence (see
	// control.go's translateCondBr).
	edgeCounter int
}

// nextEdgeLabel mints a unique label for a synthetic critical-edge block.
func (c *Context) nextEdgeLabel() string {
	c.edgeCounter++
	return fmt.Sprintf("__phi_edge_%d", c.edgeCounter)
}

type fixup struct {
	index int
	label string
}

// NewContext creates a translation context for the named function.
func NewContext(functionName string) *Context {
	return &Context{
		functionName: functionName,
		bindings:     make(map[string]Location),
		labels:       make(map[string]int),
	}
}

// FunctionName returns the name of the function being translated.
func (c *Context) FunctionName() string { return c.functionName }

// StartBlock records the current instruction index as the entry point of
// the named block. Spec.md §4.4 requires erroring on a duplicate name, but
// the parser's DuplicateLabel check already guarantees uniqueness by the
// time translation runs, so this only records.
func (c *Context) StartBlock(name string) {
	c.labels[name] = len(c.instructions)
}

// Emit appends an instruction to the buffer and returns its index.
func (c *Context) Emit(in regalloc.Instruction) int {
	c.instructions = append(c.instructions, in)
	return len(c.instructions) - 1
}

// CurrentIndex returns the index the next Emit call will use.
func (c *Context) CurrentIndex() int { return len(c.instructions) }

// AllocTemp mints the next virtual register for this function (spec.md
// §4.4's alloc_temp, resolved as a virtual-register minter per SPEC_FULL.md
// §14). Only the defensive maxVirtualRegs cap can fail this call.
func (c *Context) AllocTemp() (regalloc.VReg, error) {
	if c.nextVReg >= maxVirtualRegs {
		return 0, outOfRegisters()
	}
	v := regalloc.VirtualVReg(c.nextVReg)
	c.nextVReg++
	return v, nil
}

// AllocStack grows the frame by size bytes and returns the new negative
// offset from the frame pointer. Frame growth is monotonic within a
// function (spec.md §4.4).
func (c *Context) AllocStack(size int32) int32 {
	c.stackSize += size
	return -c.stackSize
}

// StackSize returns the current frame size in bytes.
func (c *Context) StackSize() int32 { return c.stackSize }

// Bind records name's location. Arithmetic translators must never
// overwrite an existing binding; only phi-resolution does (spec.md §4.4).
func (c *Context) Bind(name string, loc Location) {
	c.bindings[name] = loc
}

// Location looks up a previously bound SSA name.
func (c *Context) Location(name string) (Location, error) {
	loc, ok := c.bindings[name]
	if !ok {
		return Location{}, undefinedValue(name)
	}
	return loc, nil
}

// AddFixup records that the most recently emitted instruction refers to a
// block label whose target index is not yet known.
func (c *Context) AddFixup(label string) {
	c.fixups = append(c.fixups, fixup{index: len(c.instructions) - 1, label: label})
}

// ResolveLabels patches every recorded fixup's instruction with the
// relative offset to its target label, now that every block's StartBlock
// call has run. This is the label-patching logic the reference
// translation context left as a TODO; here it is implemented against the
// pre-allocation instruction stream, ahead of physical encoding.
func (c *Context) ResolveLabels() error {
	for _, fx := range c.fixups {
		target, ok := c.labels[fx.label]
		if !ok {
			return invalidBranch(fx.label)
		}
		offset := int32(target-fx.index) * isa.Size
		in := &c.instructions[fx.index]
		if !in.Op.IsBranch() {
			return unsupportedInstruction(fmt.Sprintf("fixup on non-branch opcode %s", in.Op))
		}
		in.Imm = offset
	}
	return nil
}

// Instructions returns the finished instruction buffer. Call only after
// ResolveLabels has succeeded.
func (c *Context) Instructions() []regalloc.Instruction {
	return c.instructions
}

// emitLoadImmediate materializes a 32-bit immediate into rd, following the
// policy in spec.md §4.4: zero via ADD zero,zero; values in the signed
// I-immediate range [ImmSignedMin, ImmSignedMax] via ADDI; otherwise
// LUI+ADDI with the standard sign-extension adjustment. This
// convention must match bit-for-bit across implementations.
func (c *Context) emitLoadImmediate(rd regalloc.VReg, value uint32) {
	zero := regalloc.FixedVReg(isa.RegZero)
	switch {
	case value == 0:
		c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: rd, Rs1: zero, Rs2: zero})
	case int32(value) >= isa.ImmSignedMin && int32(value) <= isa.ImmSignedMax:
		c.Emit(regalloc.Instruction{Op: isa.OpAddi, Rd: rd, Rs1: zero, Imm: int32(value)})
	default:
		upper := (value + 0x800) >> 12
		lower := int32(value) & 0xFFF
		if lower >= 0x800 {
			lower -= 0x1000
		}
		c.Emit(regalloc.Instruction{Op: isa.OpLui, Rd: rd, Imm: int32(upper)})
		c.Emit(regalloc.Instruction{Op: isa.OpAddi, Rd: rd, Rs1: rd, Imm: lower})
	}
}
