// Package lower implements the pure type-lowering function that collapses
// source IR's type zoo onto the small set of ABI-visible shapes the
// translator and register allocator operate on (spec.md §4.3).
package lower

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/ir"
)

// Shape is a lowered target shape: how many registers (and in what
// arrangement) a value of some source type occupies once translated.
type Shape byte

const (
	// ShapeNone is the lowering of Void: it occupies no registers.
	ShapeNone Shape = iota
	// ShapeScalar32 is one register.
	ShapeScalar32
	// ShapeScalar64 is a register pair (lo, hi).
	ShapeScalar64
	// ShapeScalar128 is a register quad (r0..r3, little word first).
	ShapeScalar128
	// ShapePointer is one register holding an address.
	ShapePointer
)

var shapeNames = [...]string{"none", "scalar32", "scalar64", "scalar128", "pointer"}

// String implements fmt.Stringer.
func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "unknown"
}

// RegCount returns how many physical/virtual registers a value of this
// shape occupies.
func (s Shape) RegCount() int {
	switch s {
	case ShapeScalar32, ShapePointer:
		return 1
	case ShapeScalar64:
		return 2
	case ShapeScalar128:
		return 4
	default:
		return 0
	}
}

// Of lowers a source Type to its target Shape (spec.md §4.3). Array and
// Struct always lower to Pointer: aggregate-typed SSA locals are addresses
// into memory an Alloca already reserved, never held live across registers.
func Of(t ir.Type) (Shape, error) {
	switch t.Kind {
	case ir.KindVoid:
		return ShapeNone, nil
	case ir.KindPtr, ir.KindArray, ir.KindStruct:
		return ShapePointer, nil
	case ir.KindInt:
		switch {
		case t.Width <= 32:
			return ShapeScalar32, nil
		case t.Width == 64:
			return ShapeScalar64, nil
		case t.Width == 128:
			return ShapeScalar128, nil
		default:
			return ShapeNone, fmt.Errorf("lower: unsupported integer width i%d", t.Width)
		}
	default:
		return ShapeNone, fmt.Errorf("lower: unsupported type kind %v", t.Kind)
	}
}

// SizeInBytes mirrors ir.Type.SizeInBytes, so a type's byte size is
// available next to its Shape. internal/translate calls
// ir.Type.SizeInBytes directly.
func SizeInBytes(t ir.Type) int64 {
	return t.SizeInBytes()
}
