// Package compat checks a parsed module against the subset of source-IR
// types, widths, and opcodes the translator actually supports, so that an
// unsupported construct is rejected before translation wastes work
// (spec.md §6 "check_compatibility").
package compat

import (
	"fmt"

	"github.com/zkirc-project/zkirc/internal/diagnostic"
	"github.com/zkirc-project/zkirc/internal/ir"
)

// Error reports the first unsupported construct Check finds, with enough
// location context to find it without re-parsing.
type Error struct {
	Location diagnostic.Location
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Check validates every function, signature, and instruction operand type
// in m against the supported subset (spec.md §4.3). It reports the first
// offending element and stops; it does not accumulate multiple errors.
func Check(m *ir.Module) error {
	for fi := range m.Functions {
		fn := &m.Functions[fi]
		if err := checkType(fn.RetType, diagnostic.Location{Function: fn.Name, Operand: -1}); err != nil {
			return err
		}
		for pi, p := range fn.Params {
			if err := checkType(p.Type, diagnostic.Location{Function: fn.Name, Operand: pi}); err != nil {
				return err
			}
		}
		for bi := range fn.Blocks {
			blk := &fn.Blocks[bi]
			for ii := range blk.Instructions {
				if err := checkInstruction(&blk.Instructions[ii], fn.Name, blk.Name); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkType(t ir.Type, loc diagnostic.Location) error {
	switch t.Kind {
	case ir.KindVoid, ir.KindPtr:
		return nil
	case ir.KindInt:
		if !ir.IsSupportedWidth(t.Width) {
			return &Error{Location: loc, Message: fmt.Sprintf("unsupported integer width i%d", t.Width)}
		}
		return nil
	case ir.KindArray:
		return checkType(*t.Elem, loc)
	case ir.KindStruct:
		for _, f := range t.Fields {
			if err := checkType(f, loc); err != nil {
				return err
			}
		}
		return nil
	default:
		return &Error{Location: loc, Message: "unsupported type kind"}
	}
}

func checkInstruction(in *ir.Instruction, fn, blk string) error {
	loc := diagnostic.Location{Function: fn, Block: blk, Operand: -1}
	switch in.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpAnd, ir.OpOr, ir.OpXor,
		ir.OpShl, ir.OpLShr, ir.OpAShr:
		return checkType(in.Type, loc)
	case ir.OpUDiv, ir.OpSDiv, ir.OpURem, ir.OpSRem:
		if err := checkType(in.Type, loc); err != nil {
			return err
		}
		if in.Type.Kind == ir.KindInt && in.Type.Width > 32 {
			return &Error{Location: loc, Message: fmt.Sprintf("%s at width %d is not supported (division/remainder above 32 bits is out of scope)", in.Op, in.Type.Width)}
		}
		return nil
	case ir.OpICmp:
		return checkType(in.Type, loc)
	case ir.OpLoad, ir.OpStore, ir.OpAlloca:
		return checkType(in.Type, loc)
	case ir.OpCall:
		if err := checkType(in.RetType, loc); err != nil {
			return err
		}
		for i, a := range in.Args {
			if err := checkType(a.Type, diagnostic.Location{Function: fn, Block: blk, Operand: i}); err != nil {
				return err
			}
		}
		return nil
	case ir.OpRet:
		if in.HasRetValue {
			return checkType(in.Type, loc)
		}
		return nil
	case ir.OpPhi:
		return checkType(in.Type, loc)
	case ir.OpGetElementPtr:
		return checkType(in.Type, loc)
	case ir.OpBr, ir.OpCondBr:
		return nil
	default:
		return &Error{Location: loc, Message: fmt.Sprintf("unsupported opcode %s", in.Op)}
	}
}
