package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
)

// Function translates one source-IR function into a pre-allocation
// instruction stream (spec.md §4.4 "translate_function"). Declared
// (external, bodyless) functions are skipped by the caller before this is
// reached. The steps run in a fixed order: bind parameters to their ABI
// locations, preallocate every phi result so predecessor blocks have a
// stable destination to move into, walk every block in order emitting one
// target instruction sequence per source instruction, then resolve every
// branch fixup now that all labels are known.
func Function(fn *ir.Function) (*Context, error) {
	c := NewContext(fn.Name)

	wordIndex := 0
	for _, p := range fn.Params {
		wordIndex = c.BindParameter(p.Name, wordIndex, p.Type)
	}

	if err := preallocatePhis(c, fn); err != nil {
		return nil, err
	}

	for bi := range fn.Blocks {
		block := &fn.Blocks[bi]
		c.StartBlock(block.Name)
		for ii := range block.Instructions {
			in := &block.Instructions[ii]
			if err := translateInstruction(c, fn, block.Name, in); err != nil {
				return nil, err
			}
		}
	}

	if err := c.ResolveLabels(); err != nil {
		return nil, err
	}
	return c, nil
}

// translateInstruction dispatches a single source instruction to its
// opcode-specific lowering (spec.md §4.5). OpPhi is a no-op here: its
// result is already bound by preallocatePhis, and the moves that feed it
// are emitted by the predecessor's own Br/CondBr translation.
func translateInstruction(c *Context, fn *ir.Function, blockName string, in *ir.Instruction) error {
	switch in.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpUDiv, ir.OpSDiv, ir.OpURem, ir.OpSRem,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpLShr, ir.OpAShr:
		return translateBinary(c, in)
	case ir.OpICmp:
		return translateICmp(c, in)
	case ir.OpLoad:
		return translateLoad(c, in)
	case ir.OpStore:
		return translateStore(c, in)
	case ir.OpAlloca:
		return translateAlloca(c, in)
	case ir.OpRet:
		return translateRet(c, in)
	case ir.OpBr:
		return translateBr(c, in, fn, blockName)
	case ir.OpCondBr:
		return translateCondBr(c, in, fn, blockName)
	case ir.OpCall:
		return translateCall(c, in)
	case ir.OpPhi:
		return nil
	case ir.OpGetElementPtr:
		return translateGEP(c, in)
	default:
		return unsupportedInstruction("opcode " + in.Op.String())
	}
}

// Module translates every non-declared function in m, in order, returning
// one Context per translated function (spec.md §6's module-level driver).
func Module(m *ir.Module) ([]*Context, error) {
	var out []*Context
	for i := range m.Functions {
		fn := &m.Functions[i]
		if fn.Declared {
			continue
		}
		c, err := Function(fn)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
