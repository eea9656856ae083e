package translate

import (
	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
	"github.com/zkirc-project/zkirc/internal/regalloc"
)

// preallocatePhis walks every phi instruction in fn up front and binds its
// result to a fresh register (or register pair/quad, by width) before any
// block body is translated. Predecessor blocks need a stable destination
// to move into while emitting their own terminator, long before the phi's
// own block is reached (spec.md §4.5 "Phi").
func preallocatePhis(c *Context, fn *ir.Function) error {
	for bi := range fn.Blocks {
		for ii := range fn.Blocks[bi].Instructions {
			in := &fn.Blocks[bi].Instructions[ii]
			if in.Op != ir.OpPhi {
				continue
			}
			switch typeWidth(in.Type) {
			case 64:
				lo, err := c.AllocTemp()
				if err != nil {
					return err
				}
				hi, err := c.AllocTemp()
				if err != nil {
					return err
				}
				c.Bind(in.Result, RegPair(lo, hi))
			default:
				rd, err := c.AllocTemp()
				if err != nil {
					return err
				}
				c.Bind(in.Result, Reg(rd))
			}
		}
	}
	return nil
}

// regMove is one atomic register-to-register copy: dst := src.
type regMove struct {
	dst regalloc.VReg
	src regalloc.VReg
}

// emitPhiMoves emits, on behalf of predecessor block fromBlock, the moves
// that feed every phi node in toBlock whose incoming edge is fromBlock.
// Moves across multiple phi-nodes are sequenced as a parallel copy: safe
// (non-interfering) moves are emitted directly, and any cycle is broken
// with one fresh scratch temp (spec.md §4.5 "Parallel moves ... must be
// sequenced with a temporary when a cycle exists").
func emitPhiMoves(c *Context, fn *ir.Function, fromBlock, toBlock string) error {
	target := fn.Block(toBlock)
	if target == nil {
		return invalidBranch(toBlock)
	}

	var moves []regMove
	for i := range target.Instructions {
		in := &target.Instructions[i]
		if in.Op != ir.OpPhi {
			continue
		}
		for _, inc := range in.Incoming {
			if inc.Block != fromBlock {
				continue
			}
			destLoc, err := c.Location(in.Result)
			if err != nil {
				return err
			}
			if typeWidth(in.Type) == 64 {
				srcLo, srcHi, err := c.LoadValuePair(inc.Value)
				if err != nil {
					return err
				}
				moves = append(moves, regMove{dst: destLoc.Lo, src: srcLo}, regMove{dst: destLoc.Hi, src: srcHi})
			} else {
				src, err := c.LoadValue(inc.Value)
				if err != nil {
					return err
				}
				moves = append(moves, regMove{dst: destLoc.Reg, src: src})
			}
		}
	}

	return sequenceMoves(c, moves)
}

// sequenceMoves emits a correct instruction order for a set of
// simultaneous register moves, using the classic parallel-copy algorithm:
// repeatedly emit any move whose destination is not needed as a source by
// a move still pending, and when only cyclic moves remain, break the
// cycle by saving one register's value in a scratch temp first.
func sequenceMoves(c *Context, moves []regMove) error {
	pending := make([]regMove, 0, len(moves))
	for _, m := range moves {
		if m.dst != m.src {
			pending = append(pending, m)
		}
	}

	for len(pending) > 0 {
		progressed := false
		for i, m := range pending {
			if !isSourceElsewhere(pending, m.dst, i) {
				c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: m.dst, Rs1: m.src, Rs2: regalloc.FixedVReg(isa.RegZero)})
				pending = append(pending[:i], pending[i+1:]...)
				progressed = true
				break
			}
		}
		if progressed {
			continue
		}

		// Every remaining move is part of a cycle. Save the first move's
		// destination value aside in a scratch temp, then rewrite every
		// later reference to that register as a source to read from the
		// temp instead, which frees the destination to be overwritten
		// safely.
		scratch, err := c.AllocTemp()
		if err != nil {
			return err
		}
		cycleDst := pending[0].dst
		c.Emit(regalloc.Instruction{Op: isa.OpAdd, Rd: scratch, Rs1: cycleDst, Rs2: regalloc.FixedVReg(isa.RegZero)})
		for i := range pending {
			if pending[i].src == cycleDst {
				pending[i].src = scratch
			}
		}
	}
	return nil
}

// isSourceElsewhere reports whether register r is read as the source of
// any pending move other than the one at index self.
func isSourceElsewhere(pending []regMove, r regalloc.VReg, self int) bool {
	for i, m := range pending {
		if i != self && m.src == r {
			return true
		}
	}
	return false
}
