package regalloc

import (
	"fmt"
	"sort"

	"github.com/zkirc-project/zkirc/internal/isa"
)

// Allocation is the result of linear scan: a physical register or a spill
// slot for every virtual register that appeared in the interval list
// (spec.md §4.6).
type Allocation struct {
	assign    map[uint32]isa.Register
	spillSlot map[uint32]int32 // 1-based slot ordinal, word-sized
	nextSlot  int32
}

// Register returns the physical register assigned to v. Fixed registers
// always resolve to themselves. false means v was spilled instead.
func (a *Allocation) Register(v VReg) (isa.Register, bool) {
	if v.IsFixed() {
		return v.Fixed(), true
	}
	r, ok := a.assign[v.ID()]
	return r, ok
}

// IsSpilled reports whether v received a spill slot rather than a
// register.
func (a *Allocation) IsSpilled(v VReg) bool {
	if v.IsFixed() {
		return false
	}
	_, ok := a.spillSlot[v.ID()]
	return ok
}

// SpillOffset returns v's frame-pointer-relative byte offset, given
// frameBase (the frame size the translator already claimed via
// AllocStack before spill slots are appended below it).
func (a *Allocation) SpillOffset(v VReg, frameBase int32) (int32, bool) {
	slot, ok := a.spillSlot[v.ID()]
	if !ok {
		return 0, false
	}
	return -(frameBase + slot*isa.WordSize), true
}

// FrameSize returns the total bytes consumed by spill slots.
func (a *Allocation) FrameSize() int32 { return a.nextSlot * isa.WordSize }

// maxSpillSlots bounds the number of word-sized spill slots one function's
// frame may accumulate. It is the "target-defined maximum" spec.md §4.6's
// SpillFailed refers to: a generous cap against a pathological module
// spilling without bound, not a limit real programs approach.
const maxSpillSlots = 1 << 16

// Allocate runs linear scan over live intervals (spec.md §4.6): sort by
// start with a stable virtual-id tie-break, walk them in order expiring
// finished intervals back into the free pool, and on exhaustion spill
// whichever of the current interval or the longest-lived active interval
// ends later.
func Allocate(intervals []Interval) (*Allocation, error) {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].VReg.ID() < sorted[j].VReg.ID()
	})

	alloc := &Allocation{
		assign:    make(map[uint32]isa.Register),
		spillSlot: make(map[uint32]int32),
	}

	free := make([]isa.Register, len(isa.AllocatablePool))
	copy(free, isa.AllocatablePool)

	// active is kept sorted by End ascending, so active[len-1] always has
	// the maximum End.
	var active []Interval

	expire := func(start int) {
		kept := active[:0]
		for _, iv := range active {
			if iv.End <= start {
				if r, ok := alloc.assign[iv.VReg.ID()]; ok {
					free = append(free, r)
				}
				continue
			}
			kept = append(kept, iv)
		}
		active = kept
	}

	insertActive := func(iv Interval) {
		i := sort.Search(len(active), func(i int) bool { return active[i].End >= iv.End })
		active = append(active, Interval{})
		copy(active[i+1:], active[i:])
		active[i] = iv
	}

	allocSlot := func(id uint32) error {
		if alloc.nextSlot >= maxSpillSlots {
			return spillFailed(fmt.Sprintf("frame would exceed the target-defined maximum of %d spill slots", maxSpillSlots))
		}
		alloc.nextSlot++
		alloc.spillSlot[id] = alloc.nextSlot
		return nil
	}

	for _, iv := range sorted {
		expire(iv.Start)

		if len(free) > 0 {
			r := free[len(free)-1]
			free = free[:len(free)-1]
			alloc.assign[iv.VReg.ID()] = r
			insertActive(iv)
			continue
		}

		if len(active) == 0 {
			// The pool itself is empty (every physical register already
			// excluded); every interval spills.
			if err := allocSlot(iv.VReg.ID()); err != nil {
				return nil, err
			}
			continue
		}

		longest := active[len(active)-1]
		if longest.End > iv.End {
			r, ok := alloc.assign[longest.VReg.ID()]
			if !ok {
				return nil, spillFailed("active interval missing its register assignment")
			}
			delete(alloc.assign, longest.VReg.ID())
			if err := allocSlot(longest.VReg.ID()); err != nil {
				return nil, err
			}
			active = active[:len(active)-1]

			alloc.assign[iv.VReg.ID()] = r
			insertActive(iv)
		} else {
			if err := allocSlot(iv.VReg.ID()); err != nil {
				return nil, err
			}
		}
	}

	return alloc, nil
}
