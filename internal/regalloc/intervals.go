package regalloc

// Interval is a virtual register's live range over the pre-allocation
// instruction stream: Start and End are the indices of its first and last
// reference, and intervals are compared as half-open ranges [Start, End)
// (spec.md §4.6).
type Interval struct {
	VReg  VReg
	Start int
	End   int
}

// Overlaps reports whether a and b intersect as half-open ranges. Symmetric
// and consistent with "adjacent, non-overlapping" at the boundary: an
// interval ending exactly where another begins does not overlap it
// (spec.md §8 property 4).
func (a Interval) Overlaps(b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}

// BuildIntervals computes one live interval per virtual register
// referenced in instrs, by a single forward pass: a register's interval
// opens at the earliest instruction that defines or uses it and closes
// at the latest one that defines or uses it. Fixed (physical) registers are not
// virtual and never produce an interval.
func BuildIntervals(instrs []Instruction) []Interval {
	byID := make(map[uint32]*Interval)
	var order []uint32

	touch := func(v VReg, i int) {
		if v.IsFixed() {
			return
		}
		id := v.ID()
		iv, ok := byID[id]
		if !ok {
			iv = &Interval{VReg: v, Start: i, End: i}
			byID[id] = iv
			order = append(order, id)
			return
		}
		if i < iv.Start {
			iv.Start = i
		}
		if i > iv.End {
			iv.End = i
		}
	}

	for i, in := range instrs {
		for _, d := range in.Defs() {
			touch(d, i)
		}
		for _, u := range in.Uses() {
			touch(u, i)
		}
	}

	out := make([]Interval, len(order))
	for idx, id := range order {
		out[idx] = *byID[id]
	}
	return out
}
