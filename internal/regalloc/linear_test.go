package regalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/isa"
)

func TestAllocate_NonOverlappingIntervalsShareARegister(t *testing.T) {
	ivs := []Interval{
		{VReg: v(0), Start: 0, End: 2},
		{VReg: v(1), Start: 3, End: 5},
	}
	alloc, err := Allocate(ivs)
	require.NoError(t, err)

	r0, ok := alloc.Register(v(0))
	require.True(t, ok)
	r1, ok := alloc.Register(v(1))
	require.True(t, ok)
	assert.Equal(t, r0, r1)
}

func TestAllocate_OverlappingIntervalsGetDistinctRegisters(t *testing.T) {
	ivs := []Interval{
		{VReg: v(0), Start: 0, End: 5},
		{VReg: v(1), Start: 1, End: 4},
	}
	alloc, err := Allocate(ivs)
	require.NoError(t, err)

	r0, ok := alloc.Register(v(0))
	require.True(t, ok)
	r1, ok := alloc.Register(v(1))
	require.True(t, ok)
	assert.NotEqual(t, r0, r1)
}

// TestAllocate_PoolExhaustionSpillsRatherThanFails mirrors the S6 pressure
// scenario (spec.md §8): more simultaneously live scalars than the
// physical pool holds must spill, never error or crash.
func TestAllocate_PoolExhaustionSpillsRatherThanFails(t *testing.T) {
	n := len(isa.AllocatablePool) + 10
	ivs := make([]Interval, n)
	for i := 0; i < n; i++ {
		ivs[i] = Interval{VReg: v(uint32(i)), Start: 0, End: n}
	}
	alloc, err := Allocate(ivs)
	require.NoError(t, err)

	spilled := 0
	assigned := make(map[isa.Register]bool)
	for i := 0; i < n; i++ {
		if alloc.IsSpilled(v(uint32(i))) {
			spilled++
			continue
		}
		r, ok := alloc.Register(v(uint32(i)))
		require.True(t, ok)
		assert.False(t, assigned[r], "register %s double-assigned among overlapping intervals", r)
		assigned[r] = true
	}
	assert.Equal(t, 10, spilled)
	assert.Equal(t, len(isa.AllocatablePool), len(assigned))
}

func TestAllocate_FixedRegistersPassThroughWithoutConsumingThePool(t *testing.T) {
	alloc, err := Allocate(nil)
	require.NoError(t, err)
	r, ok := alloc.Register(FixedVReg(isa.RegA0))
	require.True(t, ok)
	assert.Equal(t, isa.RegA0, r)
	assert.False(t, alloc.IsSpilled(FixedVReg(isa.RegA0)))
}

// TestAllocate_FrameLimitReturnsSpillFailed confirms the spill-slot cap in
// allocSlot is actually reachable: enough simultaneously live scalars to
// spill past maxSpillSlots must report SpillFailed rather than growing the
// frame without bound (spec.md §4.6/§7).
func TestAllocate_FrameLimitReturnsSpillFailed(t *testing.T) {
	n := maxSpillSlots + len(isa.AllocatablePool) + 1
	ivs := make([]Interval, n)
	for i := 0; i < n; i++ {
		ivs[i] = Interval{VReg: v(uint32(i)), Start: 0, End: n}
	}
	_, err := Allocate(ivs)
	require.Error(t, err)
	var regErr *Error
	require.ErrorAs(t, err, &regErr)
	assert.Equal(t, "SpillFailed", regErr.Kind)
}

func TestAllocation_SpillOffsetIsFrameRelativeAndDistinctPerSlot(t *testing.T) {
	n := len(isa.AllocatablePool) + 2
	ivs := make([]Interval, n)
	for i := 0; i < n; i++ {
		ivs[i] = Interval{VReg: v(uint32(i)), Start: 0, End: n}
	}
	alloc, err := Allocate(ivs)
	require.NoError(t, err)

	var offsets []int32
	for i := 0; i < n; i++ {
		if !alloc.IsSpilled(v(uint32(i))) {
			continue
		}
		off, ok := alloc.SpillOffset(v(uint32(i)), 16)
		require.True(t, ok)
		offsets = append(offsets, off)
	}
	require.Len(t, offsets, 2)
	assert.NotEqual(t, offsets[0], offsets[1])
	assert.Equal(t, alloc.FrameSize(), int32(2)*isa.WordSize)
}
