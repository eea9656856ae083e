package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
)

func TestTranslateLoadStore_NarrowWidthsUseByteAndHalfOps(t *testing.T) {
	cases := []struct {
		ty        string
		wantLoad  isa.Opcode
		wantStore isa.Opcode
	}{
		{"i8", isa.OpLbu, isa.OpSb},
		{"i16", isa.OpLhu, isa.OpSh},
		{"i32", isa.OpLw, isa.OpSw},
	}
	for _, tc := range cases {
		t.Run(tc.ty, func(t *testing.T) {
			src := `define ` + tc.ty + ` @f(ptr %p, ` + tc.ty + ` %v) {
entry:
  store ` + tc.ty + ` %v, ptr %p
  %r = load ` + tc.ty + `, ptr %p
  ret ` + tc.ty + ` %r
}`
			m, err := ir.Parse(src)
			require.NoError(t, err)
			c, err := Function(&m.Functions[0])
			require.NoError(t, err)

			var sawLoad, sawStore bool
			for _, in := range c.Instructions() {
				if in.Op == tc.wantLoad {
					sawLoad = true
				}
				if in.Op == tc.wantStore {
					sawStore = true
				}
			}
			assert.True(t, sawLoad, "expected %s", tc.wantLoad)
			assert.True(t, sawStore, "expected %s", tc.wantStore)
		})
	}
}

func TestTranslateLoadStore_64BitUsesTwoWords(t *testing.T) {
	src := `define i64 @f(ptr %p, i64 %v) {
entry:
  store i64 %v, ptr %p
  %r = load i64, ptr %p
  ret i64 %r
}`
	m, err := ir.Parse(src)
	require.NoError(t, err)
	c, err := Function(&m.Functions[0])
	require.NoError(t, err)

	loads, stores := 0, 0
	for _, in := range c.Instructions() {
		if in.Op == isa.OpLw {
			loads++
		}
		if in.Op == isa.OpSw {
			stores++
		}
	}
	assert.Equal(t, 2, loads)
	assert.Equal(t, 2, stores)
}

func TestTranslateAlloca_GrowsFrameAndBindsFramePointerOffset(t *testing.T) {
	src := `define i32 @f() {
entry:
  %p = alloca i32
  %q = alloca i32
  store i32 1, ptr %p
  store i32 2, ptr %q
  ret i32 0
}`
	m, err := ir.Parse(src)
	require.NoError(t, err)
	c, err := Function(&m.Functions[0])
	require.NoError(t, err)
	assert.Equal(t, int32(8), c.StackSize())

	var addis []int32
	for _, in := range c.Instructions() {
		if in.Op == isa.OpAddi && in.Rs1.IsFixed() && in.Rs1.Fixed() == isa.RegFP {
			addis = append(addis, in.Imm)
		}
	}
	require.Len(t, addis, 2)
	assert.NotEqual(t, addis[0], addis[1])
}
