package lower

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/ir"
)

func TestOf_Void(t *testing.T) {
	s, err := Of(ir.Void)
	require.NoError(t, err)
	assert.Equal(t, ShapeNone, s)
	assert.Equal(t, 0, s.RegCount())
}

func TestOf_Scalar32(t *testing.T) {
	for _, w := range []int64{1, 8, 16, 32} {
		s, err := Of(ir.IntType(w))
		require.NoError(t, err, "width %d", w)
		assert.Equal(t, ShapeScalar32, s)
		assert.Equal(t, 1, s.RegCount())
	}
}

func TestOf_Scalar64(t *testing.T) {
	s, err := Of(ir.IntType(64))
	require.NoError(t, err)
	assert.Equal(t, ShapeScalar64, s)
	assert.Equal(t, 2, s.RegCount())
}

func TestOf_Scalar128(t *testing.T) {
	s, err := Of(ir.IntType(128))
	require.NoError(t, err)
	assert.Equal(t, ShapeScalar128, s)
	assert.Equal(t, 4, s.RegCount())
}

func TestOf_Pointer(t *testing.T) {
	s, err := Of(ir.Ptr)
	require.NoError(t, err)
	assert.Equal(t, ShapePointer, s)
	assert.Equal(t, 1, s.RegCount())
}

func TestOf_ArrayAndStructLowerToPointer(t *testing.T) {
	arr := ir.ArrayType(4, ir.IntType(32))
	s, err := Of(arr)
	require.NoError(t, err)
	assert.Equal(t, ShapePointer, s)

	st := ir.StructType([]ir.Type{ir.IntType(32), ir.IntType(64)})
	s, err = Of(st)
	require.NoError(t, err)
	assert.Equal(t, ShapePointer, s)
}

func TestOf_UnsupportedWidthRejected(t *testing.T) {
	_, err := Of(ir.IntType(7))
	require.Error(t, err)
}

func TestSizeInBytes_MatchesType(t *testing.T) {
	assert.Equal(t, int64(4), SizeInBytes(ir.IntType(32)))
	assert.Equal(t, int64(8), SizeInBytes(ir.IntType(64)))
}

func TestShape_String(t *testing.T) {
	assert.Equal(t, "scalar64", ShapeScalar64.String())
}
