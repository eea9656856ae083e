package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Identity(t *testing.T) {
	m, err := Parse(`define i32 @id(i32 %x) { entry: ret i32 %x }`)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)

	fn := m.Functions[0]
	assert.Equal(t, "id", fn.Name)
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", fn.Params[0].Name)
	require.Len(t, fn.Blocks, 1)
	assert.Equal(t, "entry", fn.Blocks[0].Name)

	ret := fn.Blocks[0].Terminator()
	require.NotNil(t, ret)
	assert.Equal(t, OpRet, ret.Op)
	assert.True(t, ret.HasRetValue)
	assert.Equal(t, "x", ret.Value.Name)
}

func TestParse_Add(t *testing.T) {
	src := `define i32 @add(i32 %a, i32 %b) {
entry:
  %r = add i32 %a, %b
  ret i32 %r
}`
	m, err := Parse(src)
	require.NoError(t, err)
	fn := m.Functions[0]
	require.Len(t, fn.Blocks[0].Instructions, 2)
	add := fn.Blocks[0].Instructions[0]
	assert.Equal(t, OpAdd, add.Op)
	assert.Equal(t, "r", add.Result)
	assert.Equal(t, "a", add.Lhs.Name)
	assert.Equal(t, "b", add.Rhs.Name)
}

func TestParse_Branch(t *testing.T) {
	src := `define i32 @max(i32 %a, i32 %b) {
entry:
  %c = icmp sgt i32 %a, %b
  br i1 %c, label %ta, label %tb
ta:
  ret i32 %a
tb:
  ret i32 %b
}`
	m, err := Parse(src)
	require.NoError(t, err)
	fn := m.Functions[0]
	require.Len(t, fn.Blocks, 3)

	cmp := fn.Blocks[0].Instructions[0]
	assert.Equal(t, OpICmp, cmp.Op)
	assert.Equal(t, Sgt, cmp.Pred)

	br := fn.Blocks[0].Instructions[1]
	assert.Equal(t, OpCondBr, br.Op)
	assert.Equal(t, "ta", br.TrueDest)
	assert.Equal(t, "tb", br.FalseDest)

	assert.True(t, fn.Blocks[1].Terminator().IsTerminator())
	assert.True(t, fn.Blocks[2].Terminator().IsTerminator())
}

func TestParse_DuplicateLabelRejected(t *testing.T) {
	src := `define i32 @f() {
a:
  ret i32 0
a:
  ret i32 0
}`
	_, err := Parse(src)
	require.Error(t, err)
}

func TestParse_UnknownBranchTargetRejected(t *testing.T) {
	src := `define i32 @f() {
entry:
  br label %nope
}`
	_, err := Parse(src)
	require.Error(t, err)
}

func TestParse_Declare(t *testing.T) {
	m, err := Parse(`declare i32 @puts(ptr)`)
	require.NoError(t, err)
	require.Len(t, m.Functions, 1)
	assert.True(t, m.Functions[0].Declared)
	assert.Nil(t, m.Functions[0].Entry())
}

func TestParse_Phi(t *testing.T) {
	src := `define i32 @f(i32 %a, i32 %b, i1 %c) {
entry:
  br i1 %c, label %t, label %f
t:
  br label %join
f:
  br label %join
join:
  %r = phi i32 [ %a, %t ], [ %b, %f ]
  ret i32 %r
}`
	m, err := Parse(src)
	require.NoError(t, err)
	fn := m.Functions[0]
	join := fn.Block("join")
	require.NotNil(t, join)
	phi := join.Instructions[0]
	assert.Equal(t, OpPhi, phi.Op)
	require.Len(t, phi.Incoming, 2)
}

func TestParse_DeterministicTwice(t *testing.T) {
	src := `define i32 @id(i32 %x) { entry: ret i32 %x }`
	m1, err1 := Parse(src)
	m2, err2 := Parse(src)
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, m1.Functions[0].Name, m2.Functions[0].Name)
	assert.Equal(t, len(m1.Functions[0].Blocks), len(m2.Functions[0].Blocks))
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := Parse(`this is not ir`)
	require.Error(t, err)
}
