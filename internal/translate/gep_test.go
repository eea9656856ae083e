package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
)

func TestTranslateGEP_ConstantIndexFoldsToAddi(t *testing.T) {
	src := `define i32 @f(ptr %p) {
entry:
  %e = getelementptr i32, ptr %p, i32 2
  %v = load i32, ptr %e
  ret i32 %v
}`
	m, err := ir.Parse(src)
	require.NoError(t, err)
	c, err := Function(&m.Functions[0])
	require.NoError(t, err)

	var sawAddi bool
	for _, in := range c.Instructions() {
		if in.Op == isa.OpAddi && in.Imm == 8 {
			sawAddi = true
		}
	}
	assert.True(t, sawAddi, "expected an addi with offset 2*sizeof(i32)=8")
}

func TestTranslateGEP_VariableIndexEmitsMulAdd(t *testing.T) {
	src := `define i32 @f(ptr %p, i32 %i) {
entry:
  %e = getelementptr i32, ptr %p, i32 %i
  %v = load i32, ptr %e
  ret i32 %v
}`
	m, err := ir.Parse(src)
	require.NoError(t, err)
	c, err := Function(&m.Functions[0])
	require.NoError(t, err)

	var sawMul, sawAdd bool
	for _, in := range c.Instructions() {
		if in.Op == isa.OpMul {
			sawMul = true
		}
		if in.Op == isa.OpAdd {
			sawAdd = true
		}
	}
	assert.True(t, sawMul)
	assert.True(t, sawAdd)
}
