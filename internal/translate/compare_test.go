package translate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/ir"
	"github.com/zkirc-project/zkirc/internal/isa"
)

func opsOf(c *Context) []isa.Opcode {
	var ops []isa.Opcode
	for _, in := range c.Instructions() {
		ops = append(ops, in.Op)
	}
	return ops
}

func TestTranslateICmp_Predicates(t *testing.T) {
	cases := []struct {
		pred string
		want []isa.Opcode
	}{
		{"eq", []isa.Opcode{isa.OpXor, isa.OpSltiu}},
		{"ne", []isa.Opcode{isa.OpXor, isa.OpSltu}},
		{"slt", []isa.Opcode{isa.OpSlt}},
		{"ult", []isa.Opcode{isa.OpSltu}},
		{"sgt", []isa.Opcode{isa.OpSlt}},
		{"ugt", []isa.Opcode{isa.OpSltu}},
		{"sle", []isa.Opcode{isa.OpSlt, isa.OpAddi, isa.OpXor}},
		{"ule", []isa.Opcode{isa.OpSltu, isa.OpAddi, isa.OpXor}},
		{"sge", []isa.Opcode{isa.OpSlt, isa.OpAddi, isa.OpXor}},
		{"uge", []isa.Opcode{isa.OpSltu, isa.OpAddi, isa.OpXor}},
	}

	for _, tc := range cases {
		t.Run(tc.pred, func(t *testing.T) {
			src := fmt.Sprintf(`define i32 @f(i32 %%a, i32 %%b) {
entry:
  %%c = icmp %s i32 %%a, %%b
  ret i32 %%c
}`, tc.pred)
			m, err := ir.Parse(src)
			require.NoError(t, err)
			c, err := Function(&m.Functions[0])
			require.NoError(t, err)

			ops := opsOf(c)
			// The icmp's own opcodes are a contiguous prefix before the
			// return-value move and ret.
			require.GreaterOrEqual(t, len(ops), len(tc.want))
			assert.Equal(t, tc.want, ops[:len(tc.want)])
		})
	}
}
