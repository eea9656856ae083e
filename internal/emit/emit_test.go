package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkirc-project/zkirc/internal/isa"
)

func TestSerializeDeserialize_RoundTrip(t *testing.T) {
	p := Program{
		EntryOffset: 8,
		Instructions: []isa.Instruction{
			{Op: isa.OpAddi, Rd: isa.RegT0, Rs1: isa.RegZero, Imm: 42},
			{Op: isa.OpAdd, Rd: isa.RegA0, Rs1: isa.RegT0, Rs2: isa.RegT0},
			{Op: isa.OpJal, Rd: isa.RegZero, Imm: -16},
			{Op: isa.OpRet},
		},
	}
	buf := Serialize(p)
	got, err := Deserialize(buf)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestSerialize_HeaderFields(t *testing.T) {
	p := Program{EntryOffset: 0, Instructions: nil}
	buf := Serialize(p)
	require.Len(t, buf, headerSize)
	assert.Equal(t, magic, leU32(buf[0:4]))
	assert.Equal(t, version, leU32(buf[4:8]))
}

func TestDeserialize_RejectsBadMagic(t *testing.T) {
	buf := Serialize(Program{})
	buf[0] ^= 0xFF
	_, err := Deserialize(buf)
	require.Error(t, err)
}

func TestDeserialize_RejectsTruncatedBuffer(t *testing.T) {
	_, err := Deserialize([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDeserialize_RejectsLengthMismatch(t *testing.T) {
	buf := Serialize(Program{Instructions: []isa.Instruction{{Op: isa.OpRet}}})
	truncated := buf[:len(buf)-1]
	_, err := Deserialize(truncated)
	require.Error(t, err)
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
