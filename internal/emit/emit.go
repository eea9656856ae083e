// Package emit serializes a finished target program to bytes via a fixed,
// versioned binary encoding, and deserializes it back (spec.md §4.7,
// §8 P9 round-trip property). The layout is this repo's own design: the
// Rust reference's emitter is a one-line bincode call with no format of
// its own to borrow (SPEC_FULL.md §12).
package emit

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/zkirc-project/zkirc/internal/isa"
)

// magic identifies the container format; version allows the layout to
// change without silently misreading an old artifact.
const (
	magic   uint32 = 0x7a6b6972 // "zkir"
	version uint32 = 1

	headerSize = 4 + 4 + 4 + 4 // magic, version, entry offset, instruction count
)

// Program is the fully translated, allocated, and call-resolved target
// program: a flat instruction stream plus the byte offset execution
// begins at.
type Program struct {
	EntryOffset  uint32
	Instructions []isa.Instruction
}

// Error is the SerializationError kind from spec.md §7.
type Error struct {
	Detail string
}

func (e *Error) Error() string { return "SerializationError: " + e.Detail }

func serializationError(detail string) error {
	return errors.WithStack(&Error{Detail: detail})
}

// Serialize encodes p as a pure function of its contents: header (magic,
// version, entry offset, instruction count) followed by each
// instruction's fixed 8-byte record (opcode, rd, rs1, rs2, little-endian
// signed immediate) per SPEC_FULL.md §11.
func Serialize(p Program) []byte {
	buf := make([]byte, headerSize+len(p.Instructions)*isa.Size)
	binary.LittleEndian.PutUint32(buf[0:4], magic)
	binary.LittleEndian.PutUint32(buf[4:8], version)
	binary.LittleEndian.PutUint32(buf[8:12], p.EntryOffset)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(p.Instructions)))

	off := headerSize
	for _, in := range p.Instructions {
		buf[off+0] = byte(in.Op)
		buf[off+1] = byte(in.Rd)
		buf[off+2] = byte(in.Rs1)
		buf[off+3] = byte(in.Rs2)
		binary.LittleEndian.PutUint32(buf[off+4:off+8], uint32(in.Imm))
		off += isa.Size
	}
	return buf
}

// Deserialize decodes bytes produced by Serialize, validating the magic,
// version, and declared instruction count against the buffer's actual
// length.
func Deserialize(b []byte) (Program, error) {
	if len(b) < headerSize {
		return Program{}, serializationError("buffer shorter than header")
	}
	if got := binary.LittleEndian.Uint32(b[0:4]); got != magic {
		return Program{}, serializationError("bad magic")
	}
	if got := binary.LittleEndian.Uint32(b[4:8]); got != version {
		return Program{}, serializationError("unsupported version")
	}
	entry := binary.LittleEndian.Uint32(b[8:12])
	count := binary.LittleEndian.Uint32(b[12:16])

	want := headerSize + int(count)*isa.Size
	if len(b) != want {
		return Program{}, serializationError("instruction count does not match buffer length")
	}

	instrs := make([]isa.Instruction, count)
	off := headerSize
	for i := range instrs {
		instrs[i] = isa.Instruction{
			Op:  isa.Opcode(b[off+0]),
			Rd:  isa.Register(b[off+1]),
			Rs1: isa.Register(b[off+2]),
			Rs2: isa.Register(b[off+3]),
			Imm: int32(binary.LittleEndian.Uint32(b[off+4 : off+8])),
		}
		off += isa.Size
	}
	return Program{EntryOffset: entry, Instructions: instrs}, nil
}
