package vm

const (
	// NumRegisters is the number of general-purpose registers (r0-r15).
	NumRegisters = 16

	// DataSegmentSize is the fixed size of the mutable data segment.
	DataSegmentSize = 256
)

// Flag constants
const (
	FlagZero     uint8 = 1 << 0 // result was zero
	FlagNegative uint8 = 1 << 1 // bit 31 of the truncated result is set
	FlagOverflow uint8 = 1 << 2 // the 32-bit truncation changed the value
)

// State is the complete machine state driven by a dispatch loop. It is
// exclusively owned by the goroutine running that loop; the code segment is
// the only part that may be shared between instances, and only read.
type State struct {
	R     [NumRegisters]uint32 // general-purpose registers
	Flags uint8                // condition flags, fully recomputed by arithmetic
	PC    uint32               // byte offset into the code segment

	Code []byte                // read-only program bytes
	Data [DataSegmentSize]byte // private scratch memory
}

// NewState creates a machine state over the given code segment with register 0
// seeded to input and everything else zeroed.
func NewState(code []byte, input uint32) *State {
	st := &State{Code: code}
	st.R[0] = input
	return st
}

// Reset zeroes registers, flags, the program counter and the data segment,
// keeps the code segment, and reseeds register 0.
func (st *State) Reset(input uint32) {
	st.R = [NumRegisters]uint32{}
	st.Flags = 0
	st.PC = 0
	st.Data = [DataSegmentSize]byte{}
	st.R[0] = input
}

// computeFlags derives the full flag set from a widened 64-bit intermediate
// arithmetic result. Overflow means the 32-bit truncation discarded nonzero
// high bits, which for subtraction also covers an unsigned borrow.
func computeFlags(res uint64) uint8 {
	var f uint8
	if res == 0 {
		f |= FlagZero
	}
	if int32(uint32(res)) < 0 {
		f |= FlagNegative
	}
	if res&^uint64(0xFFFFFFFF) != 0 {
		f |= FlagOverflow
	}
	return f
}

func (st *State) setFlags(res uint64) {
	st.Flags = computeFlags(res)
}

// dataIndex converts a register value into a data segment offset: only the
// low 8 bits are used, interpreted as signed, with negative addresses
// wrapping into the top half of the segment. This narrowing is part of the
// machine definition, not a convenience.
func dataIndex(v uint32) int {
	return int(int8(v)) & (DataSegmentSize - 1)
}
