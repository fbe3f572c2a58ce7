package vm

// Opcode is the single-byte instruction tag. Tags are ASCII-coded so a code
// segment is half readable in a hex dump.
type Opcode byte

const (
	OpStore  Opcode = 'S' // data[r[a]] = r[b] (low 8 bits)
	OpLoad   Opcode = 'L' // r[b] = data[r[a]]
	OpAdd    Opcode = 'A' // r[a] = r[a] + r[b]; flags updated
	OpSub    Opcode = 'U' // r[a] = r[a] - r[b]; flags updated
	OpMovr   Opcode = 'M' // r[a] = r[b]
	OpMovi   Opcode = 'I' // r[a] = imm8 (zero-extended)
	OpBranch Opcode = 'B' // conditional pc displacement, 6-byte encoding
	OpHalt   Opcode = 'H' // stop execution, result is r0
)

// Instruction widths in bytes.
const (
	regWidth    = 3
	branchWidth = 6
	haltWidth   = 1
)

// Valid reports whether o is one of the eight defined opcodes.
func (o Opcode) Valid() bool {
	switch o {
	case OpStore, OpLoad, OpAdd, OpSub, OpMovr, OpMovi, OpBranch, OpHalt:
		return true
	}
	return false
}

// Width returns the encoded width of an instruction with this opcode,
// or 0 for an undefined opcode.
func (o Opcode) Width() uint32 {
	switch o {
	case OpBranch:
		return branchWidth
	case OpHalt:
		return haltWidth
	case OpStore, OpLoad, OpAdd, OpSub, OpMovr, OpMovi:
		return regWidth
	}
	return 0
}

// String returns the mnemonic for an opcode.
func (o Opcode) String() string {
	switch o {
	case OpStore:
		return "STORE"
	case OpLoad:
		return "LOAD"
	case OpAdd:
		return "ADD"
	case OpSub:
		return "SUB"
	case OpMovr:
		return "MOVR"
	case OpMovi:
		return "MOVI"
	case OpBranch:
		return "B"
	case OpHalt:
		return "HALT"
	default:
		return "UNKNOWN"
	}
}

// Cond is the branch condition sub-tag carried in the second byte of a
// branch instruction.
type Cond byte

const (
	CondEqual    Cond = 'E' // Zero flag set
	CondNotEqual Cond = 'N' // Zero flag clear
	CondLessThan Cond = 'L' // Negative XOR Overflow
)

// Valid reports whether c is one of the three defined conditions.
func (c Cond) Valid() bool {
	switch c {
	case CondEqual, CondNotEqual, CondLessThan:
		return true
	}
	return false
}

// String returns the condition suffix used in branch mnemonics.
func (c Cond) String() string {
	switch c {
	case CondEqual:
		return "EQ"
	case CondNotEqual:
		return "NE"
	case CondLessThan:
		return "LT"
	default:
		return "??"
	}
}
