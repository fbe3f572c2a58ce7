package vm

import (
	"encoding/binary"
	"fmt"
)

// Instruction is a decoded view of 1, 3 or 6 contiguous code bytes. Register
// instructions carry two operand bytes; branches carry a condition and a
// 32-bit little-endian signed displacement.
type Instruction struct {
	Op   Opcode
	A    byte  // first operand byte (register index)
	B    byte  // second operand byte (register index or imm8)
	Cond Cond  // branch condition, OpBranch only
	Disp int32 // branch displacement, OpBranch only
}

// Width returns the encoded width of the instruction in bytes.
func (in Instruction) Width() uint32 {
	return in.Op.Width()
}

// String returns a disassembly-style rendering of the instruction.
func (in Instruction) String() string {
	switch in.Op {
	case OpStore, OpLoad, OpAdd, OpSub, OpMovr:
		return fmt.Sprintf("%-5s r%d, r%d", in.Op, in.A, in.B)
	case OpMovi:
		return fmt.Sprintf("%-5s r%d, %d", in.Op, in.A, in.B)
	case OpBranch:
		return fmt.Sprintf("B%s   %+d", in.Cond, in.Disp)
	case OpHalt:
		return "HALT"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", byte(in.Op))
	}
}

// Decode interprets the bytes at pc as one instruction. It never mutates
// anything and never reads past the end of code: a pc at or beyond the
// segment end, or an instruction whose encoding would run past it, is
// ErrPCOutOfRange; an undefined opcode or branch condition byte is
// ErrIllegalInstruction.
func Decode(code []byte, pc uint32) (Instruction, error) {
	if uint64(pc) >= uint64(len(code)) {
		return Instruction{}, fmt.Errorf("%w: pc %d beyond %d-byte code segment", ErrPCOutOfRange, pc, len(code))
	}
	op := Opcode(code[pc])
	if !op.Valid() {
		return Instruction{}, fmt.Errorf("%w: opcode 0x%02x at pc %d", ErrIllegalInstruction, byte(op), pc)
	}
	if uint64(pc)+uint64(op.Width()) > uint64(len(code)) {
		return Instruction{}, fmt.Errorf("%w: truncated %s at pc %d", ErrPCOutOfRange, op, pc)
	}

	switch op {
	case OpHalt:
		return Instruction{Op: op}, nil
	case OpBranch:
		cond := Cond(code[pc+1])
		if !cond.Valid() {
			return Instruction{}, fmt.Errorf("%w: branch condition 0x%02x at pc %d", ErrIllegalInstruction, byte(cond), pc)
		}
		disp := int32(binary.LittleEndian.Uint32(code[pc+2 : pc+6]))
		return Instruction{Op: op, Cond: cond, Disp: disp}, nil
	default:
		return Instruction{Op: op, A: code[pc+1], B: code[pc+2]}, nil
	}
}
