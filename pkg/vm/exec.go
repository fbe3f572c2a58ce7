package vm

import "fmt"

// The execution unit: one state-transition function per opcode, shared by
// every dispatch strategy so the semantics exist in exactly one place.

func (st *State) store(rptr, rval byte) {
	st.Data[dataIndex(st.R[rptr])] = byte(st.R[rval])
}

func (st *State) load(rptr, rdst byte) {
	st.R[rdst] = uint32(st.Data[dataIndex(st.R[rptr])])
}

func (st *State) add(rdst, rsrc byte) {
	res := uint64(st.R[rdst]) + uint64(st.R[rsrc])
	st.R[rdst] = uint32(res)
	st.setFlags(res)
}

func (st *State) sub(rdst, rsrc byte) {
	res := uint64(st.R[rdst]) - uint64(st.R[rsrc])
	st.R[rdst] = uint32(res)
	st.setFlags(res)
}

func (st *State) movr(rdst, rsrc byte) {
	st.R[rdst] = st.R[rsrc]
}

func (st *State) movi(rdst, imm8 byte) {
	st.R[rdst] = uint32(imm8)
}

// condHolds evaluates a branch predicate against the current flags.
// CondLessThan is the two-flag signed comparison idiom: Negative XOR Overflow.
func condHolds(c Cond, flags uint8) bool {
	switch c {
	case CondEqual:
		return flags&FlagZero != 0
	case CondNotEqual:
		return flags&FlagZero == 0
	case CondLessThan:
		return (flags&FlagNegative != 0) != (flags&FlagOverflow != 0)
	}
	return false
}

// exec runs one decoded instruction against st, including the program counter
// advance. Taken branches add the displacement and then still advance by the
// fixed 6-byte width, so the effective target is pc + disp + 6; displacement
// constants in code segments are tuned to that convention. Halt leaves the
// program counter on the halt instruction and reports halted=true.
func exec(st *State, in Instruction) (halted bool, err error) {
	switch in.Op {
	case OpStore:
		st.store(in.A, in.B)
		st.PC += regWidth
	case OpLoad:
		st.load(in.A, in.B)
		st.PC += regWidth
	case OpAdd:
		st.add(in.A, in.B)
		st.PC += regWidth
	case OpSub:
		st.sub(in.A, in.B)
		st.PC += regWidth
	case OpMovr:
		st.movr(in.A, in.B)
		st.PC += regWidth
	case OpMovi:
		st.movi(in.A, in.B)
		st.PC += regWidth
	case OpBranch:
		if condHolds(in.Cond, st.Flags) {
			st.PC += uint32(in.Disp)
		}
		st.PC += branchWidth
	case OpHalt:
		return true, nil
	default:
		// Decode rejects undefined opcodes; this only fires on a
		// hand-built Instruction.
		return false, fmt.Errorf("%w: opcode 0x%02x at pc %d", ErrIllegalInstruction, byte(in.Op), st.PC)
	}
	return false, nil
}
