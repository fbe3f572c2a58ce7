package vm

import "fmt"

// MaxSpecializedPC bounds the dispatch tables of the specialized strategies.
// A program counter at or beyond this bound is a fatal condition distinct
// from an illegal instruction.
const MaxSpecializedPC = 64

// pcEntry is the decode result for one fixed program counter value. Offsets
// that do not start a valid instruction (including mid-instruction offsets)
// keep their decode error and only surface it if execution actually lands
// there.
type pcEntry struct {
	in  Instruction
	err error
}

// pcInterp specializes dispatch to the program counter: every code position
// below MaxSpecializedPC is decoded once at construction, so the run loop
// performs no address computation or decoding per step.
type pcInterp struct {
	entries [MaxSpecializedPC]pcEntry
}

func newPCInterp(code []byte) *pcInterp {
	d := &pcInterp{}
	for pc := uint32(0); pc < MaxSpecializedPC; pc++ {
		d.entries[pc].in, d.entries[pc].err = Decode(code, pc)
	}
	return d
}

func (d *pcInterp) run(st *State, h *hooks) error {
	for {
		pc := st.PC
		if pc >= MaxSpecializedPC {
			return fmt.Errorf("%w: pc %d outside specialized dispatch table", ErrPCOutOfRange, pc)
		}
		e := &d.entries[pc]
		if e.err != nil {
			return e.err
		}
		if err := h.before(st, e.in); err != nil {
			return err
		}
		halted, err := exec(st, e.in)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		h.after(pc, e.in, st)
	}
}
