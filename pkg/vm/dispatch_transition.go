package vm

import "fmt"

// transEntry extends the per-pc decode with the statically known successor
// positions: the fall-through successor, and for branches also the taken
// target (pc + disp + width, computable at build time).
type transEntry struct {
	in  Instruction
	err error

	isBranch bool
	seqPC    uint32
	takenPC  uint32
	seq      *transEntry // nil when seqPC is outside the table
	taken    *transEntry // nil when takenPC is outside the table
}

// transitionInterp specializes dispatch to program counter transitions: the
// run loop follows direct links between table entries instead of re-indexing
// the table at the loop head. There is no behavioral difference from the
// other strategies.
type transitionInterp struct {
	entries [MaxSpecializedPC]transEntry
}

func newTransitionInterp(code []byte) *transitionInterp {
	d := &transitionInterp{}
	for pc := uint32(0); pc < MaxSpecializedPC; pc++ {
		e := &d.entries[pc]
		e.in, e.err = Decode(code, pc)
		if e.err != nil {
			continue
		}
		e.seqPC = pc + e.in.Width()
		if e.in.Op == OpBranch {
			e.isBranch = true
			e.takenPC = pc + uint32(e.in.Disp) + branchWidth
		}
	}
	// Successor links need a second pass so every entry address is final.
	for i := range d.entries {
		e := &d.entries[i]
		if e.err != nil {
			continue
		}
		if e.seqPC < MaxSpecializedPC {
			e.seq = &d.entries[e.seqPC]
		}
		if e.isBranch && e.takenPC < MaxSpecializedPC {
			e.taken = &d.entries[e.takenPC]
		}
	}
	return d
}

func (d *transitionInterp) run(st *State, h *hooks) error {
	pc := st.PC
	if pc >= MaxSpecializedPC {
		return fmt.Errorf("%w: pc %d outside specialized dispatch table", ErrPCOutOfRange, pc)
	}
	e := &d.entries[pc]
	for {
		if e.err != nil {
			return e.err
		}
		if err := h.before(st, e.in); err != nil {
			return err
		}
		prev := st.PC
		halted, err := exec(st, e.in)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		h.after(prev, e.in, st)

		// The resulting pc is always one of the two precomputed
		// successors; anything else left the table.
		next := st.PC
		switch {
		case next == e.seqPC && e.seq != nil:
			e = e.seq
		case e.isBranch && next == e.takenPC && e.taken != nil:
			e = e.taken
		default:
			return fmt.Errorf("%w: pc %d outside specialized dispatch table", ErrPCOutOfRange, next)
		}
	}
}
