package vm

// genericInterp is the reference dispatch loop: re-read the program counter
// every iteration, decode, execute. The other strategies must match its
// observable behavior exactly.
type genericInterp struct{}

func (genericInterp) run(st *State, h *hooks) error {
	for {
		in, err := Decode(st.Code, st.PC)
		if err != nil {
			return err
		}
		if err := h.before(st, in); err != nil {
			return err
		}
		pc := st.PC
		halted, err := exec(st, in)
		if err != nil {
			return err
		}
		if halted {
			return nil
		}
		h.after(pc, in, st)
	}
}
