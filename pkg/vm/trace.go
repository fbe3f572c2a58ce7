package vm

// Tracer receives every instruction about to execute, with the program
// counter it sits at. Implementations must not mutate machine state.
type Tracer interface {
	Trace(pc uint32, in Instruction)
}

// TracerFunc adapts a function to the Tracer interface.
type TracerFunc func(pc uint32, in Instruction)

// Trace calls f(pc, in).
func (f TracerFunc) Trace(pc uint32, in Instruction) {
	f(pc, in)
}
