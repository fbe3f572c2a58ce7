// Package vm implements a small register-based bytecode virtual machine.
//
// The machine has 16 unsigned 32-bit registers, three condition flags
// (Zero, Negative, Overflow) recomputed on every arithmetic instruction,
// an immutable code segment addressed by a byte-offset program counter, and
// a private 256-byte data segment reached through signed-8-bit addresses.
// Eight ASCII-tagged opcodes are defined; anything else is an illegal
// instruction.
//
// Basic usage:
//
//	v := vm.New()
//	if err := v.Load(vm.FibCode); err != nil { ... }
//	out, err := v.Execute(5) // out == 8
//
// Three dispatch strategies drive the same execution unit and are observably
// equivalent for any program: the generic fetch/decode/execute loop, a
// program-counter-specialized loop that predecodes a bounded table, and a
// transition-specialized loop that additionally links each table entry to its
// statically known successors. The specialized strategies exist purely as
// dispatch-performance designs and report ErrPCOutOfRange when the program
// counter leaves their table.
package vm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error definitions
var (
	// ErrIllegalInstruction reports an undefined opcode or branch
	// condition byte at the current program counter.
	ErrIllegalInstruction = errors.New("illegal instruction")

	// ErrPCOutOfRange reports a program counter outside the code segment,
	// or outside a specialized dispatch table.
	ErrPCOutOfRange = errors.New("program counter out of range")

	// ErrInstructionLimit reports that the configured step limit was hit
	// before the program halted.
	ErrInstructionLimit = errors.New("instruction limit exceeded")

	// ErrNoProgram reports Execute without a loaded code segment.
	ErrNoProgram = errors.New("no program loaded")
)

// Strategy selects a dispatch loop implementation. All strategies execute
// identical semantics.
type Strategy int

const (
	StrategyGeneric    Strategy = iota // fetch/decode/execute loop, the reference semantics
	StrategyPC                         // dispatch specialized to the program counter
	StrategyTransition                 // dispatch specialized to program counter transitions
)

// String returns the name accepted by ParseStrategy.
func (s Strategy) String() string {
	switch s {
	case StrategyGeneric:
		return "generic"
	case StrategyPC:
		return "pc"
	case StrategyTransition:
		return "transition"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy returns the strategy named by s.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "generic":
		return StrategyGeneric, nil
	case "pc":
		return StrategyPC, nil
	case "transition":
		return StrategyTransition, nil
	default:
		return 0, fmt.Errorf("unknown dispatch strategy: %q", s)
	}
}

// dispatcher drives a machine state to completion. The three implementations
// differ only in how they select the next instruction.
type dispatcher interface {
	run(st *State, h *hooks) error
}

// hooks carries the cross-cutting per-step concerns (cancellation, step
// limit, tracing, statistics) so each dispatch loop stays a pure
// control-transfer mechanism.
type hooks struct {
	maxSteps int64
	steps    int64
	ctx      context.Context
	tracer   Tracer
	stats    *ExecutionStats
}

func (h *hooks) before(st *State, in Instruction) error {
	if h.ctx != nil {
		select {
		case <-h.ctx.Done():
			return h.ctx.Err()
		default:
		}
	}
	h.steps++
	if h.maxSteps > 0 && h.steps > h.maxSteps {
		return ErrInstructionLimit
	}
	if h.tracer != nil {
		h.tracer.Trace(st.PC, in)
	}
	if h.stats != nil {
		h.stats.StepsExecuted++
		h.stats.OpCounts[in.Op.String()]++
	}
	return nil
}

func (h *hooks) after(prevPC uint32, in Instruction, st *State) {
	if h.stats == nil || in.Op != OpBranch {
		return
	}
	if st.PC == prevPC+branchWidth {
		h.stats.BranchesNotTaken++
	} else {
		h.stats.BranchesTaken++
	}
}

// VM runs programs against fresh machine states. A VM is not safe for
// concurrent use; the code segment it holds is never written and may be
// shared across VMs.
type VM struct {
	code     []byte
	st       *State
	strategy Strategy

	maxSteps int64
	ctx      context.Context
	tracer   Tracer

	stats        ExecutionStats
	statsEnabled bool
}

// New creates a VM using the generic dispatch strategy.
func New() *VM {
	return &VM{}
}

// Load sets the code segment for subsequent Execute calls. The caller must
// not mutate code afterwards.
func (vm *VM) Load(code []byte) error {
	if len(code) == 0 {
		return ErrNoProgram
	}
	vm.code = code
	vm.st = nil
	return nil
}

// SetStrategy selects the dispatch strategy for subsequent Execute calls.
func (vm *VM) SetStrategy(s Strategy) {
	vm.strategy = s
}

// SetMaxSteps limits the number of instructions a single Execute may run.
// Zero means unlimited.
func (vm *VM) SetMaxSteps(n int64) {
	vm.maxSteps = n
}

// SetContext sets the context checked between instructions for
// cancellation or timeout.
func (vm *VM) SetContext(ctx context.Context) {
	vm.ctx = ctx
}

// SetTracer installs a per-instruction trace hook. A nil tracer disables
// tracing.
func (vm *VM) SetTracer(t Tracer) {
	vm.tracer = t
}

// EnableStats turns on execution statistics collection for subsequent
// Execute calls.
func (vm *VM) EnableStats() {
	vm.statsEnabled = true
}

// Stats returns the statistics from the last Execute call, or nil if stats
// were not enabled.
func (vm *VM) Stats() *ExecutionStats {
	if !vm.statsEnabled {
		return nil
	}
	return &vm.stats
}

// State returns the machine state of the last Execute call for inspection.
// It is nil before the first Execute.
func (vm *VM) State() *State {
	return vm.st
}

// Execute creates a fresh machine state with register 0 seeded to input and
// drives it with the configured dispatch strategy until it halts or fails.
// On a normal halt the final value of register 0 is returned. Fatal
// conditions surface as ErrIllegalInstruction or ErrPCOutOfRange; neither is
// recoverable within the run.
func (vm *VM) Execute(input uint32) (uint32, error) {
	if vm.code == nil {
		return 0, ErrNoProgram
	}
	vm.st = NewState(vm.code, input)

	var d dispatcher
	switch vm.strategy {
	case StrategyPC:
		d = newPCInterp(vm.code)
	case StrategyTransition:
		d = newTransitionInterp(vm.code)
	default:
		d = genericInterp{}
	}

	h := &hooks{maxSteps: vm.maxSteps, ctx: vm.ctx, tracer: vm.tracer}
	var start time.Time
	if vm.statsEnabled {
		vm.stats = ExecutionStats{OpCounts: make(map[string]int64)}
		h.stats = &vm.stats
		start = time.Now()
	}

	err := d.run(vm.st, h)

	if vm.statsEnabled {
		vm.stats.ExecutionTimeNs = time.Since(start).Nanoseconds()
	}
	if err != nil {
		return 0, err
	}
	return vm.st.R[0], nil
}
