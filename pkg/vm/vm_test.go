package vm

import (
	"context"
	"errors"
	"testing"
)

// ===== End-to-end: the embedded demonstration program =====

func TestVM_FibProgram(t *testing.T) {
	tests := []struct {
		input uint32
		want  uint32
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 3},
		{4, 5},
		{5, 8},
		{6, 13},
		{7, 21},
		{10, 89},
		{12, 233},
	}

	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	for _, tt := range tests {
		got, err := v.Execute(tt.input)
		if err != nil {
			t.Fatalf("Execute(%d) failed: %v", tt.input, err)
		}
		if got != tt.want {
			t.Errorf("fib(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestVM_FibResultPassesThroughDataSegment(t *testing.T) {
	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := v.Execute(5); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	st := v.State()
	if st.Data[0] != 8 {
		t.Errorf("Data[0] = %d, want 8", st.Data[0])
	}
	if st.PC != uint32(len(FibCode)-1) {
		t.Errorf("PC = %d, want %d (resting on HALT)", st.PC, len(FibCode)-1)
	}
}

// ===== Fatal conditions =====

func TestVM_IllegalInstruction(t *testing.T) {
	code := asm(op3(OpMovi, 1, 7), []byte{'X', 0, 0}, halt())

	v := New()
	if err := v.Load(code); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	_, err := v.Execute(0)
	if !errors.Is(err, ErrIllegalInstruction) {
		t.Fatalf("got %v, want ErrIllegalInstruction", err)
	}

	// The failed decode must not have mutated state beyond the
	// instructions that already ran.
	st := v.State()
	if st.R[1] != 7 {
		t.Errorf("R[1] = %d, want 7", st.R[1])
	}
	if st.PC != 3 {
		t.Errorf("PC = %d, want 3 (stopped at the illegal byte)", st.PC)
	}
	if st.Flags != 0 {
		t.Errorf("Flags = %03b, want clear", st.Flags)
	}
}

func TestVM_IllegalBranchCondition(t *testing.T) {
	code := asm([]byte{'B', 'Q', 0, 0, 0, 0}, halt())

	v := New()
	if err := v.Load(code); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := v.Execute(0); !errors.Is(err, ErrIllegalInstruction) {
		t.Errorf("got %v, want ErrIllegalInstruction", err)
	}
}

func TestVM_RunsOffCodeSegment(t *testing.T) {
	// No halt: the generic loop must fail with a defined error rather
	// than read past the segment.
	code := asm(op3(OpMovi, 1, 1), op3(OpAdd, 1, 1))

	v := New()
	if err := v.Load(code); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := v.Execute(0); !errors.Is(err, ErrPCOutOfRange) {
		t.Errorf("got %v, want ErrPCOutOfRange", err)
	}
}

func TestVM_ExecuteWithoutProgram(t *testing.T) {
	v := New()
	if _, err := v.Execute(1); !errors.Is(err, ErrNoProgram) {
		t.Errorf("got %v, want ErrNoProgram", err)
	}
	if err := v.Load(nil); !errors.Is(err, ErrNoProgram) {
		t.Errorf("Load(nil): got %v, want ErrNoProgram", err)
	}
}

// ===== Resource limits and cancellation =====

func TestVM_MaxSteps(t *testing.T) {
	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v.SetMaxSteps(3)

	if _, err := v.Execute(30); !errors.Is(err, ErrInstructionLimit) {
		t.Errorf("got %v, want ErrInstructionLimit", err)
	}

	// A generous limit must not interfere.
	v.SetMaxSteps(100000)
	got, err := v.Execute(5)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got != 8 {
		t.Errorf("got %d, want 8", got)
	}
}

func TestVM_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v.SetContext(ctx)

	if _, err := v.Execute(5); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

// ===== Tracing and statistics =====

func TestVM_Tracer(t *testing.T) {
	var pcs []uint32
	var ops []Opcode

	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	v.SetTracer(TracerFunc(func(pc uint32, in Instruction) {
		pcs = append(pcs, pc)
		ops = append(ops, in.Op)
	}))

	if _, err := v.Execute(0); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// Input 0: three moves, flag setup, taken BEQ, epilogue, halt.
	wantPCs := []uint32{0, 3, 6, 9, 12, 15, 48, 51, 54, 57}
	if len(pcs) != len(wantPCs) {
		t.Fatalf("traced %d steps, want %d (%v)", len(pcs), len(wantPCs), pcs)
	}
	for i := range wantPCs {
		if pcs[i] != wantPCs[i] {
			t.Errorf("step %d at pc %d, want %d", i, pcs[i], wantPCs[i])
		}
	}
	if ops[len(ops)-1] != OpHalt {
		t.Errorf("last traced opcode = %v, want HALT", ops[len(ops)-1])
	}
}

func TestVM_Stats(t *testing.T) {
	v := New()
	if err := v.Load(FibCode); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if v.Stats() != nil {
		t.Error("Stats must be nil before EnableStats")
	}

	v.EnableStats()
	if _, err := v.Execute(5); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	stats := v.Stats()
	if stats == nil {
		t.Fatal("Stats returned nil after EnableStats")
	}
	if stats.StepsExecuted == 0 {
		t.Error("StepsExecuted = 0")
	}
	if stats.OpCounts["HALT"] != 1 {
		t.Errorf("OpCounts[HALT] = %d, want 1", stats.OpCounts["HALT"])
	}
	// Input 5: the entry BEQ falls through, the loop BEQ falls through
	// four times then exits, and the closing BNE loops back four times.
	if stats.BranchesTaken != 5 {
		t.Errorf("BranchesTaken = %d, want 5", stats.BranchesTaken)
	}
	if stats.BranchesNotTaken != 5 {
		t.Errorf("BranchesNotTaken = %d, want 5", stats.BranchesNotTaken)
	}
}
