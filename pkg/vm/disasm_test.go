package vm

import (
	"strings"
	"testing"
)

func TestDisassemble_Fixture(t *testing.T) {
	out := Disassemble(FibCode)

	wantLines := []string{
		"0000: MOVR  r3, r0",
		"0015: BEQ   +27 ; -> 48",
		"0027: BEQ   +15 ; -> 48",
		"0042: BNE   -27 ; -> 21",
		"0054: LOAD  r0, r0",
		"0057: HALT",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("disassembly missing %q:\n%s", line, out)
		}
	}
}

func TestDisassemble_UndecodableBytes(t *testing.T) {
	code := asm(op3(OpMovi, 1, 2), []byte{0xEE}, halt())
	out := Disassemble(code)

	if !strings.Contains(out, ".byte 0xee") {
		t.Errorf("expected raw byte line, got:\n%s", out)
	}
	if !strings.Contains(out, "HALT") {
		t.Errorf("disassembly must continue past bad bytes, got:\n%s", out)
	}
}

func TestDisassemble_TruncatedTail(t *testing.T) {
	// A register instruction cut off at the end renders as raw bytes
	// instead of failing.
	code := asm(halt(), []byte{'A', 1})
	out := Disassemble(code)

	if !strings.Contains(out, ".byte 0x41") {
		t.Errorf("expected truncated ADD as raw bytes, got:\n%s", out)
	}
}
