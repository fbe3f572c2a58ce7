package vm

import (
	"bytes"
	"fmt"
)

// Disassemble converts a code segment to assembly-style text, one line per
// instruction prefixed with its byte offset. Branch lines include the
// resolved target. Bytes that do not decode are emitted as raw data so a
// damaged segment still renders end to end.
func Disassemble(code []byte) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "; %d bytes\n", len(code))

	pc := uint32(0)
	for uint64(pc) < uint64(len(code)) {
		in, err := Decode(code, pc)
		if err != nil {
			fmt.Fprintf(&buf, "%04d: .byte 0x%02x\n", pc, code[pc])
			pc++
			continue
		}
		if in.Op == OpBranch {
			fmt.Fprintf(&buf, "%04d: %s ; -> %d\n", pc, in, pc+uint32(in.Disp)+branchWidth)
		} else {
			fmt.Fprintf(&buf, "%04d: %s\n", pc, in)
		}
		pc += in.Width()
	}

	return buf.String()
}
