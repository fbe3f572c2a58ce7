package vm

import "testing"

func TestNewState_SeedsRegisterZero(t *testing.T) {
	st := NewState(FibCode, 42)

	if st.R[0] != 42 {
		t.Errorf("R[0] = %d, want 42", st.R[0])
	}
	for i := 1; i < NumRegisters; i++ {
		if st.R[i] != 0 {
			t.Errorf("R[%d] = %d, want 0", i, st.R[i])
		}
	}
	if st.Flags != 0 || st.PC != 0 {
		t.Errorf("Flags = %d, PC = %d, want both 0", st.Flags, st.PC)
	}
	for i, b := range st.Data {
		if b != 0 {
			t.Fatalf("Data[%d] = %d, want 0", i, b)
		}
	}
}

func TestState_Reset(t *testing.T) {
	st := NewState(FibCode, 5)
	st.R[7] = 99
	st.Flags = FlagZero | FlagOverflow
	st.PC = 21
	st.Data[10] = 0xAB

	st.Reset(3)

	if st.R[0] != 3 {
		t.Errorf("R[0] = %d, want 3", st.R[0])
	}
	if st.R[7] != 0 || st.Flags != 0 || st.PC != 0 || st.Data[10] != 0 {
		t.Error("Reset did not clear state")
	}
	if len(st.Code) != len(FibCode) {
		t.Error("Reset must keep the code segment")
	}
}

func TestComputeFlags(t *testing.T) {
	tests := []struct {
		name string
		res  uint64
		want uint8
	}{
		{"zero", 0, FlagZero},
		{"small positive", 1, 0},
		{"bit 31 set", 0x80000000, FlagNegative},
		{"max uint32", 0xFFFFFFFF, FlagNegative},
		{"carry out of 32 bits", 0x100000000, FlagOverflow},
		{"carry with nonzero low word", 0x100000001, FlagOverflow},
		{"borrow wraps to all ones", 0xFFFFFFFFFFFFFFFF, FlagNegative | FlagOverflow},
		{"high bits and bit 31", 0x180000000, FlagNegative | FlagOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeFlags(tt.res); got != tt.want {
				t.Errorf("computeFlags(%#x) = %03b, want %03b", tt.res, got, tt.want)
			}
		})
	}
}

func TestDataIndex_SignedTruncation(t *testing.T) {
	tests := []struct {
		reg  uint32
		want int
	}{
		{0, 0},
		{1, 1},
		{127, 127},
		{128, 128},         // -128 wraps to the top half
		{255, 255},         // -1 wraps to the last byte
		{256, 0},           // only the low 8 bits participate
		{0xFFFFFFFF, 255},  // -1 as a full register
		{0xDEADBE80, 128},  // high bits ignored entirely
		{0x00000180, 128},
	}

	for _, tt := range tests {
		if got := dataIndex(tt.reg); got != tt.want {
			t.Errorf("dataIndex(%#x) = %d, want %d", tt.reg, got, tt.want)
		}
	}
}
