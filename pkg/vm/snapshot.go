package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical options so equal snapshots always encode to
// identical bytes, which lets cross-strategy conformance be checked bytewise.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Snapshot is a value copy of the observable machine state after execution.
type Snapshot struct {
	Registers [NumRegisters]uint32 `cbor:"registers"`
	Flags     uint8                `cbor:"flags"`
	PC        uint32               `cbor:"pc"`
	Data      []byte               `cbor:"data"`
}

// Snapshot copies the observable machine state out of st.
func (st *State) Snapshot() *Snapshot {
	s := &Snapshot{
		Registers: st.R,
		Flags:     st.Flags,
		PC:        st.PC,
		Data:      make([]byte, DataSegmentSize),
	}
	copy(s.Data, st.Data[:])
	return s
}

// MarshalSnapshot serializes a Snapshot to canonical CBOR bytes.
func MarshalSnapshot(s *Snapshot) ([]byte, error) {
	return cborEncMode.Marshal(s)
}

// UnmarshalSnapshot deserializes a Snapshot from CBOR bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("vm: unmarshal snapshot: %w", err)
	}
	return &s, nil
}
