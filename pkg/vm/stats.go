package vm

import (
	"sort"

	dataframe "github.com/rocketlaunchr/dataframe-go"
)

// ExecutionStats contains metrics about a single Execute call for
// observability. Collection is off unless enabled on the VM.
type ExecutionStats struct {
	StepsExecuted    int64            // total instructions executed
	ExecutionTimeNs  int64            // wall time of the dispatch loop
	BranchesTaken    int64            // branch instructions whose condition held
	BranchesNotTaken int64            // branch instructions that fell through
	OpCounts         map[string]int64 // executed count per mnemonic
}

// Frame renders the per-opcode execution profile as a DataFrame with one row
// per mnemonic, sorted by mnemonic for deterministic output.
func (s *ExecutionStats) Frame() *dataframe.DataFrame {
	names := make([]string, 0, len(s.OpCounts))
	for name := range s.OpCounts {
		names = append(names, name)
	}
	sort.Strings(names)

	ops := make([]interface{}, len(names))
	counts := make([]interface{}, len(names))
	for i, name := range names {
		ops[i] = name
		counts[i] = s.OpCounts[name]
	}

	return dataframe.NewDataFrame(
		dataframe.NewSeriesString("opcode", nil, ops...),
		dataframe.NewSeriesInt64("count", nil, counts...),
	)
}
