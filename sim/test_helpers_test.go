package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim/trace"
)

// mapSource is an in-memory ScriptSource for engine tests.
// sim/script cannot be imported here without a cycle.
type mapSource map[string][]string

func (m mapSource) Load(name string) ([]Instruction, error) {
	lines, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrScriptNotFound, name)
	}
	return ParseScript(lines)
}

func newTestSimulator(t *testing.T, programs map[string][]string) *Simulator {
	t.Helper()
	s, err := NewSimulator(DefaultConfig(), mapSource(programs))
	require.NoError(t, err)
	return s
}

// runChecked runs the simulator to halt and verifies the container invariants
// after every logged cycle.
func runChecked(t *testing.T, s *Simulator) HaltReason {
	t.Helper()
	s.OnCycle = func(rec trace.CycleRecord) {
		if err := s.CheckInvariants(); err != nil {
			t.Fatalf("cycle %d (%s): %v", rec.Cycle, rec.Command, err)
		}
	}
	halt, err := s.Run()
	require.NoError(t, err)
	return halt
}

// recordAt returns the record logged for cycle, failing if there is none.
func recordAt(t *testing.T, s *Simulator, cycle int64) trace.CycleRecord {
	t.Helper()
	for _, r := range s.Trace.Records {
		if r.Cycle == cycle {
			return r
		}
	}
	t.Fatalf("no record for cycle %d (trace has %d records)", cycle, s.Trace.Len())
	return trace.CycleRecord{}
}

func runningPID(r trace.CycleRecord) int {
	if r.Running == nil {
		return 0
	}
	return r.Running.PID
}
