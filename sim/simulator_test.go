package sim

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/procsim/sim/internal/testutil"
)

// TestSimulator_Run_ForkWaitExit_MatchesGoldenTrace verifies the full trace of
// a parent that forks a child, waits for it and exits after it.
func TestSimulator_Run_ForkWaitExit_MatchesGoldenTrace(t *testing.T) {
	// GIVEN the basic sample programs
	s := newTestSimulator(t, testutil.LoadProgramLines(t, "basic"))

	// WHEN the simulation runs to completion
	halt := runChecked(t, s)

	// THEN it halts idle with the expected byte-exact trace
	assert.Equal(t, HaltIdle, halt)
	assert.Equal(t, testutil.LoadGoldenTrace(t, "basic"), s.Trace.String())
	assert.Empty(t, s.Procs, "every process should have been reaped")
}

// TestSimulator_Run_SleepingParent_MatchesGoldenTrace verifies that a sleeping
// parent is reported as S in the waiting set and is promoted by the tick that
// expires its countdown.
func TestSimulator_Run_SleepingParent_MatchesGoldenTrace(t *testing.T) {
	// GIVEN the sleepy sample programs
	s := newTestSimulator(t, testutil.LoadProgramLines(t, "sleepy"))

	// WHEN the simulation runs to completion
	halt := runChecked(t, s)

	// THEN the trace matches the golden file
	assert.Equal(t, HaltIdle, halt)
	assert.Equal(t, testutil.LoadGoldenTrace(t, "sleepy"), s.Trace.String())
}

// TestSimulator_Run_CycleNumbersNeverDecrease verifies that records are logged
// in clock order and that no cycle is logged twice.
func TestSimulator_Run_CycleNumbersNeverDecrease(t *testing.T) {
	for _, name := range []string{"basic", "sleepy"} {
		t.Run(name, func(t *testing.T) {
			s := newTestSimulator(t, testutil.LoadProgramLines(t, name))
			runChecked(t, s)

			require.NotZero(t, s.Trace.Len())
			assert.Equal(t, int64(0), s.Trace.Records[0].Cycle)
			for i := 1; i < s.Trace.Len(); i++ {
				assert.Greater(t, s.Trace.Records[i].Cycle, s.Trace.Records[i-1].Cycle,
					"record %d", i)
			}
			assert.Equal(t, int64(s.Trace.Len()), s.Metrics.Cycles)
		})
	}
}

// TestSimulator_Run_RecordsAreSnapshots verifies that a logged record does not
// change when the engine mutates its queues afterwards.
func TestSimulator_Run_RecordsAreSnapshots(t *testing.T) {
	// GIVEN a run whose cycle #3 has a non-empty ready queue
	s := newTestSimulator(t, testutil.LoadProgramLines(t, "basic"))
	runChecked(t, s)
	before := recordAt(t, s, 3).Format()

	// WHEN the live queues are mutated after the run
	s.ReadyQ.Enqueue(99)
	s.WaitQ.Add(98)

	// THEN the record still renders the same
	assert.Equal(t, before, recordAt(t, s, 3).Format())
}

// TestSimulator_LogCycleIfDue_OnlyLogsCommittedCycles verifies the logger is a
// no-op unless the current cycle has been marked complete, and consumes the mark.
func TestSimulator_LogCycleIfDue_OnlyLogsCommittedCycles(t *testing.T) {
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})

	// WHEN the logger runs with no committed cycle
	s.logCycleIfDue()
	// THEN nothing is recorded
	assert.Equal(t, 0, s.Trace.Len())

	// WHEN a cycle is committed and the logger runs again
	s.Command = "idle"
	s.commitCycle()
	s.logCycleIfDue()
	// THEN exactly one record exists
	assert.Equal(t, 1, s.Trace.Len())
}

func TestSimulator_Boot_MissingInit_ReturnsScriptNotFound(t *testing.T) {
	// GIVEN a source without an init program
	s := newTestSimulator(t, map[string][]string{"other": {"exit"}})

	// WHEN the simulation runs
	halt, err := s.Run()

	// THEN it aborts with ErrScriptNotFound before logging anything
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScriptNotFound), "got %v", err)
	assert.Equal(t, HaltNone, halt)
	assert.Equal(t, 0, s.Trace.Len())
}

func TestSimulator_Boot_Twice_ReturnsError(t *testing.T) {
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})
	require.NoError(t, s.Boot())
	assert.Error(t, s.Boot())
}

func TestSimulator_Run_MissingForkTarget_ReturnsScriptNotFound(t *testing.T) {
	// GIVEN init forks a program that does not exist
	s := newTestSimulator(t, map[string][]string{"init": {"fork_and_exec ghost", "exit"}})

	// WHEN the simulation runs
	_, err := s.Run()

	// THEN it aborts with ErrScriptNotFound after the fork's user-mode cycle
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScriptNotFound), "got %v", err)
	last, ok := s.Trace.Last()
	require.True(t, ok)
	assert.Equal(t, "fork_and_exec ghost", last.Command)
}

func TestSimulator_Run_MalformedArgument_ReturnsTypedError(t *testing.T) {
	// GIVEN init sleeps for a non-numeric duration
	s := newTestSimulator(t, map[string][]string{"init": {"sleep soon", "exit"}})

	// WHEN the simulation runs
	_, err := s.Run()

	// THEN the error carries the offending line
	var malformed *MalformedArgumentError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Equal(t, "sleep soon", malformed.Line)
	assert.Contains(t, err.Error(), "line 1")
}

func TestSimulator_Run_UnknownInstruction_SkippedWithoutClockAdvance(t *testing.T) {
	// GIVEN init starts with an unknown keyword
	s := newTestSimulator(t, map[string][]string{"init": {"bogus", "exit"}})

	// WHEN the simulation runs
	halt := runChecked(t, s)

	// THEN the unknown line costs no cycle: boot, schedule, exit, system call
	assert.Equal(t, HaltIdle, halt)
	require.Equal(t, 4, s.Trace.Len())
	assert.Equal(t, "exit", recordAt(t, s, 2).Command)
	assert.Equal(t, 1, s.Metrics.MalformedInstructions)
	assert.Equal(t, 1, s.Metrics.Dispatched["exit"])
}

func TestSimulator_Run_ExhaustedInstructions_Halts(t *testing.T) {
	// GIVEN init never exits
	s := newTestSimulator(t, map[string][]string{"init": {"run 1"}})

	// WHEN the simulation runs
	halt := runChecked(t, s)

	// THEN it halts after the last instruction without inventing cycles
	assert.Equal(t, HaltExhausted, halt)
	assert.Equal(t, 3, s.Trace.Len())
	assert.Equal(t, HaltExhausted, s.Halted())
}

func TestSimulator_Run_OnlyWaitBlocked_HaltsWithDeadlock(t *testing.T) {
	// GIVEN a booted simulator whose only process is blocked in wait
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})
	s.booted = true
	p := s.createProcess("init", BootPPID, []Instruction{{Kind: KindExit}})
	p.Status = StatusWaiting
	s.WaitQ.Add(p.PID)

	// WHEN the driver runs
	halt, err := s.Run()

	// THEN it reports a deadlock instead of idling forever
	require.NoError(t, err)
	assert.Equal(t, HaltDeadlock, halt)
	assert.Equal(t, LocWaiting, s.Locate(p.PID))
}

func TestSimulator_Run_MaxCycles_StopsAtHorizon(t *testing.T) {
	// GIVEN a long-running init and a horizon of 10 cycles
	cfg := DefaultConfig()
	cfg.MaxCycles = 10
	s, err := NewSimulator(cfg, mapSource{"init": {"run 100", "exit"}})
	require.NoError(t, err)

	// WHEN the simulation runs
	halt, err := s.Run()

	// THEN the last logged cycle is the horizon
	require.NoError(t, err)
	assert.Equal(t, HaltMaxCycles, halt)
	last, ok := s.Trace.Last()
	require.True(t, ok)
	assert.Equal(t, int64(10), last.Cycle)
	assert.Equal(t, 11, s.Trace.Len())
}

// TestSimulator_Run_MaxCycles_NeverLogsPastHorizon verifies the horizon also
// holds when it falls inside a multi-cycle syscall.
func TestSimulator_Run_MaxCycles_NeverLogsPastHorizon(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCycles = 5
	s, err := NewSimulator(cfg, mapSource{
		"init":   {"fork_and_exec napper", "sleep 3", "exit"},
		"napper": {"sleep 1", "exit"},
	})
	require.NoError(t, err)

	halt, err := s.Run()

	require.NoError(t, err)
	assert.Equal(t, HaltMaxCycles, halt)
	last, ok := s.Trace.Last()
	require.True(t, ok)
	assert.Equal(t, int64(5), last.Cycle)
	assert.Equal(t, "sleep 3", last.Command)
}

// TestSimulator_Run_MaxCycles_ExitPastHorizonNotCounted verifies that an exit
// whose system-call cycle lies past the horizon changes neither the process
// table nor the metrics.
func TestSimulator_Run_MaxCycles_ExitPastHorizonNotCounted(t *testing.T) {
	// GIVEN init exits in cycles 3 and 4 with a horizon of 3
	cfg := DefaultConfig()
	cfg.MaxCycles = 3
	s, err := NewSimulator(cfg, mapSource{"init": {"run 1", "exit"}})
	require.NoError(t, err)

	// WHEN the simulation runs
	halt, err := s.Run()
	require.NoError(t, err)

	// THEN the trace stops at the user-mode exit cycle
	assert.Equal(t, HaltMaxCycles, halt)
	require.Equal(t, 4, s.Trace.Len())
	last, _ := s.Trace.Last()
	assert.Equal(t, "exit", last.Command)
	assert.Nil(t, last.Terminated)

	// AND the process was never reaped or counted as exited
	assert.Equal(t, 0, s.Metrics.ProcessesExited)
	assert.Equal(t, 0.0, s.Metrics.TurnaroundQuantile(0.5))
	assert.Contains(t, s.Procs, 1)
}

// TestSimulator_Run_MaxCycles_MetricsMatchTruncatedTrace verifies, for every
// horizon inside a run, that the counters agree with the records actually logged.
func TestSimulator_Run_MaxCycles_MetricsMatchTruncatedTrace(t *testing.T) {
	for _, name := range []string{"basic", "sleepy"} {
		programs := testutil.LoadProgramLines(t, name)
		for horizon := int64(1); horizon <= 16; horizon++ {
			t.Run(fmt.Sprintf("%s/max_%d", name, horizon), func(t *testing.T) {
				// GIVEN the sample programs cut off at horizon
				cfg := DefaultConfig()
				cfg.MaxCycles = horizon
				s, err := NewSimulator(cfg, mapSource(programs))
				require.NoError(t, err)

				// WHEN the simulation runs
				_, err = s.Run()
				require.NoError(t, err)

				// THEN nothing past the horizon is logged
				last, ok := s.Trace.Last()
				require.True(t, ok)
				assert.LessOrEqual(t, last.Cycle, horizon)

				// AND every counter is explained by a logged record
				var schedules, idle, terminated int64
				commands := map[string]int{}
				created := map[int]bool{}
				for _, r := range s.Trace.Records {
					switch r.Command {
					case "schedule":
						schedules++
					case "idle":
						idle++
					}
					if r.Terminated != nil {
						terminated++
					}
					if r.New != nil {
						created[r.New.PID] = true
					}
					commands[r.Command]++
				}
				m := s.Metrics
				assert.Equal(t, int64(s.Trace.Len()), m.Cycles)
				assert.Equal(t, schedules, m.Schedules)
				assert.Equal(t, idle, m.IdleCycles)
				assert.Equal(t, terminated, int64(m.ProcessesExited))
				assert.Equal(t, commands["exit"], m.Dispatched["exit"])
				assert.Equal(t, commands["wait"], m.Dispatched["wait"])
				assert.Equal(t, len(created), m.ProcessesCreated)
			})
		}
	}
}

func TestNewSimulator_InvalidInput_ReturnsError(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		source ScriptSource
	}{
		{name: "empty init", cfg: Config{InitProgram: ""}, source: mapSource{}},
		{name: "negative horizon", cfg: Config{InitProgram: "init", MaxCycles: -1}, source: mapSource{}},
		{name: "nil source", cfg: DefaultConfig(), source: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSimulator(tc.cfg, tc.source)
			assert.Error(t, err)
		})
	}
}

func TestSimulator_Run_MetricsAccounting(t *testing.T) {
	// GIVEN the basic sample programs
	s := newTestSimulator(t, testutil.LoadProgramLines(t, "basic"))

	// WHEN the simulation runs
	runChecked(t, s)

	// THEN the counters match the golden trace
	m := s.Metrics
	assert.Equal(t, int64(15), m.Cycles)
	assert.Equal(t, int64(0), m.IdleCycles)
	assert.Equal(t, int64(4), m.Schedules)
	assert.Equal(t, 2, m.ProcessesCreated)
	assert.Equal(t, 2, m.ProcessesExited)
	assert.Equal(t, 1, m.Dispatched["fork_and_exec"])
	assert.Equal(t, 1, m.Dispatched["run"])
	assert.Equal(t, 1, m.Dispatched["wait"])
	assert.Equal(t, 2, m.Dispatched["exit"])
	assert.InDelta(t, 1.0, m.Utilization(), 1e-9)
}

func TestSimulator_Locate(t *testing.T) {
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})
	a := s.createProcess("a", BootPPID, nil)
	b := s.createProcess("b", a.PID, nil)
	c := s.createProcess("c", a.PID, nil)
	s.Running = a.PID
	s.enqueueReady(b.PID)
	c.Status = StatusSleeping
	s.WaitQ.Add(c.PID)
	s.Sleepers.Add(c.PID, 2)

	assert.Equal(t, LocRunning, s.Locate(a.PID))
	assert.Equal(t, LocReady, s.Locate(b.PID))
	assert.Equal(t, LocSleeping, s.Locate(c.PID))
	assert.Equal(t, LocNowhere, s.Locate(42))
	assert.NoError(t, s.CheckInvariants())
}

func TestSimulator_CheckInvariants_DetectsDuplicates(t *testing.T) {
	// GIVEN a process both running and ready
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})
	p := s.createProcess("init", BootPPID, nil)
	s.Running = p.PID
	s.ReadyQ.Enqueue(p.PID)

	// THEN the invariant check fails
	assert.Error(t, s.CheckInvariants())
}

func TestSimulator_CheckInvariants_DetectsUntrackedSleeper(t *testing.T) {
	// GIVEN an S-tagged process missing from the sleep tracker
	s := newTestSimulator(t, map[string][]string{"init": {"exit"}})
	p := s.createProcess("init", BootPPID, nil)
	p.Status = StatusSleeping
	s.WaitQ.Add(p.PID)

	// THEN the invariant check fails
	assert.Error(t, s.CheckInvariants())
}
