// Tracks simulation-wide and per-process statistics such as:
// cycles, idle cycles, context switches, dispatched instructions, turnaround and ready-queue wait.

package sim

import (
	"github.com/influxdata/tdigest"
)

// digestCompression bounds the centroid count of the quantile sketches.
const digestCompression = 100

// Metrics aggregates statistics about the simulation
// for final reporting. Useful for evaluating scheduling behavior over a run.
type Metrics struct {
	Cycles                int64 // Number of logged cycles
	IdleCycles            int64 // Cycles the scheduler found nothing to run
	Schedules             int64 // Processes admitted from ready to running
	ProcessesCreated      int   // Boot process plus every fork
	ProcessesExited       int   // Processes that went through exit
	MalformedInstructions int   // Unknown keywords skipped by the interpreter
	PeakReadyLen          int   // Max number of simultaneously ready processes

	// map of instruction kind -> number of dispatches
	Dispatched map[string]int

	turnaround      *tdigest.TDigest // exit cycle - creation cycle
	readyWait       *tdigest.TDigest // schedule cycle - ready enqueue cycle
	turnaroundCount int
	readyWaitCount  int
}

// NewMetrics creates an empty Metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Dispatched: make(map[string]int),
		turnaround: tdigest.NewWithCompression(digestCompression),
		readyWait:  tdigest.NewWithCompression(digestCompression),
	}
}

// RecordTurnaround adds one process lifetime in cycles.
func (m *Metrics) RecordTurnaround(cycles int64) {
	m.turnaround.Add(float64(cycles), 1)
	m.turnaroundCount++
}

// RecordReadyWait adds the cycles a process spent in the ready queue before being scheduled.
func (m *Metrics) RecordReadyWait(cycles int64) {
	m.readyWait.Add(float64(cycles), 1)
	m.readyWaitCount++
}

// TurnaroundQuantile returns the q-quantile of process lifetimes (0 if none exited).
func (m *Metrics) TurnaroundQuantile(q float64) float64 {
	if m.turnaroundCount == 0 {
		return 0
	}
	return m.turnaround.Quantile(q)
}

// ReadyWaitQuantile returns the q-quantile of ready-queue waits (0 if nothing was scheduled).
func (m *Metrics) ReadyWaitQuantile(q float64) float64 {
	if m.readyWaitCount == 0 {
		return 0
	}
	return m.readyWait.Quantile(q)
}

// Utilization is the fraction of logged cycles that were not idle.
func (m *Metrics) Utilization() float64 {
	if m.Cycles == 0 {
		return 0
	}
	return 1 - float64(m.IdleCycles)/float64(m.Cycles)
}

// RunSummary is the end-of-run report derived from Metrics.
type RunSummary struct {
	Halt                  HaltReason
	Cycles                int64
	IdleCycles            int64
	Schedules             int64
	ProcessesCreated      int
	ProcessesExited       int
	MalformedInstructions int
	PeakReadyLen          int
	Utilization           float64
	TurnaroundP50         float64
	TurnaroundP95         float64
	ReadyWaitP50          float64
	ReadyWaitP95          float64
	Dispatched            map[string]int
}

// Summary snapshots the metrics for reporting.
func (m *Metrics) Summary(halt HaltReason) RunSummary {
	dispatched := make(map[string]int, len(m.Dispatched))
	for k, v := range m.Dispatched {
		dispatched[k] = v
	}
	return RunSummary{
		Halt:                  halt,
		Cycles:                m.Cycles,
		IdleCycles:            m.IdleCycles,
		Schedules:             m.Schedules,
		ProcessesCreated:      m.ProcessesCreated,
		ProcessesExited:       m.ProcessesExited,
		MalformedInstructions: m.MalformedInstructions,
		PeakReadyLen:          m.PeakReadyLen,
		Utilization:           m.Utilization(),
		TurnaroundP50:         m.TurnaroundQuantile(0.50),
		TurnaroundP95:         m.TurnaroundQuantile(0.95),
		ReadyWaitP50:          m.ReadyWaitQuantile(0.50),
		ReadyWaitP95:          m.ReadyWaitQuantile(0.95),
		Dispatched:            dispatched,
	}
}
