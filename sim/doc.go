// Package sim provides the discrete-event engine of procsim, a single-CPU operating
// system process lifecycle simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process records, status tags and the PID allocator
//   - instruction.go: the decoded instruction variants a script is made of
//   - simulator.go: the cycle clock, the queue set, the driver loop and the cycle logger
//   - syscall.go: the run, fork_and_exec, sleep, wait and exit handlers
//
// # Architecture
//
// Processes live in an arena (the process table, keyed by pid). Every container
// (ready queue, waiting set, sleep tracker and the running/new/terminated slots)
// stores pids only, so a process keeps its identity while its instruction list
// shrinks, and no container ever holds a stale copy of another.
//
// Each logged cycle is captured as an immutable trace.CycleRecord snapshot.
// Sub-packages:
//   - sim/script/: script sources (directory-backed and in-memory) and decoding
//   - sim/trace/: cycle records, the trace buffer and the result sink
//   - sim/metrics/: Prometheus export of a finished run
//
// # Key Interfaces
//
//   - ScriptSource: resolve a program name to its decoded instruction list
package sim
