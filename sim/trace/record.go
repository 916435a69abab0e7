// Package trace provides cycle-by-cycle recording of kernel state.
// This package has no dependencies on sim/; it stores pure data types.
package trace

import (
	"fmt"
	"strings"
)

// ProcRef identifies a process in a snapshot.
type ProcRef struct {
	PID  int
	Name string
	PPID int
}

func (p ProcRef) String() string {
	return fmt.Sprintf("%d(%s, %d)", p.PID, p.Name, p.PPID)
}

// WaitRef is a waiting-set member with its status tag ("S" or "W").
type WaitRef struct {
	PID    int
	Status string
}

func (w WaitRef) String() string {
	return fmt.Sprintf("%d(%s)", w.PID, w.Status)
}

// CycleRecord captures kernel state at the end of one logged cycle.
// Records are snapshots: later engine mutations never alter them.
type CycleRecord struct {
	Cycle      int64
	Mode       string
	Command    string
	Running    *ProcRef // nil = CPU idle
	Ready      []int    // pids in scheduling order
	Waiting    []WaitRef
	New        *ProcRef
	Terminated *ProcRef
}

// Format renders the record as one trace block, terminated by a blank line.
func (r CycleRecord) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[cycle #%d]\n", r.Cycle)
	fmt.Fprintf(&sb, "1. mode: %s\n", r.Mode)
	fmt.Fprintf(&sb, "2. command: %s\n", r.Command)
	fmt.Fprintf(&sb, "3. running: %s\n", formatProc(r.Running))

	sb.WriteString("4. ready: ")
	if len(r.Ready) == 0 {
		sb.WriteString("none")
	}
	for i, pid := range r.Ready {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprint(&sb, pid)
	}
	sb.WriteString("\n")

	sb.WriteString("5. waiting: ")
	if len(r.Waiting) == 0 {
		sb.WriteString("none")
	}
	for i, w := range r.Waiting {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(w.String())
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "6. new: %s\n", formatProc(r.New))
	fmt.Fprintf(&sb, "7. terminated: %s\n\n", formatProc(r.Terminated))
	return sb.String()
}

func formatProc(p *ProcRef) string {
	if p == nil {
		return "none"
	}
	return p.String()
}
