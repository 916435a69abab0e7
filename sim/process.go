// Defines the Process record that models a single simulated program instance.
// Tracks identity (name, pid, ppid), the wait/sleep tag and the remaining instructions.

package sim

import (
	"fmt"
)

// ProcessStatus tags a process parked in the waiting set.
type ProcessStatus string

const (
	StatusNone     ProcessStatus = ""  // ready or running
	StatusSleeping ProcessStatus = "S" // counting down in the sleep tracker
	StatusWaiting  ProcessStatus = "W" // blocked until a child exits
)

// BootPPID is the parent pid reported for the boot process.
const BootPPID = 0

// Process models a single program instance from creation to exit.
// It is stored once in the process table and referenced everywhere else by pid.
type Process struct {
	Name string // program name; not unique across forks of the same program
	PID  int    // unique, never reused
	PPID int    // pid of the creating process (BootPPID for init)

	Status       ProcessStatus
	Instructions []Instruction // remaining instructions, consumed from the front

	CreatedAt int64 // cycle the process entered the new slot
	ReadyAt   int64 // cycle the process last entered the ready queue
}

// NextInstruction pops the head of the remaining instruction list.
// Returns false if the process has nothing left to execute.
func (p *Process) NextInstruction() (Instruction, bool) {
	if len(p.Instructions) == 0 {
		return Instruction{}, false
	}
	in := p.Instructions[0]
	p.Instructions = p.Instructions[1:]
	return in, true
}

func (p *Process) String() string {
	return fmt.Sprintf("%d(%s, %d)", p.PID, p.Name, p.PPID)
}

// PIDAllocator issues strictly increasing process identifiers starting at 1.
type PIDAllocator struct {
	last int
}

// Next returns a pid greater than every pid issued before.
func (a *PIDAllocator) Next() int {
	a.last++
	return a.last
}

// Last returns the most recently issued pid, or 0 if none has been issued.
func (a *PIDAllocator) Last() int {
	return a.last
}
