// Implements the ReadyQueue and the WaitingSet, which hold the pids of processes
// that are not on the CPU. Processes themselves live in the process table.

package sim

import (
	"fmt"
	"strings"
)

// ReadyQueue represents a FIFO queue of pids waiting to be scheduled onto the CPU.
// Scheduling always pops the head; there is no priority and no reordering.
type ReadyQueue struct {
	queue []int
}

// Enqueue adds a pid to the back of the ready queue.
func (rq *ReadyQueue) Enqueue(pid int) {
	rq.queue = append(rq.queue, pid)
}

func (rq *ReadyQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, pid := range rq.queue {
		sb.WriteString(fmt.Sprint(pid))
		if i < len(rq.queue)-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of pids in the queue.
func (rq *ReadyQueue) Len() int {
	return len(rq.queue)
}

// Items returns the queue contents in scheduling order.
// The returned slice is the queue's internal storage; callers MUST NOT modify it.
func (rq *ReadyQueue) Items() []int {
	return rq.queue
}

// Dequeue removes the pid at the front of the queue.
func (rq *ReadyQueue) Dequeue() (int, bool) {
	if len(rq.queue) == 0 {
		return 0, false
	}
	pid := rq.queue[0]
	rq.queue = rq.queue[1:]
	return pid, true
}

// WaitingSet holds the pids of sleeping (S) and wait-blocked (W) processes.
// Iteration order is insertion order; removal keeps the order of the others.
// Sleeping processes are also tracked, authoritatively, by the SleepTracker.
type WaitingSet struct {
	members []int
}

// Add appends a pid to the set. Adding a pid twice is a caller bug and panics.
func (ws *WaitingSet) Add(pid int) {
	if ws.Contains(pid) {
		panic(fmt.Sprintf("WaitingSet.Add: pid %d already waiting", pid))
	}
	ws.members = append(ws.members, pid)
}

// Remove deletes pid from the set. Returns false if it was not a member.
func (ws *WaitingSet) Remove(pid int) bool {
	for i, m := range ws.members {
		if m == pid {
			ws.members = append(ws.members[:i:i], ws.members[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether pid is in the set.
func (ws *WaitingSet) Contains(pid int) bool {
	for _, m := range ws.members {
		if m == pid {
			return true
		}
	}
	return false
}

// Len returns the number of waiting pids.
func (ws *WaitingSet) Len() int {
	return len(ws.members)
}

// Items returns the members in insertion order. Callers MUST NOT modify it.
func (ws *WaitingSet) Items() []int {
	return ws.members
}
