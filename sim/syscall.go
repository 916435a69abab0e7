package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Each syscall handler spans up to three cycles:
//   1. the user-mode cycle that issues the call (reported with the instruction label),
//   2. the kernel "system call" cycle that performs the transition,
//   3. a continuation that ticks and schedules without a cycle of its own.
// Every cycle ticks the sleep tracker before making any queue decision.
// A handler returns as soon as the clock would pass the horizon, so no state
// changes or metrics are recorded for a cycle that is never logged.

// run keeps the CPU busy for n cycles. No queue transition occurs.
func (sim *Simulator) run(n uint) {
	sim.Command = fmt.Sprintf("run %d", n)
	for i := uint(0); i < n; i++ {
		if !sim.advanceClock() {
			return
		}
		sim.tick()
		sim.commitCycle()
	}
}

// forkAndExec creates a child running program name. The parent goes back to the
// ready queue so the kernel can admit the child, then the scheduler picks the head.
func (sim *Simulator) forkAndExec(name string) error {
	if !sim.advanceClock() {
		return nil
	}
	sim.tick()
	sim.Command = "fork_and_exec " + name
	sim.commitCycle()
	sim.Mode = ModeKernel

	if !sim.advanceClock() {
		return nil
	}
	sim.tick()
	sim.Command = "system call"
	parent := sim.Procs[sim.Running]
	instrs, err := sim.source.Load(name)
	if err != nil {
		return fmt.Errorf("fork_and_exec %s from %s: %w", name, parent, err)
	}
	child := sim.createProcess(name, parent.PID, instrs)
	sim.New = child.PID
	sim.Running = 0
	sim.enqueueReady(parent.PID)
	logrus.Infof("[cycle %04d] fork: %s created %s", sim.Clock, parent, child)
	sim.commitCycle()

	sim.nextCycle(true)
	return nil
}

// sleep parks the running process for n cycles. A countdown of zero is promoted
// on the next tick. If nothing is ready the CPU idles; the driver keeps ticking
// and scheduling until a process becomes ready.
func (sim *Simulator) sleep(n uint) {
	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = fmt.Sprintf("sleep %d", n)
	sim.commitCycle()
	sim.Mode = ModeKernel

	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = "system call"
	p := sim.Procs[sim.Running]
	p.Status = StatusSleeping
	sim.WaitQ.Add(p.PID)
	sim.Sleepers.Add(p.PID, n)
	sim.Running = 0
	sim.commitCycle()

	sim.nextCycle(false)
}

// wait blocks the running process if at least one of its children is in the ready
// queue. Otherwise it only yields: the process goes back to the end of the ready
// queue. Children that are sleeping, waiting or not yet admitted are not considered,
// and a blocked parent is woken only by a child's exit.
func (sim *Simulator) wait() {
	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = "wait"
	sim.commitCycle()
	sim.Mode = ModeKernel

	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = "system call"
	p := sim.Procs[sim.Running]
	sim.Running = 0
	if sim.hasReadyChild(p.PID) {
		p.Status = StatusWaiting
		sim.WaitQ.Add(p.PID)
	} else {
		logrus.Debugf("[cycle %04d] wait: %s has no ready child, yielding", sim.Clock, p)
		sim.enqueueReady(p.PID)
	}
	sim.commitCycle()

	sim.nextCycle(false)
}

// exit terminates the running process. A parent blocked in wait is moved back to
// the ready queue in the same cycle. The terminated slot is visible for exactly one
// snapshot; the simulation halts when nothing is ready, waiting or new.
func (sim *Simulator) exit() {
	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = "exit"
	sim.commitCycle()
	sim.Mode = ModeKernel

	if !sim.advanceClock() {
		return
	}
	sim.tick()
	sim.Command = "system call"
	p := sim.Procs[sim.Running]
	if parent, ok := sim.Procs[p.PPID]; ok && parent.Status == StatusWaiting && sim.WaitQ.Remove(parent.PID) {
		sim.enqueueReady(parent.PID)
		logrus.Infof("[cycle %04d] wake: %s resumed by exit of %s", sim.Clock, parent, p)
	}
	sim.Terminated = p.PID
	sim.Running = 0
	sim.Metrics.ProcessesExited++
	sim.Metrics.RecordTurnaround(sim.Clock - p.CreatedAt)
	logrus.Infof("[cycle %04d] exit: %s", sim.Clock, p)
	sim.commitCycle()

	sim.Terminated = 0
	delete(sim.Procs, p.PID)
	switch {
	case sim.New != 0:
		sim.nextCycle(false)
	case sim.ReadyQ.Len() == 0 && sim.WaitQ.Len() == 0:
		sim.stop(HaltIdle)
	default:
		sim.nextCycle(false)
	}
}
