package sim

import (
	"github.com/sirupsen/logrus"
)

// schedule consumes one kernel cycle to decide what the CPU does next.
// Policy is strict FIFO with no preemption: if a process already holds the CPU
// nothing is logged; otherwise the head of the ready queue is admitted, or the
// CPU idles if the queue is empty. The caller resumes interpretation of the
// admitted process.
func (sim *Simulator) schedule() {
	if !sim.advanceClock() {
		return
	}
	sim.Mode = ModeKernel
	if sim.Running != 0 {
		return
	}

	pid, ok := sim.ReadyQ.Dequeue()
	if !ok {
		sim.Command = "idle"
		sim.Metrics.IdleCycles++
		sim.commitCycle()
		return
	}

	p := sim.Procs[pid]
	sim.Running = pid
	sim.Command = "schedule"
	sim.Metrics.Schedules++
	sim.Metrics.RecordReadyWait(sim.Clock - p.ReadyAt)
	logrus.Debugf("[cycle %04d] schedule: %s, ready %s", sim.Clock, p, sim.ReadyQ)
	sim.commitCycle()
}
