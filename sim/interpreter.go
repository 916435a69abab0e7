package sim

import (
	"github.com/sirupsen/logrus"
)

// interpret executes the running process's instructions in user mode until one of
// them hands the CPU back to the kernel. run keeps the CPU and continues with the
// next instruction; every other handler returns control to the driver, which
// resumes on whatever process ends up running. Unknown instructions are reported
// and skipped without advancing the clock.
func (sim *Simulator) interpret() error {
	p := sim.Procs[sim.Running]
	for {
		if sim.horizonReached() {
			sim.stop(HaltMaxCycles)
			return nil
		}
		sim.Mode = ModeUser
		in, ok := p.NextInstruction()
		if !ok {
			break
		}
		if in.Kind != KindUnknown {
			sim.Metrics.Dispatched[in.Kind.String()]++
		}

		switch in.Kind {
		case KindRun:
			sim.run(in.Cycles)
			if sim.halt != HaltNone {
				return nil
			}
		case KindForkAndExec:
			return sim.forkAndExec(in.Program)
		case KindSleep:
			sim.sleep(in.Cycles)
			return nil
		case KindWait:
			sim.wait()
			return nil
		case KindExit:
			sim.exit()
			return nil
		default:
			sim.Metrics.MalformedInstructions++
			logrus.Warnf("[cycle %04d] malformed instruction %q in %s, skipping", sim.Clock, in.Raw, p)
		}
	}

	// Without preemption nothing can take the CPU away from this process.
	logrus.Warnf("[cycle %04d] %s ran out of instructions without exit", sim.Clock, p)
	sim.stop(HaltExhausted)
	return nil
}
