// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/procsim/sim/trace"
)

// Mode is the CPU privilege level reported in the trace.
type Mode string

const (
	ModeKernel Mode = trace.ModeKernel
	ModeUser   Mode = trace.ModeUser
)

// HaltReason explains why Run returned.
type HaltReason string

const (
	HaltNone      HaltReason = ""
	HaltIdle      HaltReason = "idle"       // no process left anywhere
	HaltDeadlock  HaltReason = "deadlock"   // only wait-blocked processes remain
	HaltExhausted HaltReason = "exhausted"  // running process ran out of instructions
	HaltMaxCycles HaltReason = "max-cycles" // configured horizon reached
)

// ScriptSource resolves a program name to its decoded instruction list.
// Implementations return an error wrapping ErrScriptNotFound for unknown names.
type ScriptSource interface {
	Load(name string) ([]Instruction, error)
}

// Simulator is the core object that holds the cycle clock, the process table,
// the queue set and the trace.
type Simulator struct {
	Clock   int64
	Mode    Mode
	Command string // label reported for the current cycle
	Config  Config

	// Procs is the process table; every container below stores pids into it.
	Procs    map[int]*Process
	PIDs     PIDAllocator
	ReadyQ   *ReadyQueue
	WaitQ    *WaitingSet
	Sleepers *SleepTracker
	// Single-slot holders; 0 means empty.
	Running    int
	New        int
	Terminated int

	Trace   *trace.Trace
	Metrics *Metrics

	// OnCycle, if set, is called after every logged cycle with its record.
	OnCycle func(trace.CycleRecord)

	source     ScriptSource
	cycleReady bool
	booted     bool
	halt       HaltReason
}

// NewSimulator creates a simulator that loads programs from source.
func NewSimulator(cfg Config, source ScriptSource) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, fmt.Errorf("script source must not be nil")
	}
	return &Simulator{
		Clock:    0,
		Mode:     ModeKernel,
		Config:   cfg,
		Procs:    make(map[int]*Process),
		ReadyQ:   &ReadyQueue{},
		WaitQ:    &WaitingSet{},
		Sleepers: &SleepTracker{},
		Trace:    trace.NewTrace(),
		Metrics:  NewMetrics(),
		source:   source,
	}, nil
}

// Boot creates the init process in the new slot (cycle #0), then admits and
// schedules it (cycle #1).
func (sim *Simulator) Boot() error {
	if sim.booted {
		return fmt.Errorf("simulator already booted")
	}
	sim.booted = true

	name := sim.Config.InitProgram
	instrs, err := sim.source.Load(name)
	if err != nil {
		return fmt.Errorf("booting %s: %w", name, err)
	}
	p := sim.createProcess(name, BootPPID, instrs)
	sim.New = p.PID
	sim.Mode = ModeKernel
	sim.Command = "boot"
	sim.commitCycle()

	sim.nextCycle(true)
	return nil
}

// Run boots the simulator if needed and drives it until it halts.
// Whenever the CPU is occupied the interpreter consumes the running process's
// instructions; whenever it is empty the driver ticks and schedules until work
// appears or no further work can ever appear.
// Returns a non-nil error only for fatal conditions (missing script, malformed argument).
func (sim *Simulator) Run() (HaltReason, error) {
	if !sim.booted {
		if err := sim.Boot(); err != nil {
			return HaltNone, err
		}
	}
	for sim.halt == HaltNone {
		if sim.horizonReached() {
			sim.stop(HaltMaxCycles)
			break
		}
		switch {
		case sim.Running != 0:
			if err := sim.interpret(); err != nil {
				return sim.halt, err
			}
		case sim.ReadyQ.Len() > 0 || sim.New != 0:
			sim.nextCycle(true)
		case sim.Sleepers.Len() > 0:
			// CPU idles until a sleeper expires
			sim.nextCycle(false)
		case sim.WaitQ.Len() > 0:
			logrus.Warnf("[cycle %04d] deadlock: %d process(es) blocked in wait with no runnable child",
				sim.Clock, sim.WaitQ.Len())
			for _, pid := range sim.WaitQ.Items() {
				logrus.Warnf("[cycle %04d]   %s is %s", sim.Clock, sim.Procs[pid], sim.Locate(pid))
			}
			sim.stop(HaltDeadlock)
		default:
			sim.stop(HaltIdle)
		}
	}
	logrus.Infof("[cycle %04d] Simulation ended (%s), %d process(es) created", sim.Clock, sim.halt, sim.PIDs.Last())
	return sim.halt, nil
}

// Halted returns the reason the simulation stopped, or HaltNone while it can still run.
func (sim *Simulator) Halted() HaltReason {
	return sim.halt
}

func (sim *Simulator) stop(reason HaltReason) {
	if sim.halt == HaltNone {
		sim.halt = reason
	}
}

func (sim *Simulator) horizonReached() bool {
	return sim.Config.MaxCycles > 0 && sim.Clock >= sim.Config.MaxCycles
}

// createProcess allocates a pid and registers a new process in the table.
func (sim *Simulator) createProcess(name string, ppid int, instrs []Instruction) *Process {
	p := &Process{
		Name:         name,
		PID:          sim.PIDs.Next(),
		PPID:         ppid,
		Status:       StatusNone,
		Instructions: instrs,
		CreatedAt:    sim.Clock,
	}
	sim.Procs[p.PID] = p
	sim.Metrics.ProcessesCreated++
	return p
}

// enqueueReady appends pid to the ready queue with a cleared status tag.
func (sim *Simulator) enqueueReady(pid int) {
	p := sim.Procs[pid]
	p.Status = StatusNone
	p.ReadyAt = sim.Clock
	sim.ReadyQ.Enqueue(pid)
	sim.Metrics.PeakReadyLen = max(sim.Metrics.PeakReadyLen, sim.ReadyQ.Len())
}

// admitNew moves the new-slot process, if any, into the ready queue.
func (sim *Simulator) admitNew() {
	if sim.New == 0 {
		return
	}
	sim.enqueueReady(sim.New)
	sim.New = 0
}

// tick advances every sleep countdown by one cycle and promotes expired sleepers
// to ready, removing them from the waiting set in the same step.
func (sim *Simulator) tick() {
	for _, pid := range sim.Sleepers.Tick() {
		sim.WaitQ.Remove(pid)
		sim.enqueueReady(pid)
		logrus.Infof("[cycle %04d] wake: %s finished sleeping", sim.Clock, sim.Procs[pid])
	}
}

// hasReadyChild reports whether any process in the ready queue was created by ppid.
func (sim *Simulator) hasReadyChild(ppid int) bool {
	for _, pid := range sim.ReadyQ.Items() {
		if sim.Procs[pid].PPID == ppid {
			return true
		}
	}
	return false
}

// advanceClock moves to the next cycle. Past the configured horizon it halts
// the run instead and returns false; the caller must then leave all state alone.
func (sim *Simulator) advanceClock() bool {
	if sim.horizonReached() {
		sim.stop(HaltMaxCycles)
		return false
	}
	sim.Clock++
	return true
}

// nextCycle opens a kernel cycle without a process on the CPU: tick the
// sleepers, optionally admit the new slot, then schedule.
func (sim *Simulator) nextCycle(admit bool) {
	if sim.horizonReached() {
		sim.stop(HaltMaxCycles)
		return
	}
	sim.tick()
	if admit {
		sim.admitNew()
	}
	sim.schedule()
}

// commitCycle marks the current cycle complete and logs it.
func (sim *Simulator) commitCycle() {
	sim.cycleReady = true
	sim.logCycleIfDue()
}

// logCycleIfDue appends a snapshot of the current cycle to the trace if the cycle
// has been marked complete. It never touches the clock or the queues.
func (sim *Simulator) logCycleIfDue() {
	if !sim.cycleReady {
		return
	}
	sim.cycleReady = false
	rec := sim.snapshot()
	sim.Trace.Append(rec)
	sim.Metrics.Cycles++
	logrus.Debugf("[cycle %04d] %s", rec.Cycle, rec.Command)
	if sim.OnCycle != nil {
		sim.OnCycle(rec)
	}
}

// snapshot copies the reportable state into an immutable record.
func (sim *Simulator) snapshot() trace.CycleRecord {
	rec := trace.CycleRecord{
		Cycle:      sim.Clock,
		Mode:       string(sim.Mode),
		Command:    sim.Command,
		Running:    sim.procRef(sim.Running),
		New:        sim.procRef(sim.New),
		Terminated: sim.procRef(sim.Terminated),
	}
	if sim.ReadyQ.Len() > 0 {
		rec.Ready = append([]int(nil), sim.ReadyQ.Items()...)
	}
	for _, pid := range sim.WaitQ.Items() {
		rec.Waiting = append(rec.Waiting, trace.WaitRef{PID: pid, Status: string(sim.Procs[pid].Status)})
	}
	return rec
}

func (sim *Simulator) procRef(pid int) *trace.ProcRef {
	if pid == 0 {
		return nil
	}
	p := sim.Procs[pid]
	return &trace.ProcRef{PID: p.PID, Name: p.Name, PPID: p.PPID}
}

// Location names the container holding a live process.
type Location string

const (
	LocNowhere    Location = ""
	LocRunning    Location = "running"
	LocReady      Location = "ready"
	LocWaiting    Location = "waiting"
	LocSleeping   Location = "sleeping"
	LocNew        Location = "new"
	LocTerminated Location = "terminated"
)

// CheckInvariants verifies that every process in the table occupies exactly one
// container, that every pid in a container is in the table, and that sleeping
// processes are consistently tracked by both the waiting set and the sleep tracker.
func (sim *Simulator) CheckInvariants() error {
	seen := make(map[int]Location)
	place := func(pid int, loc Location) error {
		if _, ok := sim.Procs[pid]; !ok {
			return fmt.Errorf("pid %d in %s is not in the process table", pid, loc)
		}
		if prev, dup := seen[pid]; dup {
			return fmt.Errorf("pid %d is in both %s and %s", pid, prev, loc)
		}
		seen[pid] = loc
		return nil
	}
	for _, slot := range []struct {
		pid int
		loc Location
	}{{sim.Running, LocRunning}, {sim.New, LocNew}, {sim.Terminated, LocTerminated}} {
		if slot.pid == 0 {
			continue
		}
		if err := place(slot.pid, slot.loc); err != nil {
			return err
		}
	}
	for _, pid := range sim.ReadyQ.Items() {
		if err := place(pid, LocReady); err != nil {
			return err
		}
	}
	for _, pid := range sim.WaitQ.Items() {
		p, ok := sim.Procs[pid]
		if !ok {
			return fmt.Errorf("pid %d in waiting is not in the process table", pid)
		}
		loc := LocWaiting
		if p.Status == StatusSleeping {
			if !sim.Sleepers.Contains(pid) {
				return fmt.Errorf("pid %d is tagged S but not in the sleep tracker", pid)
			}
			loc = LocSleeping
		}
		if err := place(pid, loc); err != nil {
			return err
		}
	}
	for _, e := range sim.Sleepers.Entries() {
		if seen[e.PID] != LocSleeping {
			return fmt.Errorf("pid %d is in the sleep tracker but not waiting as S", e.PID)
		}
	}
	for pid := range sim.Procs {
		if _, ok := seen[pid]; !ok {
			return fmt.Errorf("pid %d is in the process table but in no container", pid)
		}
	}
	return nil
}

// Locate returns the container currently holding pid.
func (sim *Simulator) Locate(pid int) Location {
	switch pid {
	case 0:
		return LocNowhere
	case sim.Running:
		return LocRunning
	case sim.New:
		return LocNew
	case sim.Terminated:
		return LocTerminated
	}
	for _, r := range sim.ReadyQ.Items() {
		if r == pid {
			return LocReady
		}
	}
	if sim.WaitQ.Contains(pid) {
		if sim.Procs[pid].Status == StatusSleeping {
			return LocSleeping
		}
		return LocWaiting
	}
	return LocNowhere
}
