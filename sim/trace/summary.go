package trace

// Kernel and user mode labels as they appear in records.
const (
	ModeKernel = "kernel"
	ModeUser   = "user"
)

// Commands whose counts the summary reports separately.
const (
	CommandIdle     = "idle"
	CommandSchedule = "schedule"
)

// TraceSummary aggregates statistics from a Trace.
type TraceSummary struct {
	TotalCycles    int
	KernelCycles   int
	UserCycles     int
	IdleCycles     int
	ScheduleCycles int
	MaxReadyLen    int
	MaxWaitingLen  int
	UniquePIDs     int
	CommandCounts  map[string]int // command label → number of cycles
}

// Summarize computes aggregate statistics from a Trace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *Trace) *TraceSummary {
	summary := &TraceSummary{
		CommandCounts: make(map[string]int),
	}
	if t == nil {
		return summary
	}

	pids := make(map[int]bool)
	summary.TotalCycles = len(t.Records)
	for _, r := range t.Records {
		switch r.Mode {
		case ModeKernel:
			summary.KernelCycles++
		case ModeUser:
			summary.UserCycles++
		}
		switch r.Command {
		case CommandIdle:
			summary.IdleCycles++
		case CommandSchedule:
			summary.ScheduleCycles++
		}
		summary.CommandCounts[r.Command]++
		summary.MaxReadyLen = max(summary.MaxReadyLen, len(r.Ready))
		summary.MaxWaitingLen = max(summary.MaxWaitingLen, len(r.Waiting))
		for _, p := range []*ProcRef{r.Running, r.New, r.Terminated} {
			if p != nil {
				pids[p.PID] = true
			}
		}
	}
	summary.UniquePIDs = len(pids)

	return summary
}
