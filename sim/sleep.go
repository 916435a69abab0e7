package sim

// SleepEntry pairs a sleeping pid with its remaining countdown in cycles.
type SleepEntry struct {
	PID       int
	Remaining uint
}

// SleepTracker holds sleeping processes in insertion order.
// It is the authoritative record of sleepers; the waiting set only reports them.
type SleepTracker struct {
	entries []SleepEntry
}

// Add registers pid with a countdown of cycles ticks.
// A countdown of zero is eligible for promotion on the very next Tick.
func (st *SleepTracker) Add(pid int, cycles uint) {
	st.entries = append(st.entries, SleepEntry{PID: pid, Remaining: cycles})
}

// Tick decrements every countdown by one and removes the entries that reach zero.
// Returns the expired pids in insertion order. Countdowns never underflow.
func (st *SleepTracker) Tick() []int {
	if len(st.entries) == 0 {
		return nil
	}
	var expired []int
	remaining := st.entries[:0:0]
	for _, e := range st.entries {
		if e.Remaining > 0 {
			e.Remaining--
		}
		if e.Remaining == 0 {
			expired = append(expired, e.PID)
			continue
		}
		remaining = append(remaining, e)
	}
	st.entries = remaining
	return expired
}

// Len returns the number of sleeping processes.
func (st *SleepTracker) Len() int {
	return len(st.entries)
}

// Contains reports whether pid is currently sleeping.
func (st *SleepTracker) Contains(pid int) bool {
	for _, e := range st.entries {
		if e.PID == pid {
			return true
		}
	}
	return false
}

// Entries returns a copy of the current entries in insertion order.
func (st *SleepTracker) Entries() []SleepEntry {
	out := make([]SleepEntry, len(st.entries))
	copy(out, st.entries)
	return out
}
