package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultResultPath is where the trace is persisted when no path is configured.
const DefaultResultPath = "result"

// Trace accumulates one CycleRecord per logged cycle.
type Trace struct {
	Records []CycleRecord
}

// NewTrace creates a Trace ready for recording.
func NewTrace() *Trace {
	return &Trace{
		Records: make([]CycleRecord, 0),
	}
}

// Append records a completed cycle.
func (t *Trace) Append(record CycleRecord) {
	t.Records = append(t.Records, record)
}

// Len returns the number of recorded cycles.
func (t *Trace) Len() int {
	return len(t.Records)
}

// Last returns the most recent record. Returns false on an empty trace.
func (t *Trace) Last() (CycleRecord, bool) {
	if len(t.Records) == 0 {
		return CycleRecord{}, false
	}
	return t.Records[len(t.Records)-1], true
}

// String renders every record in order.
func (t *Trace) String() string {
	var sb strings.Builder
	for _, r := range t.Records {
		sb.WriteString(r.Format())
	}
	return sb.String()
}

// WriteTo writes the rendered trace to w.
func (t *Trace) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// Sink accepts a finished trace for persistence.
type Sink interface {
	Write(text string) error
}

// FileSink persists the trace to a file, replacing any previous content.
type FileSink struct {
	Path string
}

// Write stores text at the sink's path (DefaultResultPath if empty).
func (s FileSink) Write(text string) error {
	path := s.Path
	if path == "" {
		path = DefaultResultPath
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing trace to %s: %w", path, err)
	}
	return nil
}
