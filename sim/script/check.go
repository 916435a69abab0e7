package script

import (
	"fmt"
	"os"
	"path/filepath"

	sim "github.com/inference-sim/procsim/sim"
)

// Severity of a check finding.
type Severity string

const (
	SeverityError   Severity = "error"   // aborts a simulation that loads the program
	SeverityWarning Severity = "warning" // skipped at run time with a diagnostic
)

// Finding is one problem found in a script without running it.
type Finding struct {
	Program  string
	Line     int // 1-based; 0 when the finding concerns the whole program
	Severity Severity
	Message  string
}

func (f Finding) String() string {
	if f.Line == 0 {
		return fmt.Sprintf("%s: %s: %s", f.Program, f.Severity, f.Message)
	}
	return fmt.Sprintf("%s:%d: %s: %s", f.Program, f.Line, f.Severity, f.Message)
}

// Check decodes every program in the directory and reports malformed arguments,
// unknown keywords, fork targets that do not exist, programs without exit and a
// missing init program.
func Check(s *DirSource, initProgram string) ([]Finding, error) {
	programs, err := s.Programs()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(programs))
	for _, p := range programs {
		known[p] = true
	}

	var findings []Finding
	if !known[initProgram] {
		findings = append(findings, Finding{Program: initProgram, Severity: SeverityError,
			Message: "init program not found in " + s.Dir})
	}
	for _, program := range programs {
		findings = append(findings, checkProgram(s.Dir, program, known)...)
	}
	return findings, nil
}

func checkProgram(dir, program string, known map[string]bool) []Finding {
	f, err := os.Open(filepath.Join(dir, program))
	if err != nil {
		return []Finding{{Program: program, Severity: SeverityError, Message: err.Error()}}
	}
	defer f.Close()
	lines, err := ReadLines(f)
	if err != nil {
		return []Finding{{Program: program, Severity: SeverityError, Message: err.Error()}}
	}

	var findings []Finding
	hasExit := false
	for i, line := range lines {
		in, err := sim.ParseInstruction(line)
		if err != nil {
			findings = append(findings, Finding{Program: program, Line: i + 1, Severity: SeverityError, Message: err.Error()})
			continue
		}
		switch in.Kind {
		case sim.KindUnknown:
			findings = append(findings, Finding{Program: program, Line: i + 1, Severity: SeverityWarning,
				Message: fmt.Sprintf("unknown instruction %q", line)})
		case sim.KindForkAndExec:
			if !known[in.Program] {
				findings = append(findings, Finding{Program: program, Line: i + 1, Severity: SeverityError,
					Message: fmt.Sprintf("fork target %q not found", in.Program)})
			}
		case sim.KindExit:
			hasExit = true
		}
	}
	if !hasExit {
		findings = append(findings, Finding{Program: program, Severity: SeverityWarning,
			Message: "no exit instruction; the simulation stops when it runs out of instructions"})
	}
	return findings
}
