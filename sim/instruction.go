package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// InstructionKind identifies which handler an instruction dispatches to.
type InstructionKind int

const (
	KindUnknown InstructionKind = iota
	KindRun
	KindForkAndExec
	KindSleep
	KindWait
	KindExit
)

// keywords maps script keywords to instruction kinds.
var keywords = map[string]InstructionKind{
	"run":           KindRun,
	"fork_and_exec": KindForkAndExec,
	"sleep":         KindSleep,
	"wait":          KindWait,
	"exit":          KindExit,
}

func (k InstructionKind) String() string {
	switch k {
	case KindRun:
		return "run"
	case KindForkAndExec:
		return "fork_and_exec"
	case KindSleep:
		return "sleep"
	case KindWait:
		return "wait"
	case KindExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Instruction is one decoded script line.
// Cycles is set for run and sleep, Program for fork_and_exec.
// Raw keeps the original text for diagnostics.
type Instruction struct {
	Kind    InstructionKind
	Cycles  uint
	Program string
	Raw     string
}

func (in Instruction) String() string {
	switch in.Kind {
	case KindRun, KindSleep:
		return fmt.Sprintf("%s %d", in.Kind, in.Cycles)
	case KindForkAndExec:
		return fmt.Sprintf("%s %s", in.Kind, in.Program)
	case KindWait, KindExit:
		return in.Kind.String()
	default:
		return in.Raw
	}
}

// ParseInstruction decodes a single script line.
// The keyword is the first whitespace-separated field and must match exactly.
// Unrecognized keywords (and blank lines) decode to KindUnknown without error;
// they are reported when dispatched. A recognized keyword with a bad argument
// returns a *MalformedArgumentError.
func ParseInstruction(line string) (Instruction, error) {
	fields := strings.Fields(line)
	in := Instruction{Raw: line}
	if len(fields) == 0 {
		return in, nil
	}
	kind, ok := keywords[fields[0]]
	if !ok {
		return in, nil
	}
	in.Kind = kind
	args := fields[1:]

	switch kind {
	case KindRun, KindSleep:
		if len(args) != 1 {
			return in, &MalformedArgumentError{Line: line, Reason: fmt.Sprintf("%s takes exactly one cycle count", kind)}
		}
		n, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return in, &MalformedArgumentError{Line: line, Reason: fmt.Sprintf("cycle count %q is not an unsigned integer", args[0])}
		}
		in.Cycles = uint(n)
	case KindForkAndExec:
		if len(args) != 1 {
			return in, &MalformedArgumentError{Line: line, Reason: "fork_and_exec takes exactly one program name"}
		}
		in.Program = args[0]
	case KindWait, KindExit:
		if len(args) != 0 {
			return in, &MalformedArgumentError{Line: line, Reason: fmt.Sprintf("%s takes no arguments", kind)}
		}
	}
	return in, nil
}

// ParseScript decodes every line of a script, stopping at the first malformed argument.
func ParseScript(lines []string) ([]Instruction, error) {
	instrs := make([]Instruction, 0, len(lines))
	for i, line := range lines {
		in, err := ParseInstruction(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		instrs = append(instrs, in)
	}
	return instrs, nil
}
