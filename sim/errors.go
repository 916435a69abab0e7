package sim

import (
	"errors"
	"fmt"
)

// ErrScriptNotFound is returned by a ScriptSource when a program name does not
// resolve to a readable script. It aborts the simulation.
var ErrScriptNotFound = errors.New("script not found")

// MalformedArgumentError reports an instruction whose keyword is known but whose
// argument cannot be decoded (e.g. "sleep soon"). It aborts the simulation.
type MalformedArgumentError struct {
	Line   string
	Reason string
}

func (e *MalformedArgumentError) Error() string {
	return fmt.Sprintf("malformed argument in %q: %s", e.Line, e.Reason)
}
