package sim

import (
	"fmt"
	"path/filepath"
)

// DefaultInitProgram is the program booted as pid 1.
const DefaultInitProgram = "init"

// Config groups engine parameters.
type Config struct {
	InitProgram string // program booted as pid 1 (default "init")
	MaxCycles   int64  // cycle horizon; 0 = run until the simulation halts on its own
}

// DefaultConfig returns the configuration of the reference simulator.
func DefaultConfig() Config {
	return Config{
		InitProgram: DefaultInitProgram,
		MaxCycles:   0,
	}
}

// Validate checks the configuration before a simulator is built from it.
func (c Config) Validate() error {
	if c.InitProgram == "" {
		return fmt.Errorf("init program name must not be empty")
	}
	if filepath.Base(c.InitProgram) != c.InitProgram {
		return fmt.Errorf("init program %q must be a bare program name", c.InitProgram)
	}
	if c.MaxCycles < 0 {
		return fmt.Errorf("max cycles must be non-negative, got %d", c.MaxCycles)
	}
	return nil
}
