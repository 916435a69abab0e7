package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/procsim/internal/tui"
	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/metrics"
	"github.com/inference-sim/procsim/sim/script"
	"github.com/inference-sim/procsim/sim/trace"
)

// simulate boots the init program of dir and runs it to halt.
// The returned simulator is non-nil whenever construction succeeded, so a
// partial trace is available even when the run aborts.
func simulate(dir string, opts runOptions) (*sim.Simulator, sim.HaltReason, error) {
	cfg := sim.Config{
		InitProgram: opts.InitProgram,
		MaxCycles:   opts.MaxCycles,
	}
	s, err := sim.NewSimulator(cfg, script.NewDirSource(dir))
	if err != nil {
		return nil, sim.HaltNone, err
	}

	logrus.Infof("Starting simulation of %s (init=%s, max cycles=%d)", dir, cfg.InitProgram, cfg.MaxCycles)
	halt, err := s.Run()
	if err != nil {
		return s, halt, err
	}
	if halt != sim.HaltIdle {
		logrus.Warnf("Simulation halted early: %s", halt)
	}
	return s, halt, nil
}

// writeResults persists the trace, reports it, and optionally prints the
// summary box and writes the Prometheus metrics file.
func writeResults(cmd *cobra.Command, s *sim.Simulator, halt sim.HaltReason, opts runOptions) error {
	if err := (trace.FileSink{Path: opts.Output}).Write(s.Trace.String()); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "result written to file")

	summary := s.Metrics.Summary(halt)
	if opts.Summary {
		fmt.Fprintln(out, tui.RenderSummary(summary))
	}
	if opts.MetricsFile != "" {
		c := metrics.NewCollector()
		c.Observe(opts.InitProgram, summary)
		if err := c.WriteTextfile(opts.MetricsFile); err != nil {
			return err
		}
		logrus.Infof("Metrics written to %s", opts.MetricsFile)
	}
	return nil
}
