package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/procsim/internal/tui"
)

// replayCmd runs the simulation and steps through its cycles interactively
var replayCmd = &cobra.Command{
	Use:   "replay <script-dir>",
	Short: "Run the simulation and browse the trace cycle by cycle",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolveOptions(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		setupLogging(opts.LogLevel)

		s, halt, err := simulate(args[0], opts)
		if s == nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}
		haltLabel := string(halt)
		if err != nil {
			// Show the cycles recorded before the abort.
			logrus.Errorf("Simulation aborted: %v", err)
			haltLabel = "aborted"
		}

		model := tui.New(tui.Config{
			Title:   args[0],
			Halt:    haltLabel,
			Records: s.Trace.Records,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			logrus.Fatalf("Replay viewer failed: %v", err)
		}
	},
}
