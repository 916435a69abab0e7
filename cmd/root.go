package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

var (
	// CLI flags shared by run and replay
	configPath  string // Optional YAML defaults file
	initProgram string // Program booted as pid 1
	maxCycles   int64  // Cycle horizon (0 = until halt)
	logLevel    string // Log verbosity level

	// CLI flags for run only
	outputPath  string // Trace destination
	metricsFile string // Prometheus textfile destination ("" = none)
	showSummary bool   // Print the run summary box
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "procsim",
	Short: "Cycle-accurate simulator of a single-CPU process scheduler",
}

// runCmd executes the simulation of a script directory and writes the trace
var runCmd = &cobra.Command{
	Use:   "run <script-dir>",
	Short: "Run the simulation and write the cycle trace",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		opts, err := resolveOptions(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		setupLogging(opts.LogLevel)

		s, halt, err := simulate(args[0], opts)
		if err != nil {
			logrus.Fatalf("Simulation aborted: %v", err)
		}
		if err := writeResults(cmd, s, halt, opts); err != nil {
			logrus.Fatalf("%v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging sets the global logrus level from a flag value.
func setupLogging(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", level)
	}
	logrus.SetLevel(lvl)
}

// registerSimFlags adds the flags every simulating command shares.
func registerSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configPath, "config", "", "YAML defaults file (flags override its values)")
	cmd.Flags().StringVar(&initProgram, "init", sim.DefaultInitProgram, "Program booted as pid 1")
	cmd.Flags().Int64Var(&maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = run until halt)")
	cmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
}

// init sets up CLI flags and subcommands
func init() {
	registerSimFlags(runCmd)
	runCmd.Flags().StringVarP(&outputPath, "output", "o", trace.DefaultResultPath, "Trace output file")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this file")
	runCmd.Flags().BoolVar(&showSummary, "summary", true, "Print a run summary to stdout")

	registerSimFlags(replayCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(replayCmd)
}
