package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/script"
)

var checkInit string // Program expected to exist as pid 1

// checkCmd validates the scripts of a directory without simulating them
var checkCmd = &cobra.Command{
	Use:   "check <script-dir>",
	Short: "Report malformed or suspicious instructions without running",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		errs, err := runCheck(cmd.OutOrStdout(), args[0], checkInit)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if errs > 0 {
			logrus.Fatalf("%d error(s) found in %s", errs, args[0])
		}
	},
}

// runCheck prints every finding for dir to w and returns how many are errors.
func runCheck(w io.Writer, dir, initName string) (int, error) {
	findings, err := script.Check(script.NewDirSource(dir), initName)
	if err != nil {
		return 0, err
	}
	errs := 0
	for _, f := range findings {
		fmt.Fprintln(w, f)
		if f.Severity == script.SeverityError {
			errs++
		}
	}
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s: ok\n", dir)
	}
	return errs, nil
}

func init() {
	checkCmd.Flags().StringVar(&checkInit, "init", sim.DefaultInitProgram, "Program booted as pid 1")
}
