// Package testutil provides shared test infrastructure for the procsim simulator.
// It consolidates golden trace loading and testdata path resolution used by
// the sim/ and sim/script/ test packages.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// repoRoot resolves the repository root relative to this source file:
// sim/internal/testutil/ → ../../../
func repoRoot(t *testing.T) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
}

// ProgramDir returns the path of a sample script directory under testdata/programs/.
func ProgramDir(t *testing.T, name string) string {
	t.Helper()
	dir := filepath.Join(repoRoot(t), "testdata", "programs", name)
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Failed to find program directory %s: %v", dir, err)
	}
	return dir
}

// LoadGoldenTrace loads testdata/golden/<name>.result.
func LoadGoldenTrace(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(repoRoot(t), "testdata", "golden", name+".result")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden trace: %v", err)
	}
	return string(data)
}

// LoadProgramLines reads every script in testdata/programs/<name> into an
// in-memory map of program name → lines, for sources that cannot touch disk.
func LoadProgramLines(t *testing.T, name string) map[string][]string {
	t.Helper()
	dir := ProgramDir(t, name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list %s: %v", dir, err)
	}
	programs := make(map[string][]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", e.Name(), err)
		}
		programs[e.Name()] = splitLines(string(data))
	}
	return programs
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
