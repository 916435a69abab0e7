// Package script resolves program names to decoded instruction lists.
// It is the file-system collaborator of the engine: the simulator asks for a
// program by name at boot and on every fork_and_exec.
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/procsim/sim"
)

// DirSource loads programs from files named after the program in a directory.
type DirSource struct {
	Dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{Dir: dir}
}

// Load reads and decodes the script for program name.
// Names that are not a bare file name never resolve, so a script cannot reach
// outside its directory.
func (s *DirSource) Load(name string) ([]sim.Instruction, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid program name %q", sim.ErrScriptNotFound, name)
	}
	path := filepath.Join(s.Dir, name)
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sim.ErrScriptNotFound, path)
		}
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("reading script %s: %w", path, err)
	}
	instrs, err := sim.ParseScript(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", path, err)
	}
	logrus.Debugf("loaded %s: %d instruction(s)", path, len(instrs))
	return instrs, nil
}

// Programs lists the program names available in the directory, sorted.
func (s *DirSource) Programs() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing scripts in %s: %w", s.Dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadLines splits r into lines, dropping the line terminators (LF or CRLF).
// A trailing newline does not produce an empty final line.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// MapSource is an in-memory source mapping program names to script lines.
type MapSource map[string][]string

// Load decodes the lines registered for name.
func (m MapSource) Load(name string) ([]sim.Instruction, error) {
	lines, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sim.ErrScriptNotFound, name)
	}
	instrs, err := sim.ParseScript(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing script %s: %w", name, err)
	}
	return instrs, nil
}
