package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/inference-sim/procsim/sim/trace"
)

// Model is the replay viewer state. It never mutates the records it shows.
type Model struct {
	title   string
	halt    string
	records []trace.CycleRecord
	cursor  int
	totals  *trace.TraceSummary

	width  int
	height int

	quitting bool
}

// Config holds replay viewer configuration.
type Config struct {
	Title   string // shown in the header, usually the script directory
	Halt    string // halt reason of the run
	Records []trace.CycleRecord
}

// New creates a replay model positioned on the first record.
func New(cfg Config) Model {
	return Model{
		title:   cfg.Title,
		halt:    cfg.Halt,
		records: cfg.Records,
		totals:  trace.Summarize(&trace.Trace{Records: cfg.Records}),
		width:   80,
		height:  24,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and terminal resizes.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "right", "l", "n", " ":
			m.cursor = min(m.cursor+1, max(len(m.records)-1, 0))
		case "left", "h", "p":
			m.cursor = max(m.cursor-1, 0)
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.records)-1, 0)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

// View renders the current record.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.renderReplay()
}

// Cursor returns the index of the record on screen.
func (m Model) Cursor() int {
	return m.cursor
}

// Current returns the record on screen. Returns false if there are no records.
func (m Model) Current() (trace.CycleRecord, bool) {
	if len(m.records) == 0 {
		return trace.CycleRecord{}, false
	}
	return m.records[m.cursor], true
}
