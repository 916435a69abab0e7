package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	sim "github.com/inference-sim/procsim/sim"
	"github.com/inference-sim/procsim/sim/trace"
)

func (m Model) renderReplay() string {
	header := m.renderHeader()
	rec, ok := m.Current()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, header, dimStyle.Render("trace is empty"), m.renderHelp())
	}
	body := boxStyle.Width(min(m.width-2, 72)).Render(renderRecord(rec))
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderHelp())
}

func (m Model) renderHeader() string {
	pos := fmt.Sprintf("record %d/%d", m.cursor+1, len(m.records))
	if len(m.records) == 0 {
		pos = "record 0/0"
	}
	title := fmt.Sprintf("%s  %s  %s",
		titleStyle.Render("procsim replay "+m.title),
		mutedStyle.Render(pos),
		renderHalt(m.halt),
	)
	return lipgloss.JoinVertical(lipgloss.Left, title, m.renderTotals())
}

// renderTotals shows whole-run counts taken from the trace itself.
func (m Model) renderTotals() string {
	t := m.totals
	return dimStyle.Render(fmt.Sprintf("kernel %d  user %d  idle %d  schedule %d  pids %d  peak ready %d  peak waiting %d",
		t.KernelCycles, t.UserCycles, t.IdleCycles, t.ScheduleCycles, t.UniquePIDs, t.MaxReadyLen, t.MaxWaitingLen))
}

func (m Model) renderHelp() string {
	return dimStyle.Render("←/h prev  →/l next  g first  G last  q quit")
}

func renderHalt(halt string) string {
	if halt == string(sim.HaltIdle) {
		return haltOKStyle.Render("halt: " + halt)
	}
	return haltBadStyle.Render("halt: " + halt)
}

// renderRecord renders one cycle record as labelled rows.
func renderRecord(r trace.CycleRecord) string {
	mode := userStyle.Render(r.Mode)
	if r.Mode == trace.ModeKernel {
		mode = kernelStyle.Render(r.Mode)
	}

	ready := "none"
	if len(r.Ready) > 0 {
		parts := make([]string, len(r.Ready))
		for i, pid := range r.Ready {
			parts[i] = fmt.Sprint(pid)
		}
		ready = strings.Join(parts, " ")
	}
	waiting := "none"
	if len(r.Waiting) > 0 {
		parts := make([]string, len(r.Waiting))
		for i, w := range r.Waiting {
			parts[i] = w.String()
		}
		waiting = strings.Join(parts, " ")
	}

	rows := []string{
		renderLabel("cycle") + baseStyle.Render(fmt.Sprintf("#%d", r.Cycle)),
		renderLabel("mode") + mode,
		renderLabel("command") + commandStyle.Render(r.Command),
		renderLabel("running") + baseStyle.Render(procOrNone(r.Running)),
		renderLabel("ready") + baseStyle.Render(ready),
		renderLabel("waiting") + baseStyle.Render(waiting),
		renderLabel("new") + baseStyle.Render(procOrNone(r.New)),
		renderLabel("terminated") + baseStyle.Render(procOrNone(r.Terminated)),
	}
	return strings.Join(rows, "\n")
}

func procOrNone(p *trace.ProcRef) string {
	if p == nil {
		return "none"
	}
	return p.String()
}

// RenderSummary draws the end-of-run statistics box.
func RenderSummary(s sim.RunSummary) string {
	rows := []string{
		titleStyle.Render("procsim run summary"),
		renderLabel("halt") + renderHalt(string(s.Halt)),
		renderLabel("cycles") + baseStyle.Render(fmt.Sprintf("%d (%d idle, %.1f%% busy)", s.Cycles, s.IdleCycles, s.Utilization*100)),
		renderLabel("schedules") + baseStyle.Render(fmt.Sprint(s.Schedules)),
		renderLabel("processes") + baseStyle.Render(fmt.Sprintf("%d created, %d exited", s.ProcessesCreated, s.ProcessesExited)),
		renderLabel("peak ready") + baseStyle.Render(fmt.Sprint(s.PeakReadyLen)),
		renderLabel("turnaround") + baseStyle.Render(fmt.Sprintf("p50 %.1f  p95 %.1f cycles", s.TurnaroundP50, s.TurnaroundP95)),
		renderLabel("ready wait") + baseStyle.Render(fmt.Sprintf("p50 %.1f  p95 %.1f cycles", s.ReadyWaitP50, s.ReadyWaitP95)),
	}
	if s.MalformedInstructions > 0 {
		rows = append(rows, renderLabel("malformed")+haltBadStyle.Render(fmt.Sprint(s.MalformedInstructions)))
	}
	return boxStyle.Render(strings.Join(rows, "\n"))
}
