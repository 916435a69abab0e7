// Package tui provides the terminal views of procsim.
//
// The replay viewer uses Bubble Tea for the application framework and Lipgloss
// for styling. It steps through the cycle records of a finished run, one
// record per screen, showing:
// - the CPU mode and command of the cycle
// - the running, new and terminated slots
// - the ready queue and the waiting set
//
// RenderSummary draws the end-of-run statistics box printed by `procsim run`.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorAccent    = lipgloss.Color("#F59E0B") // Amber

	colorSuccess = lipgloss.Color("#10B981") // Green
	colorError   = lipgloss.Color("#EF4444") // Red

	colorText      = lipgloss.Color("#E5E7EB") // Light gray
	colorTextMuted = lipgloss.Color("#9CA3AF") // Medium gray
	colorTextDim   = lipgloss.Color("#6B7280") // Dark gray
	colorBorder    = lipgloss.Color("#374151") // Border gray
)

// =============================================================================
// Styles
// =============================================================================

var (
	baseStyle = lipgloss.NewStyle().
			Foreground(colorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	commandStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	kernelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	userStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	haltOKStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	haltBadStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	labelWidth = 12
)

// renderLabel renders a fixed-width muted label.
func renderLabel(label string) string {
	return mutedStyle.Width(labelWidth).Render(label)
}
