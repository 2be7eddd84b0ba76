// Package style provides consistent terminal styling for userctl using Lipgloss.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	// Success style for positive outcomes
	Success = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10")). // Green
		Bold(true)

	// Error style for failures
	Error = lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")). // Red
		Bold(true)

	// Dim style for secondary information
	Dim = lipgloss.NewStyle().
		Foreground(lipgloss.Color("8")) // Gray

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().
		Bold(true)

	// Accent matches the console spinner colour
	Accent = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#36d7b7"))

	// SuccessPrefix is the checkmark prefix for success messages
	SuccessPrefix = Success.Render("✓")

	// ErrorPrefix is the error prefix
	ErrorPrefix = Error.Render("✗")
)

// Table renders rows under a bold header; width<=0 lets the table size itself.
func Table(headers []string, rows [][]string, width int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(Dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Bold.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
