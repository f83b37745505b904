package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles is the palette every printer pulls from.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Accent  lipgloss.Style
	Border  lipgloss.Style
}

// NewStyles builds styles for w. Colour follows w's terminal
// capabilities; plain forces uncoloured output.
func NewStyles(w io.Writer, plain bool) Styles {
	r := lipgloss.NewRenderer(w)
	if plain {
		return Styles{
			Title:   r.NewStyle(),
			Success: r.NewStyle(),
			Error:   r.NewStyle(),
			Muted:   r.NewStyle(),
			Accent:  r.NewStyle(),
			Border:  r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
		}
	}
	return Styles{
		Title:   r.NewStyle().Bold(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("42")),
		Error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Muted:   r.NewStyle().Faint(true),
		Accent:  r.NewStyle().Foreground(lipgloss.Color("12")),
		Border: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}
