package cli

import (
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/gitminer/internal/core/domain"
)

// Colour palette for console output.
var (
	colourInfo    = lipgloss.Color("#06B6D4") // Cyan
	colourAccent  = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourError   = lipgloss.Color("#F38BA8") // Red
	colourMedium  = lipgloss.Color("#FAB387") // Orange
)

// palette holds styles bound to one output. Colour is dropped when the
// output is not a terminal.
type palette struct {
	Title   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Keyword lipgloss.Style

	high   lipgloss.Style
	medium lipgloss.Style
	low    lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	return palette{
		Title:   r.NewStyle().Bold(true).Foreground(colourAccent),
		Info:    r.NewStyle().Foreground(colourInfo),
		Muted:   r.NewStyle().Foreground(colourMuted),
		Success: r.NewStyle().Foreground(colourSuccess),
		Warning: r.NewStyle().Foreground(colourWarning),
		Error:   r.NewStyle().Foreground(colourError),
		Keyword: r.NewStyle().Foreground(colourWarning),
		high:    r.NewStyle().Bold(true).Foreground(colourError),
		medium:  r.NewStyle().Foreground(colourMedium),
		low:     r.NewStyle().Foreground(colourMuted),
	}
}

// Severity returns the style for a tier.
func (p palette) Severity(tier domain.SeverityTier) lipgloss.Style {
	switch tier {
	case domain.SeverityHigh:
		return p.high
	case domain.SeverityMedium:
		return p.medium
	default:
		return p.low
	}
}
