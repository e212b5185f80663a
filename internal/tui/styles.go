package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/shuheykoyama/tnap/internal/config"
)

// Styles holds the footer styles derived from a palette.
type Styles struct {
	Footer   lipgloss.Style
	Index    lipgloss.Style
	Mode     lipgloss.Style
	Progress lipgloss.Style
	Done     lipgloss.Style
	Error    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds footer styles from p.
func NewStyles(p config.Palette) Styles {
	return Styles{
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Index: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(p.Primary)),

		Mode: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Emphasis)),

		Progress: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warning)),

		Done: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Success)),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Error)),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
	}
}
