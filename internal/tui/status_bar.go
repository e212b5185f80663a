package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// AcquisitionStatus is the renderer's read-only view of a background
// acquisition.
type AcquisitionStatus interface {
	Progress() (produced, requested int)
	Finished() bool
}

// StatusBar renders the one-line footer under the slide.
type StatusBar struct {
	styles  Styles
	spinner spinner.Model
	status  AcquisitionStatus
}

// NewStatusBar returns a footer. status may be nil when nothing is being
// acquired.
func NewStatusBar(styles Styles, status AcquisitionStatus) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Progress

	return &StatusBar{
		styles:  styles,
		spinner: s,
		status:  status,
	}
}

func (s *StatusBar) loading() bool {
	return s.status != nil && !s.status.Finished()
}

// Init starts the spinner if an acquisition is in progress.
func (s *StatusBar) Init() tea.Cmd {
	if s.loading() {
		return s.spinner.Tick
	}
	return nil
}

// Update advances the spinner while loading.
func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if !s.loading() {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders index, mode, acquisition progress and an optional error.
func (s *StatusBar) View(index, total int, mode Mode, lastErr error) string {
	parts := []string{
		s.styles.Index.Render(fmt.Sprintf("%d/%d", index+1, total)),
		s.styles.Mode.Render(mode.String()),
	}

	if s.status != nil {
		produced, requested := s.status.Progress()
		if s.loading() {
			parts = append(parts, s.styles.Progress.Render(
				fmt.Sprintf("%s generating %d/%d", s.spinner.View(), produced, requested)))
		} else {
			parts = append(parts, s.styles.Done.Render(
				fmt.Sprintf("generated %d/%d", produced, requested)))
		}
	}
	if lastErr != nil {
		parts = append(parts, s.styles.Error.Render(truncate(lastErr.Error(), 60)))
	}
	return s.styles.Footer.Render(strings.Join(parts, "  "))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
