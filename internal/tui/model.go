// Package tui is the slideshow renderer: a bubbletea program that shows the
// item under a wrapping cursor and advances it on a fixed tick.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shuheykoyama/tnap/internal/config"
	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/log"
	"github.com/shuheykoyama/tnap/internal/render"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// footerHeight is the number of rows reserved under the slide.
const footerHeight = 2

// DefaultInterval is how long each slide is shown.
const DefaultInterval = 3 * time.Second

// Mode selects how the current item is drawn.
type Mode int

const (
	ModeImage Mode = iota
	ModeASCII
)

func (m Mode) String() string {
	if m == ModeASCII {
		return "ascii"
	}
	return "image"
}

// Converter renders an item as character art no larger than cols×rows.
type Converter interface {
	Convert(item slides.Item, cols, rows int) (string, error)
}

// TickMsg advances the slideshow.
type TickMsg time.Time

// Options configures a Model.
type Options struct {
	Interval  time.Duration
	ASCII     bool
	Converter Converter
	Renderer  render.ImageRenderer
	Status    AcquisitionStatus
	Palette   config.Palette
	Logger    *log.Logger
}

// frame is the prepared representation of the item on screen. clear is
// written ahead of text to remove graphics left by the previous frame.
type frame struct {
	item   slides.Item
	mode   Mode
	text   string
	clear  string
	handle *render.Handle
}

// Model is the slideshow renderer.
type Model struct {
	set      *slides.ReadySet
	cursor   int
	mode     Mode
	interval time.Duration

	converter Converter
	renderer  render.ImageRenderer
	logger    *log.Logger

	width  int
	height int
	frame  frame

	keys      keyMap
	help      help.Model
	statusBar *StatusBar
	lastErr   error

	ticks        int
	draws        int
	offTickDraws int
	exiting      bool
}

// New returns a renderer over set. The cursor starts at 0.
func New(set *slides.ReadySet, opts Options) *Model {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Palette == (config.Palette{}) {
		opts.Palette = config.GetPalette("default")
	}
	mode := ModeImage
	if opts.ASCII || opts.Renderer == nil {
		mode = ModeASCII
	}

	styles := NewStyles(opts.Palette)
	h := help.New()
	h.Styles.ShortKey = styles.Help
	h.Styles.ShortDesc = styles.Help

	return &Model{
		set:       set,
		mode:      mode,
		interval:  opts.Interval,
		converter: opts.Converter,
		renderer:  opts.Renderer,
		logger:    opts.Logger,
		keys:      defaultKeyMap(),
		help:      h,
		statusBar: NewStatusBar(styles, opts.Status),
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.tick(), m.statusBar.Init())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.advance()
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rebuild()
		return m, nil
	}
	return m, m.statusBar.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.exiting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	}
	return m, nil
}

// advance moves the cursor one step, wrapping on the length observed now.
func (m *Model) advance() {
	m.ticks++
	if n := m.set.Len(); n > 0 {
		m.cursor = (m.cursor + 1) % n
	} else {
		m.cursor = 0
	}
	m.rebuild()
}

// toggle flips the display mode and redraws at once. The tick schedule is
// left alone. If the item cannot be shown in the new mode the old mode is
// kept along with its frame.
func (m *Model) toggle() {
	prev := m.mode
	if m.mode == ModeASCII && m.renderer != nil {
		m.mode = ModeImage
	} else {
		m.mode = ModeASCII
	}
	m.offTickDraws++
	if err := m.rebuild(); err != nil {
		m.mode = prev
	}
}

func (m *Model) area() render.Area {
	return render.Area{Width: m.width, Height: max(m.height-footerHeight, 1)}
}

// rebuild prepares the item under the cursor. On failure the previous frame
// stays on screen, the error is shown in the footer and returned.
func (m *Model) rebuild() error {
	item, ok := m.set.Get(m.cursor)
	if !ok {
		m.lastErr = errors.ErrNoItems
		return m.lastErr
	}
	if m.width <= 0 || m.height <= 0 {
		return nil
	}

	next, err := m.build(item)
	if err != nil {
		m.lastErr = err
		m.logger.WithError(err).Warnf("keeping previous frame, cannot show %s", item.Path())
		return err
	}
	m.frame = next
	m.lastErr = nil
	m.draws++
	return nil
}

func (m *Model) build(item slides.Item) (frame, error) {
	area := m.area()

	if m.mode == ModeASCII {
		if m.converter == nil {
			return frame{}, errors.NewRenderError("no ascii converter", item.Path(), errors.ConversionFailed, nil)
		}
		text, err := m.converter.Convert(item, area.Width, area.Height)
		if err != nil {
			return frame{}, err
		}
		next := frame{item: item, mode: ModeASCII, text: text}
		if m.frame.mode == ModeImage && m.frame.handle != nil {
			next.clear = m.renderer.Clear()
		}
		return next, nil
	}

	handle := m.frame.handle
	if handle == nil || handle.Item() != item {
		h, err := m.renderer.Prepare(item)
		if err != nil {
			return frame{}, err
		}
		handle = h
	}
	text, err := m.renderer.Draw(handle, area)
	if err != nil {
		return frame{}, err
	}
	return frame{item: item, mode: ModeImage, text: text, clear: m.renderer.Clear(), handle: handle}, nil
}

// View implements tea.Model
func (m *Model) View() string {
	if m.exiting {
		return ""
	}
	area := m.area()

	body := m.frame.text
	if m.frame.mode == ModeASCII && m.width > 0 {
		body = lipgloss.Place(area.Width, area.Height, lipgloss.Center, lipgloss.Center, body)
	}
	body = m.frame.clear + body

	footer := m.statusBar.View(m.cursor, m.set.Len(), m.mode, m.lastErr) + "\n" + m.help.View(m.keys)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// Cursor returns the index of the item under the cursor.
func (m *Model) Cursor() int { return m.cursor }

// Mode returns the current display mode.
func (m *Model) Mode() Mode { return m.mode }

// Current returns the item of the frame on screen.
func (m *Model) Current() slides.Item { return m.frame.item }

// Ticks returns the number of ticks handled.
func (m *Model) Ticks() int { return m.ticks }

// Draws returns the number of frames built successfully.
func (m *Model) Draws() int { return m.draws }

// OffTickDraws returns the number of redraws requested outside the tick
// schedule.
func (m *Model) OffTickDraws() int { return m.offTickDraws }

// Exiting reports whether quit was requested.
func (m *Model) Exiting() bool { return m.exiting }

// LastErr returns the most recent render failure, if the last rebuild failed.
func (m *Model) LastErr() error { return m.lastErr }
