// Package app wires the slideshow together: it validates the requested
// source, starts the background producer, runs the renderer and joins the
// producer again on exit.
package app

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/shuheykoyama/tnap/internal/acquire"
	"github.com/shuheykoyama/tnap/internal/ascii"
	"github.com/shuheykoyama/tnap/internal/config"
	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/imagegen"
	"github.com/shuheykoyama/tnap/internal/log"
	"github.com/shuheykoyama/tnap/internal/render"
	"github.com/shuheykoyama/tnap/internal/slides"
	"github.com/shuheykoyama/tnap/internal/theme"
	"github.com/shuheykoyama/tnap/internal/tui"
	"github.com/shuheykoyama/tnap/internal/watch"
)

// DefaultTheme is shown when no source is requested.
const DefaultTheme = "cat"

// Options are the per-run choices from the command line.
type Options struct {
	Theme     string
	PromptKey string
	Prompt    string
	ASCII     bool
	Count     int
	Watch     bool
}

// Source returns which of the three sources the options select. Exactly one
// may be set; none means DefaultTheme.
func (o Options) Source() (string, error) {
	set := 0
	for _, v := range []string{o.Theme, o.PromptKey, o.Prompt} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	switch {
	case set > 1:
		return "", errors.NewConfigError("--theme, --key and --prompt are mutually exclusive", "source", errors.InvalidArguments, nil)
	case o.PromptKey != "" || o.Prompt != "":
		return "generate", nil
	default:
		return "theme", nil
	}
}

// ProgramRunner runs a bubbletea model to completion.
type ProgramRunner func(ctx context.Context, m tea.Model) error

// App holds the collaborators for one invocation.
type App struct {
	cfg *config.Config
	out io.Writer

	isTerminal func() bool
	now        func() time.Time
	generator  acquire.Generator
	downloader acquire.Materializer
	converter  tui.Converter
	run        ProgramRunner
	logger     *log.Logger
}

// Option configures an App.
type Option func(*App)

// WithGenerator replaces the OpenAI images client.
func WithGenerator(g acquire.Generator) Option {
	return func(a *App) { a.generator = g }
}

// WithDownloader replaces the HTTP downloader.
func WithDownloader(d acquire.Materializer) Option {
	return func(a *App) { a.downloader = d }
}

// WithConverter replaces the ASCII converter.
func WithConverter(c tui.Converter) Option {
	return func(a *App) { a.converter = c }
}

// WithProgramRunner replaces the full-screen bubbletea program.
func WithProgramRunner(r ProgramRunner) Option {
	return func(a *App) { a.run = r }
}

// WithTerminalCheck replaces the stdout TTY check.
func WithTerminalCheck(f func() bool) Option {
	return func(a *App) { a.isTerminal = f }
}

// WithClock replaces time.Now for session naming.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// WithLogger overrides the package default logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) { a.logger = l }
}

// New returns an App. out receives the shutdown notice and the final
// acquisition summary.
func New(cfg *config.Config, out io.Writer, opts ...Option) *App {
	if out == nil {
		out = os.Stderr
	}
	a := &App{
		cfg:        cfg,
		out:        out,
		isTerminal: stdoutIsTerminal,
		now:        time.Now,
		run:        runFullScreen,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.converter == nil {
		a.converter = ascii.NewConverter()
	}
	return a
}

func stdoutIsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runFullScreen(ctx context.Context, m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// plan is a validated run.
type plan struct {
	source   string
	items    []slides.Item
	themeDir string
	prompt   string
	count    int
	renderer render.ImageRenderer
}

// prepare performs every structural check. Nothing is started.
func (a *App) prepare(opts Options) (*plan, error) {
	source, err := opts.Source()
	if err != nil {
		return nil, err
	}
	if !a.isTerminal() {
		return nil, errors.NewWithKind(errors.NotATerminal, "tnap needs an interactive terminal on stdout", nil)
	}

	renderer, err := render.Negotiate(a.cfg.Slideshow.Protocol)
	if err != nil {
		return nil, err
	}
	p := &plan{source: source, renderer: renderer}

	if source == "theme" {
		name := strings.TrimSpace(opts.Theme)
		if name == "" {
			name = DefaultTheme
		}
		t, err := theme.Load(a.cfg.Themes.Dir, name)
		if err != nil {
			return nil, err
		}
		if len(t.Items) == 0 {
			return nil, errors.ErrNoItems
		}
		p.items, p.themeDir = t.Items, t.Dir
		return p, nil
	}

	p.prompt = strings.TrimSpace(opts.Prompt)
	if opts.PromptKey != "" {
		catalog, err := config.LoadPrompts(a.cfg.Prompts.Catalog)
		if err != nil {
			return nil, err
		}
		if p.prompt, err = catalog.Lookup(opts.PromptKey); err != nil {
			return nil, err
		}
	}

	p.count = a.cfg.Acquisition.Count
	if opts.Count > 0 {
		p.count = opts.Count
	}

	if info, err := os.Stat(a.cfg.Acquisition.Placeholder); err != nil || info.IsDir() {
		return nil, errors.NewWithKind(errors.NoItems,
			"placeholder image "+a.cfg.Acquisition.Placeholder+" not found", err)
	}
	if a.generator == nil && a.cfg.APIKey() == "" {
		return nil, errors.NewConfigError(
			"no API key in $"+a.cfg.Generation.APIKeyEnv, "generation.api_key_env", errors.InvalidConfig, nil)
	}
	return p, nil
}

// Run validates opts, then shows the slideshow until the user quits. An
// acquisition failure is reported on out but does not fail the run.
func (a *App) Run(ctx context.Context, opts Options) error {
	p, err := a.prepare(opts)
	if err != nil {
		return err
	}
	if p.source == "theme" {
		return a.runTheme(ctx, p, opts)
	}
	return a.runGenerate(ctx, p, opts)
}

func (a *App) model(set *slides.ReadySet, p *plan, asciiMode bool, status tui.AcquisitionStatus) *tui.Model {
	return tui.New(set, tui.Options{
		Interval:  a.cfg.TickInterval(),
		ASCII:     asciiMode || a.cfg.Slideshow.ASCII,
		Converter: a.converter,
		Renderer:  p.renderer,
		Status:    status,
		Palette:   config.GetPalette(a.cfg.Slideshow.Palette),
		Logger:    a.logger,
	})
}

func (a *App) runTheme(ctx context.Context, p *plan, opts Options) error {
	set := slides.New(p.items...)
	logger := a.logger.With(log.F("theme_dir", p.themeDir), log.F("items", len(p.items)))
	logger.Info("starting theme slideshow")

	var task Task
	if opts.Watch {
		wt, err := startWatchTask(p.themeDir, set, watch.WithFilter(theme.IsImage))
		if err != nil {
			return errors.Wrap(err, "watch theme directory")
		}
		task = wt
	}

	runErr := a.run(ctx, a.model(set, p, opts.ASCII, nil))
	NewCoordinator(task, a.out).WithNotice("").Shutdown()
	if wt, ok := task.(*watchTask); ok {
		logger.With(log.F("added", wt.added), log.F("watched", wt.w.Directories())).Info("theme watcher stopped")
	}
	return runErr
}

func (a *App) runGenerate(ctx context.Context, p *plan, opts Options) error {
	session, err := acquire.OpenSession(a.cfg.Acquisition.OutputDir, a.now())
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			a.logger.WithError(err).Warn("release session lock")
		}
	}()

	gen, dl := a.generator, a.downloader
	if gen == nil {
		gen = imagegen.NewClient(imagegen.Config{
			APIKey:  a.cfg.APIKey(),
			BaseURL: a.cfg.Generation.BaseURL,
			Model:   a.cfg.Generation.Model,
			Size:    a.cfg.Generation.Size,
		})
	}
	if dl == nil {
		dl = imagegen.NewDownloader()
	}

	set := slides.NewWithPlaceholder(slides.Item(a.cfg.Acquisition.Placeholder))
	acq, err := acquire.New(acquire.Config{Prompt: p.prompt, Count: p.count, Dir: session.Dir},
		gen, dl, set, acquire.WithLogger(a.logger))
	if err != nil {
		return err
	}

	handle := acq.Start(ctx)
	runErr := a.run(ctx, a.model(set, p, opts.ASCII, handle))

	NewCoordinator(handle, a.out).Shutdown()
	result := handle.Wait()
	if result.Err != nil {
		a.fprintln(result.Summary())
	}
	a.logger.With(log.F("session", session.Dir), log.F("run_id", handle.RunID())).Info(result.Summary())
	return runErr
}

func (a *App) fprintln(s string) {
	_, _ = io.WriteString(a.out, s+"\n")
}
