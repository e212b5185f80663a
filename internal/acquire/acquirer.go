// Package acquire runs the background image producer for a generated
// slideshow.
//
// An Acquirer produces up to Count items one after another: each iteration
// asks the generator for a new image, materializes it under Dir and appends
// it to the shared slides.ReadySet. The caller gets a Handle back from Start
// and uses it to request a cooperative stop and to join the goroutine.
package acquire

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/shuheykoyama/tnap/internal/errors"
	"github.com/shuheykoyama/tnap/internal/imagegen"
	"github.com/shuheykoyama/tnap/internal/log"
	"github.com/shuheykoyama/tnap/internal/slides"
)

// Generator requests a new image for a prompt.
type Generator interface {
	RequestGeneration(ctx context.Context, prompt string) (imagegen.SourceRef, error)
}

// Materializer turns a generated reference into a local item.
type Materializer interface {
	Materialize(ctx context.Context, ref imagegen.SourceRef, destination string) (slides.Item, error)
}

// Config describes one acquisition run.
type Config struct {
	Prompt string
	Count  int
	Dir    string
}

// Acquirer produces slideshow items in the background.
type Acquirer struct {
	cfg    Config
	gen    Generator
	dl     Materializer
	set    *slides.ReadySet
	logger *log.Logger
	naming func(index int) string
}

// Option configures an Acquirer.
type Option func(*Acquirer)

// WithLogger overrides the package default logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *Acquirer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithNaming overrides how item file names are derived from the iteration
// index. The default is "<index>.png".
func WithNaming(naming func(index int) string) Option {
	return func(a *Acquirer) {
		if naming != nil {
			a.naming = naming
		}
	}
}

// New creates an Acquirer writing into set.
func New(cfg Config, gen Generator, dl Materializer, set *slides.ReadySet, opts ...Option) (*Acquirer, error) {
	if gen == nil || dl == nil || set == nil {
		return nil, errors.New("acquirer requires generator, downloader and ready set")
	}
	if cfg.Count < 0 {
		return nil, errors.NewConfigError("count must not be negative", "count", errors.InvalidArguments, nil)
	}
	a := &Acquirer{
		cfg:    cfg,
		gen:    gen,
		dl:     dl,
		set:    set,
		logger: log.Default(),
		naming: func(index int) string { return fmt.Sprintf("%d.png", index) },
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Start launches the acquisition goroutine and returns its handle. ctx is
// passed to the collaborators as-is; stopping is done through the handle.
func (a *Acquirer) Start(ctx context.Context) *Handle {
	h := newHandle(uuid.NewString(), a.cfg.Count)
	logger := a.logger.With(log.F("run_id", h.runID), log.F("requested", a.cfg.Count))
	logger.Info("image acquisition started")

	go func() {
		result := a.run(ctx, h, logger)
		h.finish(result)
		logger.With(
			log.F("produced", result.Produced),
			log.F("stopped", result.Stopped),
		).Info("image acquisition finished")
	}()
	return h
}

func (a *Acquirer) run(ctx context.Context, h *Handle, logger *log.Logger) Result {
	result := Result{Requested: a.cfg.Count}

	for i := 0; i < a.cfg.Count; i++ {
		if h.StopRequested() {
			result.Stopped = true
			return result
		}

		ref, err := a.gen.RequestGeneration(ctx, a.cfg.Prompt)
		if err != nil {
			result.Err = errors.NewAcquisitionError(i, "generate", errors.GenerationFailed, err)
			logger.WithError(result.Err).Error("image generation failed")
			return result
		}

		destination := filepath.Join(a.cfg.Dir, a.naming(i))
		item, err := a.dl.Materialize(ctx, ref, destination)
		if err != nil {
			result.Err = errors.NewAcquisitionError(i, "download", errors.DownloadFailed, err)
			logger.WithError(result.Err).Error("image download failed")
			return result
		}

		a.set.Append(item)
		produced := h.produced.Add(1)
		result.Produced = int(produced)
		logger.With(log.F("index", i), log.F("path", item.Path())).Debug("image appended")
	}
	return result
}

// Result reports how an acquisition run ended.
type Result struct {
	Produced  int
	Requested int
	Stopped   bool
	Err       error
}

// Complete reports whether every requested item was produced.
func (r Result) Complete() bool {
	return r.Err == nil && !r.Stopped && r.Produced == r.Requested
}

// Summary renders the result as one line for the terminal.
func (r Result) Summary() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("image acquisition ended early after %d of %d images: %v", r.Produced, r.Requested, r.Err)
	case r.Stopped:
		return fmt.Sprintf("image acquisition stopped after %d of %d images", r.Produced, r.Requested)
	default:
		return fmt.Sprintf("image acquisition completed: %d images", r.Produced)
	}
}
