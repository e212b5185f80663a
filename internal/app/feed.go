package app

import (
	"github.com/shuheykoyama/tnap/internal/slides"
	"github.com/shuheykoyama/tnap/internal/watch"
)

// watchTask feeds new theme images into the set until stopped.
type watchTask struct {
	w     *watch.Watcher
	done  chan struct{}
	added int
}

func startWatchTask(dir string, set *slides.ReadySet, opts ...watch.Option) (*watchTask, error) {
	w, err := watch.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := w.AddDirectory(dir); err != nil {
		w.Stop()
		return nil, err
	}
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}

	t := &watchTask{w: w, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.added = watch.Feed(w, set)
	}()
	return t, nil
}

func (t *watchTask) Stop() {
	t.w.Stop()
}

func (t *watchTask) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

func (t *watchTask) Done() <-chan struct{} {
	return t.done
}
