package acquire

import (
	"sync"
	"sync/atomic"
)

// Handle is the caller's side of a running acquisition. Stop is a one-shot
// cooperative request observed between iterations; Done is closed exactly
// once when the goroutine has returned.
type Handle struct {
	runID     string
	requested int
	produced  atomic.Int64

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
	result   Result
}

func newHandle(runID string, requested int) *Handle {
	return &Handle{
		runID:     runID,
		requested: requested,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// RunID identifies this acquisition in logs.
func (h *Handle) RunID() string {
	return h.runID
}

// Stop asks the acquirer to end before its next iteration. Safe to call more
// than once and from any goroutine.
func (h *Handle) Stop() {
	h.stopOnce.Do(func() { close(h.stop) })
}

// StopRequested reports whether Stop has been called.
func (h *Handle) StopRequested() bool {
	select {
	case <-h.stop:
		return true
	default:
		return false
	}
}

// Done is closed once the acquirer goroutine has finished.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Finished reports without blocking whether the acquirer has finished.
func (h *Handle) Finished() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the acquirer has finished and returns its result.
func (h *Handle) Wait() Result {
	<-h.done
	return h.result
}

// Progress returns how many items have been appended so far and how many were
// requested.
func (h *Handle) Progress() (produced, requested int) {
	return int(h.produced.Load()), h.requested
}

func (h *Handle) finish(result Result) {
	h.result = result
	close(h.done)
}
