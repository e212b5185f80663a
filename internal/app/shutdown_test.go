package app

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeTask struct {
	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

func newFakeTask() *fakeTask {
	return &fakeTask{stopped: make(chan struct{}), done: make(chan struct{})}
}

func (f *fakeTask) Stop() { f.stopOnce.Do(func() { close(f.stopped) }) }

func (f *fakeTask) Finished() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *fakeTask) Done() <-chan struct{} { return f.done }

func TestShutdownFinishedTaskDoesNotWait(t *testing.T) {
	task := newFakeTask()
	close(task.done)
	var out bytes.Buffer

	waited := NewCoordinator(task, &out).Shutdown()
	assert.False(t, waited)
	assert.Empty(t, out.String())

	select {
	case <-task.stopped:
	default:
		t.Fatal("stop was not raised")
	}
}

func TestShutdownWaitsForRunningTask(t *testing.T) {
	task := newFakeTask()
	var out bytes.Buffer

	// The task only finishes once it has observed stop.
	go func() {
		<-task.stopped
		time.Sleep(20 * time.Millisecond)
		close(task.done)
	}()

	waited := NewCoordinator(task, &out).Shutdown()
	assert.True(t, waited)
	assert.True(t, task.Finished())
	assert.Equal(t, WaitingNotice+"\n", out.String())
}

func TestShutdownSilentNotice(t *testing.T) {
	task := newFakeTask()
	go func() {
		<-task.stopped
		close(task.done)
	}()
	var out bytes.Buffer
	NewCoordinator(task, &out).WithNotice("").Shutdown()
	assert.Empty(t, out.String())
}

func TestShutdownNilTask(t *testing.T) {
	assert.False(t, NewCoordinator(nil, nil).Shutdown())
}
