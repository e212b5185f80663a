package app

import (
	"fmt"
	"io"
)

// WaitingNotice is printed when quitting has to wait for background work.
const WaitingNotice = "Waiting for image generation to complete..."

// Task is background work the coordinator stops and joins.
type Task interface {
	Stop()
	Finished() bool
	Done() <-chan struct{}
}

// Coordinator performs the cooperative stop-then-join on exit.
type Coordinator struct {
	task   Task
	out    io.Writer
	notice string
}

// NewCoordinator returns a coordinator for task. A nil task makes Shutdown a
// no-op.
func NewCoordinator(task Task, out io.Writer) *Coordinator {
	if out == nil {
		out = io.Discard
	}
	return &Coordinator{task: task, out: out, notice: WaitingNotice}
}

// WithNotice overrides the waiting notice. An empty notice waits silently.
func (c *Coordinator) WithNotice(notice string) *Coordinator {
	c.notice = notice
	return c
}

// Shutdown raises stop, prints the notice if the task is still running, and
// blocks until it has terminated. It reports whether it had to wait.
func (c *Coordinator) Shutdown() bool {
	if c.task == nil {
		return false
	}
	c.task.Stop()
	waited := false
	if !c.task.Finished() {
		if c.notice != "" {
			fmt.Fprintln(c.out, c.notice)
		}
		waited = true
	}
	<-c.task.Done()
	return waited
}
