package main

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// runResult is what a single launch leaves behind.
type runResult struct {
	Stdout string
	Stderr string

	Real   time.Duration
	User   time.Duration
	System time.Duration
}

type timer interface {
	GetUserTime() int64
	GetKernelTime() int64
	GetRealTime() int64
	Run(context.Context, string, ...string) error
	Output() (stdout, stderr string)
	Reset()
}

var processTimer timer

// outputWaitDelay bounds how long a cancelled command may hold its output
// pipes open.
const outputWaitDelay = 2 * time.Second

// outputBuffers are attached to every timed command.
type outputBuffers struct {
	stdout strings.Builder
	stderr strings.Builder
}

func (o *outputBuffers) attach(cmd *exec.Cmd) {
	cmd.Stdout = &o.stdout
	cmd.Stderr = &o.stderr
}

func (o *outputBuffers) Output() (string, string) {
	return o.stdout.String(), o.stderr.String()
}

func (o *outputBuffers) reset() {
	o.stdout.Reset()
	o.stderr.Reset()
}

// launch runs one command with t and collects its output and timings, even
// when the command fails.
func launch(ctx context.Context, t timer, name string, arg ...string) (runResult, error) {
	t.Reset()
	err := t.Run(ctx, name, arg...)
	var res runResult
	res.Stdout, res.Stderr = t.Output()
	res.Real = time.Duration(t.GetRealTime())
	res.User = time.Duration(t.GetUserTime())
	res.System = time.Duration(t.GetKernelTime())
	return res, err
}
