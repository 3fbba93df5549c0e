//go:build !windows
// +build !windows

package main

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// unixTimer reads the user and system time of reaped children before and
// after each command. The launcher's MPI ranks are its own children, so
// their time is included once the launcher has waited for them.
type unixTimer struct {
	outputBuffers

	userTime   int64
	kernelTime int64
	realTime   int64
}

func init() {
	processTimer = new(unixTimer)
}

func (u *unixTimer) Run(ctx context.Context, name string, arg ...string) error {
	cmd := exec.CommandContext(ctx, name, arg...)
	u.attach(cmd)
	// The launcher leads its own process group so cancellation reaches the
	// ranks it forked, which otherwise keep the output pipes open.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
		if err == unix.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	cmd.WaitDelay = outputWaitDelay

	var before unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &before); err != nil {
		return err
	}

	startTime := time.Now()
	runErr := cmd.Run()
	u.realTime = int64(time.Since(startTime))

	var after unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_CHILDREN, &after); err != nil {
		return err
	}
	u.userTime = after.Utime.Nano() - before.Utime.Nano()
	u.kernelTime = after.Stime.Nano() - before.Stime.Nano()

	return runErr
}

func (u *unixTimer) GetUserTime() int64 { return u.userTime }

func (u *unixTimer) GetKernelTime() int64 { return u.kernelTime }

func (u *unixTimer) GetRealTime() int64 { return u.realTime }

func (u *unixTimer) Reset() {
	u.userTime = 0
	u.kernelTime = 0
	u.realTime = 0
	u.reset()
}
