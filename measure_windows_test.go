//go:build windows
// +build windows

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batchLauncher writes a batch file standing in for mpiexec.
func batchLauncher(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mpiexec.bat")
	require.NoError(t, os.WriteFile(path, []byte("@echo off\r\n"+body+"\r\n"), 0o755))
	return path
}

func TestWindowsTimerCapturesOutput(t *testing.T) {
	launcher := batchLauncher(t, "echo Elapsed time: 1.5 sec rank 0")
	res, err := launch(context.Background(), new(windowsTimer), launcher, "-n", "1", "bin")
	require.NoError(t, err)

	values, err := parseElapsed(res.Stdout, res.Stderr)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.5}, values)
}

func TestWindowsTimeoutTerminatesJob(t *testing.T) {
	c := testConfig(1)
	c.Launcher = batchLauncher(t, "ping -n 6 127.0.0.1 >nul")
	c.Timeout = 200 * time.Millisecond

	start := time.Now()
	_, err := newRunner(c, new(windowsTimer), io.Discard).run(context.Background())
	require.ErrorIs(t, err, ErrLaunch)
	assert.Less(t, time.Since(start), 3*time.Second)
}
