package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
)

const (
	progressDoneRune    = "█"
	progressPendingRune = "▒"
)

var ErrLaunch = errors.New("launch failure")

// sampleError reports which process count failed, together with everything
// the failed launch printed.
type sampleError struct {
	Processes int
	Result    runResult
	Err       error
}

func (e *sampleError) Error() string {
	return fmt.Sprintf("%d processes: %v", e.Processes, e.Err)
}

func (e *sampleError) Unwrap() error { return e.Err }

type runner struct {
	cfg   config
	timer timer
	out   io.Writer
}

func newRunner(cfg config, t timer, out io.Writer) *runner {
	return &runner{cfg: cfg, timer: t, out: out}
}

// command builds "<launcher...> -n <p> <binary> <args...>".
func (r *runner) command(processes int) (string, []string) {
	parts := list2Cmdline(r.cfg.Launcher)
	args := append([]string{}, parts[1:]...)
	args = append(args, "-n", strconv.Itoa(processes), r.cfg.Binary)
	args = append(args, r.cfg.Args...)
	return parts[0], args
}

// runSample launches the program cfg.Repeat times with the given process
// count and averages every measurement it reports.
func (r *runner) runSample(ctx context.Context, processes int) (benchmarkSample, error) {
	name, args := r.command(processes)

	var values []float64
	var wall, user, system time.Duration
	for i := 0; i < r.cfg.Repeat; i++ {
		res, err := r.launchOnce(ctx, name, args)
		r.printOutput(processes, res)
		wall += res.Real
		user += res.User
		system += res.System
		if err != nil {
			return benchmarkSample{}, &sampleError{Processes: processes, Result: res, Err: err}
		}

		v, err := parseElapsed(res.Stdout, res.Stderr)
		if err != nil {
			return benchmarkSample{}, &sampleError{Processes: processes, Result: res, Err: err}
		}
		values = append(values, v...)
	}

	sample := newSample(processes, values)
	sample.Real, sample.User, sample.System = wall, user, system
	return sample, nil
}

func (r *runner) launchOnce(ctx context.Context, name string, args []string) (runResult, error) {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	res, err := launch(ctx, r.timer, name, args...)
	if err == nil {
		return res, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, fmt.Errorf("%w: timed out after %s: %v", ErrLaunch, r.cfg.Timeout, err)
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return res, fmt.Errorf("%w: %v", ErrLaunch, ctx.Err())
	}
	return res, fmt.Errorf("%w: %s: %v", ErrLaunch, name, err)
}

func (r *runner) printOutput(processes int, res runResult) {
	clearCurrentTerminalLine(r.out)
	fmt.Fprintln(r.out, color.HiBlackString("--- output (%d processes) ---", processes))
	if res.Stdout != "" {
		fmt.Fprint(r.out, res.Stdout)
		if res.Stdout[len(res.Stdout)-1] != '\n' {
			fmt.Fprintln(r.out)
		}
	}
	if res.Stderr != "" {
		fmt.Fprintln(r.out, color.HiBlackString("--- stderr ---"))
		fmt.Fprint(r.out, res.Stderr)
		if res.Stderr[len(res.Stderr)-1] != '\n' {
			fmt.Fprintln(r.out)
		}
	}
	fmt.Fprintln(r.out, color.HiBlackString("---"))
}

// run benchmarks every configured process count in order and stops at the
// first failure.
func (r *runner) run(ctx context.Context) ([]benchmarkSample, error) {
	samples := make([]benchmarkSample, 0, len(r.cfg.Processes))
	var spent time.Duration
	for i, p := range r.cfg.Processes {
		var eta time.Duration
		if i > 0 {
			eta = spent / time.Duration(i) * time.Duration(len(r.cfg.Processes)-i)
		}
		line := fmt.Sprintf("Benchmark %d/%d: %s processes", i+1, len(r.cfg.Processes), color.CyanString("%d", p))
		printProgressLine(r.out, line, float64(i)/float64(len(r.cfg.Processes)), eta)

		sample, err := r.runSample(ctx, p)
		if err != nil {
			return samples, err
		}
		spent += sample.Real
		samples = append(samples, sample)
		r.printSample(sample)
	}
	return samples, nil
}

func (r *runner) printSample(s benchmarkSample) {
	fmt.Fprintf(r.out, "  %s processes  Time (%s ± %s):\t%s ± %s\t%s\t%s\n",
		color.CyanString("%d", s.Processes),
		color.GreenString("mean"),
		color.GreenString("σ"),
		color.GreenString("%.4f s", s.Mean),
		color.GreenString("%.4f s", s.Stdev),
		color.HiBlackString("%d values", len(s.Values)),
		fmt.Sprintf("[Launcher: %s, User: %s, System: %s]",
			color.CyanString("%s", formatDuration(s.Real)),
			color.CyanString("%s", formatDuration(s.User)),
			color.CyanString("%s", formatDuration(s.System))))
}

func printSummary(w io.Writer, samples []benchmarkSample, m derivedMetrics) {
	fmt.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  %10s %14s %10s %12s\n", "processes", "mean time (s)", "speedup", "efficiency")
	for i, s := range samples {
		fmt.Fprintf(w, "  %10d %14.4f %s %s\n", s.Processes, s.Mean,
			color.GreenString("%10.3f", m.Speedup[i]),
			color.CyanString("%12.3f", m.Efficiency[i]))
	}
}
