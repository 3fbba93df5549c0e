package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type flagValues struct {
	configPath  string
	processes   []int
	launcher    string
	binary      string
	args        []string
	repeat      int
	timeout     time.Duration
	chart       string
	secondPanel string
	open        bool
	report      string
	noColor     bool
}

// resolveConfig layers the config file and then every flag the user set on
// top of the defaults.
func resolveConfig(cmd *cobra.Command, fv *flagValues) (config, error) {
	cfg := defaultConfig()
	if fv.configPath != "" {
		var err error
		if cfg, err = loadConfig(fv.configPath); err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("processes") {
		cfg.Processes = fv.processes
	}
	if flags.Changed("launcher") {
		cfg.Launcher = fv.launcher
	}
	if flags.Changed("binary") {
		cfg.Binary = fv.binary
	}
	if flags.Changed("arg") {
		cfg.Args = fv.args
	}
	if flags.Changed("repeat") {
		cfg.Repeat = fv.repeat
	}
	if flags.Changed("timeout") {
		cfg.Timeout = fv.timeout
	}
	if flags.Changed("chart") {
		cfg.Chart = fv.chart
	}
	if flags.Changed("second-panel") {
		cfg.SecondPanel = fv.secondPanel
	}
	if flags.Changed("open") {
		cfg.Open = fv.open
	}
	if flags.Changed("report") {
		cfg.Report = fv.report
	}
	return cfg, cfg.validate()
}

func newRootCmd() *cobra.Command {
	return bindRootCmd(&flagValues{})
}

func bindRootCmd(fv *flagValues) *cobra.Command {
	def := defaultConfig()

	cmd := &cobra.Command{
		Use:           "speedup",
		Short:         "Measure speedup and efficiency of a parallel program across process counts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			color.NoColor = color.NoColor || fv.noColor
			cfg, err := resolveConfig(cmd, fv)
			if err != nil {
				return err
			}
			return runBenchmarks(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&fv.configPath, "config", "c", "", "YAML config file")
	flags.IntSliceVarP(&fv.processes, "processes", "p", def.Processes, "Process counts to benchmark, in increasing order")
	flags.StringVar(&fv.launcher, "launcher", def.Launcher, "Parallel process launcher command")
	flags.StringVar(&fv.binary, "binary", def.Binary, "Program to benchmark")
	flags.StringArrayVar(&fv.args, "arg", nil, "Extra argument passed to the program (repeatable)")
	flags.IntVar(&fv.repeat, "repeat", def.Repeat, "Launches per process count")
	flags.DurationVar(&fv.timeout, "timeout", def.Timeout, "Timeout for a single launch (0 disables)")
	flags.StringVarP(&fv.chart, "chart", "o", def.Chart, "PNG file the chart is written to (empty disables)")
	flags.StringVar(&fv.secondPanel, "second-panel", def.SecondPanel, "Right chart panel: efficiency or time")
	flags.BoolVar(&fv.open, "open", false, "Open the chart in the system viewer")
	flags.StringVar(&fv.report, "report", "", "Write a JSON report to this file (- for stdout)")
	flags.BoolVar(&fv.noColor, "no-color", false, "Disable coloured output")
	return cmd
}

func runBenchmarks(ctx context.Context, cfg config, out, errOut io.Writer) error {
	samples, err := newRunner(cfg, processTimer, out).run(ctx)
	if err != nil {
		return err
	}

	metrics, err := computeMetrics(samples)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	printSummary(out, samples, metrics)

	if cfg.Chart != "" {
		left, right := chartSeries(samples, metrics, cfg.SecondPanel)
		if err := renderChartFile(cfg.Chart, processCounts(samples), left, right); err != nil {
			return fmt.Errorf("render chart: %w", err)
		}
		fmt.Fprintf(out, "Chart written to %s\n", color.CyanString(cfg.Chart))
		if cfg.Open {
			if err := openFile(cfg.Chart); err != nil {
				printDiagnostic(errOut, "Could not open %s: %v", cfg.Chart, err)
			}
		}
	}

	if cfg.Report != "" {
		if err := writeJSON(newReport(cfg, samples, metrics), cfg.Report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// run executes the command line and returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var se *sampleError
	if errors.As(err, &se) {
		printDiagnostic(stderr, "Benchmark with %d processes failed: %v", se.Processes, se.Err)
	} else {
		printDiagnostic(stderr, "An error occurred during benchmark: %v", err)
	}
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], color.Output, color.Error))
}
