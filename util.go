package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/term"
)

var denominators = []int64{int64(time.Hour), int64(time.Minute), int64(time.Second), int64(time.Millisecond), int64(time.Microsecond), int64(time.Nanosecond)}
var units = []string{"h", "m", "s", "ms", "µs", "ns"}

// Split a command line string into arguments:
// 1) Arguments are delimited by white space, which is either a space or a tab. Runs of white space
//	produce no empty arguments.
// 2) A string surrounded by single or double quotation marks is interpreted as a single argument,
//	regardless of white space contained within. A quoted string can be embedded in an argument.
// 3) A quotation mark preceded by a backslash is kept literally, together with the backslash.
func list2Cmdline(cmd string) []string {
	var cmdParts []string
	var inQuote rune
	var started bool

	var b strings.Builder
	for i, ch := range cmd {
		if (ch == '"' || ch == '\'') && (i == 0 || cmd[i-1] != '\\') {
			switch inQuote {
			case rune(0):
				inQuote = ch
				started = true
			case ch:
				inQuote = rune(0)
			default:
				b.WriteRune(ch)
			}
		} else if (ch == ' ' || ch == '\t') && inQuote == 0 {
			if started {
				cmdParts = append(cmdParts, b.String())
				b.Reset()
				started = false
			}
		} else {
			b.WriteRune(ch)
			started = true
		}
	}
	if started {
		cmdParts = append(cmdParts, b.String())
	}
	return cmdParts
}

func getMeasurementMetrics(timing int64) (float64, string) {
	for i, denominator := range denominators {
		if timing/int64(denominator) > 0 {
			return float64(denominator), units[i]
		}
	}
	return 1, units[len(units)-1]
}

func formatDuration(d time.Duration) string {
	denominator, unit := getMeasurementMetrics(int64(d))
	return fmt.Sprintf("%.2f %s", float64(d)/denominator, unit)
}

// stdev is the sample standard deviation. It is zero for fewer than two values.
func stdev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var numerator float64
	for _, value := range values {
		delta := value - mean
		numerator += delta * delta
	}
	return math.Sqrt(numerator / float64(len(values)-1))
}

func clearCurrentTerminalLine(w io.Writer) {
	w.Write([]byte("\r\033[K"))
}

func printProgressLine(w io.Writer, line string, progress float64, eta time.Duration) {
	// The bar is only drawn on a terminal.
	terminalWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		terminalWidth = 0
	}
	terminalWidth -= len(line) + 2 + 12

	progressLine := ""
	if terminalWidth > 0 {
		progress = math.Max(0, math.Min(1, progress))
		progressChunks := int(progress * float64(terminalWidth))
		progressLine = strings.Repeat(progressDoneRune, progressChunks)
		progressLine += strings.Repeat(progressPendingRune, terminalWidth-progressChunks)
	}

	eta = eta.Round(time.Second)
	fmt.Fprintf(w, "%s %s ETA %02d:%02d:%02d", line, progressLine,
		int64(eta.Hours()), int64(eta.Minutes())%60, int64(eta.Seconds())%60)
}

func printDiagnostic(w io.Writer, format string, a ...interface{}) {
	fmt.Fprintln(w, color.RedString(format, a...))
}

// openFile hands path to the desktop's default viewer without waiting for it.
func openFile(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
