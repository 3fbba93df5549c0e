package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestList2Cmdline(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"mpirun", []string{"mpirun"}},
		{"mpirun --oversubscribe", []string{"mpirun", "--oversubscribe"}},
		{"  mpiexec \t --host  a,b ", []string{"mpiexec", "--host", "a,b"}},
		{`"/opt/my mpi/bin/mpirun" -x 'FOO=a b'`, []string{"/opt/my mpi/bin/mpirun", "-x", "FOO=a b"}},
		{`run ""`, []string{"run", ""}},
		{"", nil},
		{"   ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, list2Cmdline(tt.in), tt.in)
	}
}

func TestGetMeasurementMetrics(t *testing.T) {
	tests := []struct {
		d     time.Duration
		denom float64
		unit  string
	}{
		{2 * time.Hour, float64(time.Hour), "h"},
		{90 * time.Second, float64(time.Minute), "m"},
		{1500 * time.Millisecond, float64(time.Second), "s"},
		{3 * time.Millisecond, float64(time.Millisecond), "ms"},
		{7 * time.Microsecond, float64(time.Microsecond), "µs"},
		{12, float64(time.Nanosecond), "ns"},
		{0, 1, "ns"},
	}
	for _, tt := range tests {
		denom, unit := getMeasurementMetrics(int64(tt.d))
		assert.Equal(t, tt.denom, denom, tt.d.String())
		assert.Equal(t, tt.unit, unit, tt.d.String())
	}
	assert.Equal(t, "1.50 s", formatDuration(1500*time.Millisecond))
	assert.Equal(t, "0.00 ns", formatDuration(0))
}

func TestStdev(t *testing.T) {
	assert.InDelta(t, 2.0, stdev([]float64{2, 4, 6}, 4), 1e-12)
	assert.Equal(t, 0.0, stdev([]float64{5}, 5))
	assert.Equal(t, 0.0, stdev(nil, 0))
}

func TestPrintProgressLineWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	printProgressLine(&buf, "Benchmark 2/4", 0.5, time.Hour+2*time.Minute+3*time.Second)
	assert.Contains(t, buf.String(), "Benchmark 2/4")
	assert.Contains(t, buf.String(), "ETA 01:02:03")
}
