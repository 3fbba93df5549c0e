package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"
)

var (
	ErrZeroBaseline = errors.New("baseline time is zero")
	ErrZeroTime     = errors.New("mean time is zero")
)

type benchmarkSample struct {
	Processes int       `json:"processes"`
	Mean      float64   `json:"mean_seconds"`
	Stdev     float64   `json:"stdev_seconds"`
	Values    []float64 `json:"values_seconds"`

	Real   time.Duration `json:"launcher_real_ns"`
	User   time.Duration `json:"launcher_user_ns"`
	System time.Duration `json:"launcher_system_ns"`
}

type derivedMetrics struct {
	Speedup    []float64 `json:"speedup"`
	Efficiency []float64 `json:"efficiency"`
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return lo.Sum(values) / float64(len(values))
}

func newSample(processes int, values []float64) benchmarkSample {
	m := mean(values)
	return benchmarkSample{
		Processes: processes,
		Mean:      m,
		Stdev:     stdev(values, m),
		Values:    values,
	}
}

// computeMetrics derives speedup and efficiency relative to the first sample.
func computeMetrics(samples []benchmarkSample) (derivedMetrics, error) {
	if len(samples) == 0 {
		return derivedMetrics{Speedup: []float64{}, Efficiency: []float64{}}, nil
	}
	base := samples[0].Mean
	if base == 0 {
		return derivedMetrics{}, fmt.Errorf("%w (%d processes)", ErrZeroBaseline, samples[0].Processes)
	}
	for _, s := range samples[1:] {
		if s.Mean == 0 {
			return derivedMetrics{}, fmt.Errorf("%w (%d processes)", ErrZeroTime, s.Processes)
		}
	}

	speedup := lo.Map(samples, func(s benchmarkSample, _ int) float64 {
		return base / s.Mean
	})
	efficiency := lo.Map(lo.Zip2(speedup, samples), func(t lo.Tuple2[float64, benchmarkSample], _ int) float64 {
		return t.A / float64(t.B.Processes)
	})
	return derivedMetrics{Speedup: speedup, Efficiency: efficiency}, nil
}

func processCounts(samples []benchmarkSample) []int {
	return lo.Map(samples, func(s benchmarkSample, _ int) int { return s.Processes })
}

func meanTimes(samples []benchmarkSample) []float64 {
	return lo.Map(samples, func(s benchmarkSample, _ int) float64 { return s.Mean })
}
