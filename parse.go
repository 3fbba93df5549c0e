package main

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// elapsedMarker identifies a measurement line. The value in seconds is the
// first field after the marker; anything following it is ignored, so both
// "Elapsed time: 0.52 sec rank 3" and "Elapsed time: 0.52 seconds" parse.
const elapsedMarker = "Elapsed time:"

var (
	ErrNoMeasurement = errors.New("no elapsed-time measurements found")
	ErrParse         = errors.New("invalid elapsed-time value")
)

// parseElapsed extracts every measurement from stdout, then stderr.
func parseElapsed(stdout, stderr string) ([]float64, error) {
	var values []float64
	for _, text := range []string{stdout, stderr} {
		scanner := bufio.NewScanner(strings.NewReader(text))
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.Contains(line, elapsedMarker) {
				continue
			}
			v, err := parseElapsedLine(line)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	if len(values) == 0 {
		return nil, ErrNoMeasurement
	}
	return values, nil
}

func parseElapsedLine(line string) (float64, error) {
	idx := strings.Index(line, elapsedMarker)
	fields := strings.Fields(line[idx+len(elapsedMarker):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("%w: missing value in line %q", ErrParse, line)
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q in line %q", ErrParse, fields[0], line)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("%w: %q in line %q", ErrParse, fields[0], line)
	}
	return v, nil
}
