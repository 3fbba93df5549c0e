package main

import (
	"encoding/json"
	"os"
	"runtime"
	"time"
)

type report struct {
	TimestampRFC3339 string            `json:"timestamp_rfc3339"`
	Launcher         string            `json:"launcher"`
	Binary           string            `json:"binary"`
	Args             []string          `json:"args,omitempty"`
	Repeat           int               `json:"repeat"`
	OS               string            `json:"os"`
	Arch             string            `json:"arch"`
	CPUNumLogical    int               `json:"cpu_num_logical"`
	Samples          []benchmarkSample `json:"samples"`
	Metrics          derivedMetrics    `json:"metrics"`
}

func newReport(cfg config, samples []benchmarkSample, m derivedMetrics) report {
	return report{
		TimestampRFC3339: time.Now().Format(time.RFC3339),
		Launcher:         cfg.Launcher,
		Binary:           cfg.Binary,
		Args:             cfg.Args,
		Repeat:           cfg.Repeat,
		OS:               runtime.GOOS,
		Arch:             runtime.GOARCH,
		CPUNumLogical:    runtime.NumCPU(),
		Samples:          samples,
		Metrics:          m,
	}
}

// writeJSON writes the report to outPath, or stdout when outPath is "-".
func writeJSON(res report, outPath string) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if outPath == "-" {
		_, err = os.Stdout.Write(b)
		return err
	}
	return os.WriteFile(outPath, b, 0o644)
}
