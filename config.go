package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	panelEfficiency = "efficiency"
	panelTime       = "time"
)

var ErrConfig = errors.New("invalid configuration")

type config struct {
	Processes   []int         `yaml:"processes"`
	Launcher    string        `yaml:"launcher"`
	Binary      string        `yaml:"binary"`
	Args        []string      `yaml:"args"`
	Repeat      int           `yaml:"repeat"`
	Timeout     time.Duration `yaml:"timeout"`
	Chart       string        `yaml:"chart"`
	SecondPanel string        `yaml:"second_panel"`
	Open        bool          `yaml:"open"`
	Report      string        `yaml:"report"`
}

func defaultConfig() config {
	return config{
		Processes:   []int{1, 2, 4, 8},
		Launcher:    "mpirun",
		Binary:      "./build/game_of_life_mpi",
		Repeat:      1,
		Timeout:     10 * time.Minute,
		Chart:       "result.png",
		SecondPanel: panelEfficiency,
	}
}

// loadConfig reads a YAML file on top of the defaults. Keys missing from the
// file keep their default values.
func loadConfig(path string) (config, error) {
	c := defaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func (c config) validate() error {
	if len(c.Processes) == 0 {
		return fmt.Errorf("%w: no process counts", ErrConfig)
	}
	for i, p := range c.Processes {
		if p <= 0 {
			return fmt.Errorf("%w: process count %d is not positive", ErrConfig, p)
		}
		if i > 0 && p <= c.Processes[i-1] {
			return fmt.Errorf("%w: process counts must be strictly increasing (%d after %d)", ErrConfig, p, c.Processes[i-1])
		}
	}
	if len(list2Cmdline(c.Launcher)) == 0 {
		return fmt.Errorf("%w: empty launcher", ErrConfig)
	}
	if c.Binary == "" {
		return fmt.Errorf("%w: empty binary path", ErrConfig)
	}
	if c.Repeat <= 0 {
		return fmt.Errorf("%w: repeat must be at least 1", ErrConfig)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout", ErrConfig)
	}
	if c.SecondPanel != panelEfficiency && c.SecondPanel != panelTime {
		return fmt.Errorf("%w: second panel must be %q or %q, got %q", ErrConfig, panelEfficiency, panelTime, c.SecondPanel)
	}
	return nil
}
