package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := defaultConfig()
	require.NoError(t, c.validate())
	assert.Equal(t, []int{1, 2, 4, 8}, c.Processes)
	assert.Equal(t, "mpirun", c.Launcher)
	assert.Equal(t, "./build/game_of_life_mpi", c.Binary)
	assert.Equal(t, "result.png", c.Chart)
	assert.Equal(t, panelEfficiency, c.SecondPanel)
}

func TestLoadConfigKeepsDefaults(t *testing.T) {
	path := writeFile(t, "bench.yaml", `
processes: [2, 4, 16]
launcher: mpiexec --oversubscribe
timeout: 90s
second_panel: time
args: ["--turns", "500"]
`)
	c, err := loadConfig(path)
	require.NoError(t, err)
	require.NoError(t, c.validate())

	assert.Equal(t, []int{2, 4, 16}, c.Processes)
	assert.Equal(t, "mpiexec --oversubscribe", c.Launcher)
	assert.Equal(t, 90*time.Second, c.Timeout)
	assert.Equal(t, panelTime, c.SecondPanel)
	assert.Equal(t, []string{"--turns", "500"}, c.Args)
	assert.Equal(t, "./build/game_of_life_mpi", c.Binary)
	assert.Equal(t, 1, c.Repeat)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = loadConfig(writeFile(t, "bad.yaml", "processes: [1, 2"))
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := map[string]func(*config){
		"no processes":   func(c *config) { c.Processes = nil },
		"zero processes": func(c *config) { c.Processes = []int{0, 1} },
		"not increasing": func(c *config) { c.Processes = []int{1, 4, 2} },
		"duplicate":      func(c *config) { c.Processes = []int{1, 1} },
		"empty launcher": func(c *config) { c.Launcher = "  " },
		"empty binary":   func(c *config) { c.Binary = "" },
		"zero repeat":    func(c *config) { c.Repeat = 0 },
		"neg timeout":    func(c *config) { c.Timeout = -time.Second },
		"bad panel":      func(c *config) { c.SecondPanel = "throughput" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := defaultConfig()
			mutate(&c)
			assert.ErrorIs(t, c.validate(), ErrConfig)
		})
	}
}

func TestResolveConfigFlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "bench.yaml", "processes: [1, 2]\nbinary: ./a.out\nrepeat: 3\n")
	var fv flagValues
	cmd := bindRootCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--processes", "1,2,4",
		"--arg", "--size=64", "--arg", "--turns=10",
		"--second-panel", "time",
		"--timeout", "0",
	}))

	c, err := resolveConfig(cmd, &fv)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4}, c.Processes)
	assert.Equal(t, "./a.out", c.Binary)
	assert.Equal(t, 3, c.Repeat)
	assert.Equal(t, []string{"--size=64", "--turns=10"}, c.Args)
	assert.Equal(t, panelTime, c.SecondPanel)
	assert.Equal(t, time.Duration(0), c.Timeout)
	assert.Equal(t, "mpirun", c.Launcher)
}

func TestResolveConfigRejectsInvalid(t *testing.T) {
	var fv flagValues
	cmd := bindRootCmd(&fv)
	require.NoError(t, cmd.ParseFlags([]string{"--processes", "4,2"}))
	_, err := resolveConfig(cmd, &fv)
	assert.ErrorIs(t, err, ErrConfig)
}
