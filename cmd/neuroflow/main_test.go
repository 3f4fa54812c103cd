package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortIDPattern = regexp.MustCompile(`\[([0-9a-f]{8})\]`)

type workspace struct {
	config string
	data   string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	return workspace{
		config: filepath.Join(dir, "neuroflow", "config.yaml"),
		data:   filepath.Join(dir, "neuroflow", "data.json"),
	}
}

func (w workspace) run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--config", w.config, "--driver", "file", "--data", w.data}, args...)
	err := run(context.Background(), full, &out, strings.NewReader(stdin))
	require.NoError(t, err, "neuroflow %v\n%s", args, out.String())
	return out.String()
}

func shortID(t *testing.T, out string) string {
	t.Helper()
	m := shortIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func TestEndToEndWorkflow(t *testing.T) {
	w := newWorkspace(t)

	out := w.run(t, "", "init")
	assert.Contains(t, out, "Wrote config to: "+w.config)
	assert.Contains(t, out, "Initialized neuroflow storage (file).")
	assert.Contains(t, out, "neuroflow onboard")
	_, err := os.Stat(w.config)
	require.NoError(t, err)

	out = w.run(t, "", "onboard", "--name", "Alex")
	assert.Contains(t, out, "Welcome, Alex! You start with 100 sparks")

	out = w.run(t, "", "task", "add", "Write report", "-p", "high")
	assert.Contains(t, out, "Added task: Write report (high priority, +25 sparks)")
	taskID := shortID(t, out)

	out = w.run(t, "", "task", "list")
	assert.Contains(t, out, taskID)
	assert.Contains(t, out, "Write report")

	out = w.run(t, "", "task", "toggle", taskID)
	assert.Contains(t, out, "✓ Completed: Write report (+25 sparks, balance 125)")

	out = w.run(t, "", "habit", "add", "Stretch")
	habitID := shortID(t, out)
	out = w.run(t, "", "habit", "complete", habitID)
	assert.Contains(t, out, "✓ Stretch done! Streak 1, +20 sparks (balance 145)")

	out = w.run(t, "", "status")
	assert.Contains(t, out, "Alex (level 1)")
	assert.Contains(t, out, "Sparks:   145 ✨")
	assert.Contains(t, out, "Habits:   1/1 done today")

	out = w.run(t, "", "backup", "create")
	assert.Contains(t, out, "Backup created")

	out = w.run(t, "", "doctor")
	assert.Contains(t, out, "All diagnostics passed!")
}

func TestRunRejectsUnknownDriver(t *testing.T) {
	w := newWorkspace(t)
	var out bytes.Buffer
	err := run(context.Background(), []string{"--config", w.config, "--driver", "floppy", "status"}, &out, strings.NewReader(""))
	assert.Error(t, err)
}

func TestCommandsWithoutUser(t *testing.T) {
	w := newWorkspace(t)
	w.run(t, "", "init")

	var out bytes.Buffer
	err := run(context.Background(), []string{"--config", w.config, "--driver", "file", "--data", w.data, "status"}, &out, strings.NewReader(""))
	assert.Error(t, err)
}
