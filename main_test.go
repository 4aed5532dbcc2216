package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tonhe/fireline/internal/diag"
	"github.com/tonhe/fireline/internal/engine"
	"github.com/tonhe/fireline/internal/probe"
)

func writeSnapshot(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name+probe.Ext)
	require.NoError(t, probe.SaveSnapshot(probe.Sample(name), path))
	return path
}

func testOptions(t *testing.T) engine.Options {
	t.Helper()
	ev, err := diag.NewEvaluator(diag.DefaultThresholds())
	require.NoError(t, err)
	return engine.Options{Evaluator: ev}
}

func TestStartControllers(t *testing.T) {
	dir := t.TempDir()
	paths := []string{writeSnapshot(t, dir, "east-gate"), writeSnapshot(t, dir, "west-gate")}

	mgr := engine.NewManager()
	defer mgr.StopAll()
	first, err := startControllers(mgr, paths, testOptions(t))
	require.NoError(t, err)
	assert.Equal(t, "east-gate", first)
	assert.Len(t, mgr.ListEngines(), 2)
}

func TestStartControllersStopsStartedOnFailure(t *testing.T) {
	root := t.TempDir()
	paths := []string{
		writeSnapshot(t, filepath.Join(root, "a"), "ridge"),
		writeSnapshot(t, filepath.Join(root, "b"), "pond"),
		writeSnapshot(t, filepath.Join(root, "c"), "ridge"),
	}

	core, logs := observer.New(zap.DebugLevel)
	opts := testOptions(t)
	opts.Logger = zap.New(core)

	mgr := engine.NewManager()
	_, err := startControllers(mgr, paths, opts)
	require.Error(t, err)
	assert.Empty(t, mgr.ListEngines(), "started pollers must be stopped")

	entries := logs.FilterMessage("start controller failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "ridge", entries[0].ContextMap()["controller"])
}

func TestRunReleasesResourcesOnError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)
	chdir(t, t.TempDir())

	err := run(flags{snapshot: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
	assert.FileExists(t, filepath.Join(data, "fireline", "fireline.log"))

	err = run(flags{theme: "no-such-theme"})
	assert.ErrorContains(t, err, "unknown theme")
}

func TestSnapshotPaths(t *testing.T) {
	paths, err := snapshotPaths("")
	require.NoError(t, err)
	assert.Empty(t, paths)

	dir := t.TempDir()
	_, err = snapshotPaths(dir)
	assert.Error(t, err, "empty directory")

	p := writeSnapshot(t, dir, "ridge")
	paths, err = snapshotPaths(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{p}, paths)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
