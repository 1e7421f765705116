package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv", "a,b\n1,2\n")

	d, err := FileDigest(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	assert.Regexp(t, `^sha256:[a-f0-9]{64}$`, d)

	// Content-determined, not path-determined.
	writeFile(t, dir, "copy.csv", "a,b\n1,2\n")
	d2, err := FileDigest(filepath.Join(dir, "copy.csv"))
	require.NoError(t, err)
	assert.Equal(t, d, d2)

	_, err = FileDigest(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

func TestAddModelDerivesEntrypoint(t *testing.T) {
	reg := New()

	entry := reg.AddModel("sir", "src/models/sir.py", "StochasticSIR", []string{"infections"}, nil, nil)
	assert.Equal(t, "models.sir:StochasticSIR", entry.Entrypoint)

	entry = reg.AddModel("seir", "models/seir.py", "SEIR", nil, nil, nil)
	assert.Equal(t, "models.seir:SEIR", entry.Entrypoint)
}

func TestDependencyDigestsAndInvalidation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/models/sir.py", "class StochasticSIR: pass\n")
	writeFile(t, dir, "data/contacts.csv", "contacts\n")
	writeFile(t, dir, "src/common.py", "helpers\n")

	reg := New()
	entry := reg.AddModel("sir", "src/models/sir.py", "StochasticSIR", nil,
		[]string{"data/contacts.csv"}, []string{"src/common.py"})

	_, err := entry.ComputeDigest(dir)
	require.NoError(t, err)
	require.NoError(t, entry.ComputeDependencyDigests(dir))

	// Nothing changed yet.
	assert.Empty(t, entry.CheckInvalidation(dir))

	// Edit a data dependency.
	writeFile(t, dir, "data/contacts.csv", "contacts,updated\n")
	changes := entry.CheckInvalidation(dir)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0], "DATA data/contacts.csv: content changed")

	// Remove a code dependency.
	require.NoError(t, os.Remove(filepath.Join(dir, "src/common.py")))
	changes = entry.CheckInvalidation(dir)
	require.Len(t, changes, 2)
	assert.Contains(t, changes[1], "CODE src/common.py: file missing")

	// Edit the model file itself.
	writeFile(t, dir, "src/models/sir.py", "class StochasticSIR: pass  # edited\n")
	changes = entry.CheckInvalidation(dir)
	assert.Contains(t, changes[0], "MODEL src/models/sir.py: content changed")
}

func TestCheckInvalidationWithoutStoredDigest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "model.py", "m\n")
	writeFile(t, dir, "data.csv", "d\n")

	reg := New()
	entry := reg.AddModel("m", "model.py", "M", nil, []string{"data.csv"}, nil)

	changes := entry.CheckInvalidation(dir)
	require.Len(t, changes, 1)
	assert.Contains(t, changes[0], "DATA data.csv: no digest stored")
}

func TestRegistryValidate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "model.py", "m\n")
	writeFile(t, dir, "obs.csv", "o\n")

	reg := New()
	reg.AddModel("m", "model.py", "M", nil, []string{"missing.csv"}, nil)
	reg.AddTarget("t", "target.py", "infections", "obs.csv")

	problems := reg.Validate(dir)
	require.Len(t, problems, 2)
	assert.Contains(t, problems[0], "Model m: data dependency not found")
	assert.Contains(t, problems[1], "Target t: file not found")
}

func TestAllDependencies(t *testing.T) {
	reg := New()
	reg.AddModel("m", "model.py", "M", nil, []string{"data.csv"}, []string{"common.py"})
	reg.AddTarget("t", "target.py", "out", "data.csv")

	deps := reg.AllDependencies()
	assert.Equal(t, []string{"common.py", "data.csv", "model.py", "target.py"}, deps)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/models/sir.py", "class StochasticSIR: pass\n")

	reg := New()
	entry := reg.AddModel("sir", "src/models/sir.py", "StochasticSIR",
		[]string{"infections", "deaths"}, nil, nil)
	entry.Scenarios = []string{"baseline", "lockdown"}
	_, err := entry.ComputeDigest(dir)
	require.NoError(t, err)
	reg.AddTarget("cases", "targets/cases.py", "infections", "data/cases.csv")

	path := filepath.Join(dir, "registry.yaml")
	require.NoError(t, reg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Version, loaded.Version)
	require.Contains(t, loaded.Models, "sir")
	assert.Equal(t, entry.Entrypoint, loaded.Models["sir"].Entrypoint)
	assert.Equal(t, entry.ModelDigest, loaded.Models["sir"].ModelDigest)
	assert.Equal(t, []string{"baseline", "lockdown"}, loaded.Models["sir"].Scenarios)
	require.Contains(t, loaded.Targets, "cases")
	assert.Equal(t, "infections", loaded.Targets["cases"].ModelOutput)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
