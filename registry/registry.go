// Package registry tracks models, calibration targets, and their file
// dependencies for provenance. The registry is the explicit declaration
// of which files affect model behavior: each entry records its
// dependencies together with their content digests, so consumers can
// detect when cached results have been invalidated by an edit.
//
// Registries round-trip through YAML and are typically stored alongside
// the bundle they describe.
package registry

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Version is the registry schema version written to new files.
const Version = "1.0"

// ModelEntry is the unified registry record for a model: discovery
// information, capabilities, and dependency digests for invalidation
// detection.
type ModelEntry struct {
	// Entrypoint is the module-reference identifier, e.g.
	// "models.sir:StochasticSIR".
	Entrypoint string `yaml:"entrypoint"`

	// Path locates the source file containing the model, relative to
	// the bundle root.
	Path string `yaml:"path"`

	// ClassName is the model type within that file.
	ClassName string `yaml:"class_name"`

	// Capabilities.
	Scenarios  []string `yaml:"scenarios,omitempty"`
	Parameters []string `yaml:"parameters,omitempty"`
	Outputs    []string `yaml:"outputs,omitempty"`

	// Dependencies with digest tracking. Digest maps are keyed by the
	// relative path and hold "sha256:<hex>" values.
	Data        []string          `yaml:"data,omitempty"`
	DataDigests map[string]string `yaml:"data_digests,omitempty"`
	Code        []string          `yaml:"code,omitempty"`
	CodeDigests map[string]string `yaml:"code_digests,omitempty"`

	// ModelDigest is the digest of the model file itself.
	ModelDigest string `yaml:"model_digest,omitempty"`
}

// TargetEntry is the registry record for a calibration target.
type TargetEntry struct {
	// Path locates the source file defining the target.
	Path string `yaml:"path"`

	// ModelOutput names the model output this target calibrates
	// against.
	ModelOutput string `yaml:"model_output"`

	// Observation locates the empirical data file.
	Observation string `yaml:"observation"`

	// TargetDigest is the digest of the target file.
	TargetDigest string `yaml:"target_digest,omitempty"`
}

// FileDigest computes "sha256:<hex>" over a file's contents.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("registry: failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("registry: failed to hash %s: %w", path, err)
	}
	return fmt.Sprintf("sha256:%x", h.Sum(nil)), nil
}

// ComputeDigest hashes the model file under base and stores the result
// in ModelDigest.
func (m *ModelEntry) ComputeDigest(base string) (string, error) {
	d, err := FileDigest(filepath.Join(base, m.Path))
	if err != nil {
		return "", err
	}
	m.ModelDigest = d
	return d, nil
}

// ComputeDependencyDigests refreshes DataDigests and CodeDigests for
// every dependency that exists under base. Missing files are skipped;
// they surface later through CheckInvalidation.
func (m *ModelEntry) ComputeDependencyDigests(base string) error {
	if m.DataDigests == nil {
		m.DataDigests = make(map[string]string)
	}
	if m.CodeDigests == nil {
		m.CodeDigests = make(map[string]string)
	}
	for _, rel := range m.Data {
		if d, err := FileDigest(filepath.Join(base, rel)); err == nil {
			m.DataDigests[rel] = d
		}
	}
	for _, rel := range m.Code {
		if d, err := FileDigest(filepath.Join(base, rel)); err == nil {
			m.CodeDigests[rel] = d
		}
	}
	return nil
}

// CheckInvalidation compares stored digests against the files under
// base and returns a human-readable description per change: edited
// content, missing files, and dependencies that never had a digest
// recorded.
func (m *ModelEntry) CheckInvalidation(base string) []string {
	var changes []string

	if m.Path != "" && m.ModelDigest != "" {
		current, err := FileDigest(filepath.Join(base, m.Path))
		switch {
		case err != nil:
			changes = append(changes, fmt.Sprintf("MODEL %s: file missing", m.Path))
		case current != m.ModelDigest:
			changes = append(changes, fmt.Sprintf("MODEL %s: content changed", m.Path))
		}
	}

	changes = append(changes, checkDeps("DATA", base, m.Data, m.DataDigests)...)
	changes = append(changes, checkDeps("CODE", base, m.Code, m.CodeDigests)...)
	return changes
}

func checkDeps(label, base string, deps []string, digests map[string]string) []string {
	var changes []string
	for _, rel := range deps {
		stored, ok := digests[rel]
		if !ok {
			changes = append(changes, fmt.Sprintf("%s %s: no digest stored", label, rel))
			continue
		}
		current, err := FileDigest(filepath.Join(base, rel))
		switch {
		case err != nil:
			changes = append(changes, fmt.Sprintf("%s %s: file missing", label, rel))
		case current != stored:
			changes = append(changes, fmt.Sprintf("%s %s: content changed", label, rel))
		}
	}
	return changes
}

// BundleRegistry is the registry of models and targets carried in a
// bundle.
type BundleRegistry struct {
	Version string                 `yaml:"version"`
	Models  map[string]*ModelEntry `yaml:"models"`
	Targets map[string]*TargetEntry `yaml:"targets"`
}

// New creates an empty registry at the current schema version.
func New() *BundleRegistry {
	return &BundleRegistry{
		Version: Version,
		Models:  make(map[string]*ModelEntry),
		Targets: make(map[string]*TargetEntry),
	}
}

// AddModel registers a model, deriving its entrypoint from the source
// path and class name: "src/models/sir.py" with class "StochasticSIR"
// becomes "models.sir:StochasticSIR".
func (r *BundleRegistry) AddModel(modelID, path, className string, outputs, data, code []string) *ModelEntry {
	entry := &ModelEntry{
		Entrypoint: deriveEntrypoint(path, className),
		Path:       path,
		ClassName:  className,
		Outputs:    outputs,
		Data:       data,
		Code:       code,
	}
	r.Models[modelID] = entry
	return entry
}

func deriveEntrypoint(path, className string) string {
	modulePath := strings.TrimSuffix(path, filepath.Ext(path))
	modulePath = strings.TrimPrefix(modulePath, "src/")
	return strings.ReplaceAll(modulePath, "/", ".") + ":" + className
}

// AddTarget registers a calibration target.
func (r *BundleRegistry) AddTarget(targetID, path, modelOutput, observation string) *TargetEntry {
	entry := &TargetEntry{Path: path, ModelOutput: modelOutput, Observation: observation}
	r.Targets[targetID] = entry
	return entry
}

// Validate checks that every referenced file exists under base and
// returns one message per missing file.
func (r *BundleRegistry) Validate(base string) []string {
	var problems []string

	modelIDs := sortedKeys(r.Models)
	for _, id := range modelIDs {
		m := r.Models[id]
		if !fileExists(filepath.Join(base, m.Path)) {
			problems = append(problems, fmt.Sprintf("Model %s: file not found at %s", id, m.Path))
		}
		for _, rel := range m.Data {
			if !fileExists(filepath.Join(base, rel)) {
				problems = append(problems, fmt.Sprintf("Model %s: data dependency not found at %s", id, rel))
			}
		}
		for _, rel := range m.Code {
			if !fileExists(filepath.Join(base, rel)) {
				problems = append(problems, fmt.Sprintf("Model %s: code dependency not found at %s", id, rel))
			}
		}
	}

	targetIDs := sortedKeys(r.Targets)
	for _, id := range targetIDs {
		tgt := r.Targets[id]
		if !fileExists(filepath.Join(base, tgt.Path)) {
			problems = append(problems, fmt.Sprintf("Target %s: file not found at %s", id, tgt.Path))
		}
		if !fileExists(filepath.Join(base, tgt.Observation)) {
			problems = append(problems, fmt.Sprintf("Target %s: observation not found at %s", id, tgt.Observation))
		}
	}

	return problems
}

// AllDependencies returns every file referenced by the registry, sorted
// and deduplicated.
func (r *BundleRegistry) AllDependencies() []string {
	seen := make(map[string]struct{})
	for _, m := range r.Models {
		seen[m.Path] = struct{}{}
		for _, rel := range m.Data {
			seen[rel] = struct{}{}
		}
		for _, rel := range m.Code {
			seen[rel] = struct{}{}
		}
	}
	for _, tgt := range r.Targets {
		seen[tgt.Path] = struct{}{}
		seen[tgt.Observation] = struct{}{}
	}

	deps := make([]string, 0, len(seen))
	for dep := range seen {
		deps = append(deps, dep)
	}
	sort.Strings(deps)
	return deps
}

// Save writes the registry to a YAML file.
func (r *BundleRegistry) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("registry: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("registry: failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a registry from a YAML file.
func Load(path string) (*BundleRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to read %s: %w", path, err)
	}
	reg := New()
	if err := yaml.Unmarshal(data, reg); err != nil {
		return nil, fmt.Errorf("registry: failed to parse %s: %w", path, err)
	}
	if reg.Models == nil {
		reg.Models = make(map[string]*ModelEntry)
	}
	if reg.Targets == nil {
		reg.Targets = make(map[string]*TargetEntry)
	}
	return reg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
