package environment

import (
	"runtime"
	"sort"

	"github.com/modelops/contracts/canonical"
	"github.com/modelops/contracts/digest"
)

// EnvNamespace is the literal prefix mixed into every environment
// digest. Bumping the version here creates a disjoint ID space.
const EnvNamespace = "contracts:env:v1|"

// RuntimeEnvironment records the execution environment factors that
// affect reproducibility. Changes to any field change the digest and
// invalidate cached results computed under the old environment.
type RuntimeEnvironment struct {
	// RuntimeVersion is the language runtime version, e.g. "3.11.5"
	// for a Python producer or "go1.24.4" here.
	RuntimeVersion string

	// Platform identifies OS and architecture, e.g. "linux-amd64".
	Platform string

	// Dependencies maps package names to versions.
	Dependencies map[string]string

	// ContainerImage is the OCI image digest for containerized
	// environments; empty outside containers.
	ContainerImage string

	// CUDAVersion is set for GPU workloads; empty otherwise.
	CUDAVersion string

	// RNGAlgorithm names the random number generator, default "PCG64".
	RNGAlgorithm string

	// ThreadCount is the thread budget for deterministic execution,
	// default 1.
	ThreadCount int
}

// Capture records the current process's runtime and platform. Callers
// should add dependency versions explicitly via WithDependencies; an
// empty dependency map is a weak reproducibility statement.
func Capture() RuntimeEnvironment {
	return RuntimeEnvironment{
		RuntimeVersion: runtime.Version(),
		Platform:       runtime.GOOS + "-" + runtime.GOARCH,
		Dependencies:   map[string]string{},
		RNGAlgorithm:   "PCG64",
		ThreadCount:    1,
	}
}

// WithDependencies returns a copy with the given packages merged into
// the dependency map.
func (e RuntimeEnvironment) WithDependencies(packages map[string]string) RuntimeEnvironment {
	deps := make(map[string]string, len(e.Dependencies)+len(packages))
	for k, v := range e.Dependencies {
		deps[k] = v
	}
	for k, v := range packages {
		deps[k] = v
	}
	e.Dependencies = deps
	return e
}

// Digest derives the stable environment identifier. The wire form uses
// the historical keys (python, platform, deps as sorted name/version
// pairs, container, cuda, rng, threads) with absent optionals encoded
// as null, so digests agree across producer implementations.
func (e RuntimeEnvironment) Digest() (digest.Digest, error) {
	names := make([]string, 0, len(e.Dependencies))
	for name := range e.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(canonical.Array, len(names))
	for i, name := range names {
		deps[i] = canonical.Array{canonical.String(name), canonical.String(e.Dependencies[name])}
	}

	payload := canonical.Object{
		"python":    canonical.String(e.RuntimeVersion),
		"platform":  canonical.String(e.Platform),
		"deps":      deps,
		"container": optionalString(e.ContainerImage),
		"cuda":      optionalString(e.CUDAVersion),
		"rng":       canonical.String(e.RNGAlgorithm),
		"threads":   canonical.Int(e.ThreadCount),
	}

	encoded, err := canonical.EncodeValue(payload)
	if err != nil {
		return "", err
	}

	namespaced := make([]byte, 0, len(EnvNamespace)+len(encoded))
	namespaced = append(namespaced, EnvNamespace...)
	namespaced = append(namespaced, encoded...)
	return digest.Sum(namespaced), nil
}

func optionalString(s string) canonical.Value {
	if s == "" {
		return canonical.Null{}
	}
	return canonical.String(s)
}
