package provenance

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/canonical"
	"github.com/modelops/contracts/digest"
	"github.com/modelops/contracts/entrypoint"
)

// ParamNamespace is the literal prefix mixed into every parameter-set
// hash. Bumping the version here creates a disjoint ID space.
const ParamNamespace = "contracts:param:v1|"

// ParamID derives the stable digest identifying a parameter set. The
// same parameters always produce the same ID regardless of map
// iteration order or platform; cache keys and trial deduplication
// depend on this.
//
// Parameter values must be scalars: bool, integer, finite float, or
// string. Note that -0.0 and 0.0 are distinct parameter values and
// produce distinct IDs.
func ParamID(params map[string]any) (digest.Digest, error) {
	obj := make(canonical.Object, len(params))
	for k, v := range params {
		c, err := canonical.Scalar(v)
		if err != nil {
			return "", err
		}
		obj[k] = c
	}

	encoded, err := canonical.EncodeValue(obj)
	if err != nil {
		return "", err
	}

	payload := make([]byte, 0, len(ParamNamespace)+len(encoded))
	payload = append(payload, ParamNamespace...)
	payload = append(payload, encoded...)
	return digest.Sum(payload), nil
}

// SimRootInput carries the inputs that identify a simulation run.
// Config and Env are optional; empty maps contribute no leaf.
type SimRootInput struct {
	// BundleRef is the full bundle reference, e.g. "sha256:abcd..." or
	// "local://dev".
	BundleRef string

	// Params are the simulation parameters (scalar values).
	Params map[string]any

	// Seed is the random seed. The uint64 type carries the
	// [0, 2^64-1] contract range.
	Seed uint64

	// Entrypoint identifies code and scenario; the scenario slug is
	// extracted from it and hashed as its own leaf.
	Entrypoint entrypoint.EntryPointID

	// Config is optional run configuration.
	Config map[string]any

	// Env is optional environment settings.
	Env map[string]any
}

// SimRoot derives the digest identifying a simulation run from its
// inputs. It deliberately excludes requested outputs, so re-running
// with a different extraction request reuses the same root — this is
// the central caching invariant of the system.
//
// The entrypoint must carry a scenario (v1 or v2 scenario form); a
// module-reference entrypoint fails with KindMalformedGrammar.
func SimRoot(in SimRootInput) (digest.Digest, error) {
	const op = "provenance.SimRoot"

	parsed, err := entrypoint.Parse(in.Entrypoint)
	if err != nil {
		return "", err
	}
	if !parsed.HasScenario() {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("entrypoint %q carries no scenario", in.Entrypoint))
	}

	leaves := make([]Leaf, 0, 6)

	leaf, err := LeafFromValue(LeafCode, "bundle", map[string]any{"ref": in.BundleRef})
	if err != nil {
		return "", err
	}
	leaves = append(leaves, leaf)

	leaf, err = LeafFromValue(LeafParams, "parameters", in.Params)
	if err != nil {
		return "", err
	}
	leaves = append(leaves, leaf)

	leaf, err = LeafFromValue(LeafSeed, "seed", in.Seed)
	if err != nil {
		return "", err
	}
	leaves = append(leaves, leaf)

	leaf, err = LeafFromValue(LeafScenario, "name", parsed.Scenario)
	if err != nil {
		return "", err
	}
	leaves = append(leaves, leaf)

	if len(in.Config) > 0 {
		leaf, err = LeafFromValue(LeafConfig, "config", in.Config)
		if err != nil {
			return "", err
		}
		leaves = append(leaves, leaf)
	}
	if len(in.Env) > 0 {
		leaf, err = LeafFromValue(LeafEnv, "env", in.Env)
		if err != nil {
			return "", err
		}
		leaves = append(leaves, leaf)
	}

	return Root(leaves)
}

// TaskID derives the digest identifying one materialization request: a
// simulation root plus a specific output selection. Requests that share
// a sim root but ask for different output subsets get distinct task IDs.
//
// A nil outputs slice means "all outputs" and hashes as "*"; otherwise
// the output names are sorted and comma-joined, so selection order
// never matters.
func TaskID(simRoot digest.Digest, ep entrypoint.EntryPointID, outputs []string) (digest.Digest, error) {
	if !simRoot.Valid() {
		return "", contracts.NewInvalidDigestFormatError("provenance.TaskID", simRoot.String())
	}

	outputsKey := "*"
	if outputs != nil {
		sorted := make([]string, len(outputs))
		copy(sorted, outputs)
		sort.Strings(sorted)
		outputsKey = strings.Join(sorted, ",")
	}

	payload := canonical.Object{
		"sim_root":   canonical.String(simRoot),
		"entrypoint": canonical.String(ep),
		"outputs":    canonical.String(outputsKey),
	}

	encoded, err := canonical.EncodeValue(payload)
	if err != nil {
		return "", err
	}
	return digest.Sum(encoded), nil
}

// CalibRoot derives the digest identifying a calibration run. It
// references simulation roots without re-deriving them, so changing
// calibration-level inputs (targets, optimizer config) never forces
// resimulation. The sim root list is sorted before hashing and is
// therefore order-independent.
func CalibRoot(targetsID, optimizerID string, simRoots []digest.Digest, calibCodeID, envID string) (digest.Digest, error) {
	roots := make([]string, len(simRoots))
	for i, r := range simRoots {
		if !r.Valid() {
			return "", contracts.NewInvalidDigestFormatError("provenance.CalibRoot", r.String())
		}
		roots[i] = r.String()
	}
	sort.Strings(roots)

	rootsLeaf, err := LeafFromValue(LeafCode, "sim_roots", roots)
	if err != nil {
		return "", err
	}

	leaves := []Leaf{
		LeafFromBytes(LeafTargets, "data", []byte(targetsID)),
		LeafFromBytes(LeafOptimizer, "config", []byte(optimizerID)),
		rootsLeaf,
		LeafFromBytes(LeafCode, "calib", []byte(calibCodeID)),
		LeafFromBytes(LeafEnv, "runtime", []byte(envID)),
	}

	return Root(leaves)
}
