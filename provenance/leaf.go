package provenance

import (
	"sort"

	"github.com/modelops/contracts"
	"github.com/modelops/contracts/canonical"
	"github.com/modelops/contracts/digest"
)

// SchemaVersion is the provenance tree schema version, mixed into every
// root computation.
const SchemaVersion = 1

// LeafKind tags the component a leaf hashes.
type LeafKind string

// Leaf kinds recognized by the provenance tree.
const (
	LeafParams    LeafKind = "params"
	LeafConfig    LeafKind = "config"
	LeafCode      LeafKind = "code"
	LeafScenario  LeafKind = "scenario"
	LeafSeed      LeafKind = "seed"
	LeafEnv       LeafKind = "env"
	LeafTargets   LeafKind = "targets"
	LeafOptimizer LeafKind = "optimizer"
)

// Leaf is a single named, hashed component fed into a root computation.
// Leaves are immutable value objects; construct them with NewLeaf,
// LeafFromValue, or LeafFromBytes.
type Leaf struct {
	Kind   LeafKind
	Name   string
	Digest digest.Digest
}

// NewLeaf builds a leaf from an already-computed digest, validating the
// 64-hex-char digest format.
func NewLeaf(kind LeafKind, name string, d digest.Digest) (Leaf, error) {
	if !d.Valid() {
		return Leaf{}, contracts.NewInvalidDigestFormatError("provenance.NewLeaf", d.String())
	}
	return Leaf{Kind: kind, Name: name, Digest: d}, nil
}

// LeafFromValue hashes a JSON-like value through the canonical encoding.
func LeafFromValue(kind LeafKind, name string, value any) (Leaf, error) {
	encoded, err := canonical.Encode(value)
	if err != nil {
		return Leaf{}, err
	}
	return Leaf{Kind: kind, Name: name, Digest: digest.Sum(encoded)}, nil
}

// LeafFromBytes hashes pre-serialized content (e.g. code blobs) directly.
func LeafFromBytes(kind LeafKind, name string, data []byte) Leaf {
	return Leaf{Kind: kind, Name: name, Digest: digest.Sum(data)}
}

// Root combines a set of leaves into a single digest. Leaves are sorted
// by (kind, name) internally, so callers may supply them in any order
// and get the same root. The sorted leaves are wrapped in an explicit
// {"version": SchemaVersion, "leaves": [...]} envelope before hashing.
func Root(leaves []Leaf) (digest.Digest, error) {
	sorted := make([]Leaf, len(leaves))
	copy(sorted, leaves)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind < sorted[j].Kind
		}
		return sorted[i].Name < sorted[j].Name
	})

	encoded := make(canonical.Array, len(sorted))
	for i, leaf := range sorted {
		if !leaf.Digest.Valid() {
			return "", contracts.NewInvalidDigestFormatError("provenance.Root", leaf.Digest.String())
		}
		encoded[i] = canonical.Object{
			"kind":   canonical.String(leaf.Kind),
			"name":   canonical.String(leaf.Name),
			"digest": canonical.String(leaf.Digest),
		}
	}

	payload := canonical.Object{
		"version": canonical.Int(SchemaVersion),
		"leaves":  encoded,
	}

	data, err := canonical.EncodeValue(payload)
	if err != nil {
		return "", err
	}
	return digest.Sum(data), nil
}
