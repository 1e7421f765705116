package bundle

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/modelops/contracts"
)

// Media types carried in bundle manifests.
const (
	MediaTypeManifest    = "application/vnd.modelops.bundle.manifest+json"
	MediaTypeLayerIndex  = "application/vnd.modelops.layer+json"
	MediaTypeExternalRef = "application/vnd.modelops.external-ref+json"
	MediaTypeOCIManifest = "application/vnd.oci.image.manifest.v1+json"
	MediaTypeOCIEmptyCfg = "application/vnd.oci.empty.v1+json"
)

var (
	nameRE   = regexp.MustCompile(`^[a-z0-9-/]+$`)
	digestRE = regexp.MustCompile(`^sha256:[a-f0-9]{64}$`)
)

// Ref references a bundle by exactly one of: local filesystem path,
// content digest, or name+version. Resolution precedence is
// local path, then digest, then name+version. Construct with NewRef so
// the exclusivity rule and name normalization are applied.
type Ref struct {
	Name      string `yaml:"name,omitempty"`
	Version   string `yaml:"version,omitempty"`
	Digest    string `yaml:"digest,omitempty"`
	LocalPath string `yaml:"local_path,omitempty"`

	// Role is an optional default role hint for materialization.
	Role string `yaml:"role,omitempty"`
}

// NewRef validates and normalizes a bundle reference. Names are
// lowercased; a name containing anything but lowercase letters, digits,
// hyphens, and slashes is rejected.
func NewRef(ref Ref) (Ref, error) {
	const op = "bundle.NewRef"

	if ref.Name != "" {
		ref.Name = strings.ToLower(ref.Name)
		if !nameRE.MatchString(ref.Name) {
			return Ref{}, contracts.NewValidationError(op,
				fmt.Errorf("name %q must contain only lowercase letters, digits, hyphens, and slashes", ref.Name))
		}
	}
	if ref.Digest != "" && !digestRE.MatchString(ref.Digest) {
		return Ref{}, contracts.NewValidationError(op, fmt.Errorf("digest %q must match sha256:<64 hex>", ref.Digest))
	}

	choices := 0
	if ref.LocalPath != "" {
		choices++
	}
	if ref.Digest != "" {
		choices++
	}
	if ref.Name != "" && ref.Version != "" {
		choices++
	}
	if choices != 1 {
		return Ref{}, contracts.NewValidationError(op,
			fmt.Errorf("exactly one of local_path, digest, or name+version must be set"))
	}

	return ref, nil
}

func (r Ref) String() string {
	switch {
	case r.Digest != "":
		return fmt.Sprintf("Ref(digest=%s...)", r.Digest[:19])
	case r.LocalPath != "":
		return fmt.Sprintf("Ref(local_path=%s)", r.LocalPath)
	case r.Name != "" && r.Version != "":
		return fmt.Sprintf("Ref(%s:%s)", r.Name, r.Version)
	}
	return "Ref(empty)"
}

// Resolved is the result of bundle resolution: content addresses for
// the manifest and its layers, plus the role map.
type Resolved struct {
	Ref            Ref                 `yaml:"ref"`
	ManifestDigest string              `yaml:"manifest_digest"`
	MediaType      string              `yaml:"media_type"`
	Roles          map[string][]string `yaml:"roles"`
	Layers         []string            `yaml:"layers"`
	ExternalIndex  bool                `yaml:"external_index_present"`
	TotalSize      int64               `yaml:"total_size"`
	CacheDir       string              `yaml:"cache_dir,omitempty"`
}

// Validate checks the resolved record's digests, role map, and layer
// names.
func (b Resolved) Validate() error {
	const op = "bundle.Resolved.Validate"

	if !digestRE.MatchString(b.ManifestDigest) {
		return contracts.NewValidationError(op, fmt.Errorf("manifest digest %q must match sha256:<64 hex>", b.ManifestDigest))
	}
	if b.TotalSize < 0 {
		return contracts.NewValidationError(op, fmt.Errorf("total size must be non-negative, got %d", b.TotalSize))
	}
	for role, layers := range b.Roles {
		if role == "" || !nameRE.MatchString(role) {
			return contracts.NewValidationError(op, fmt.Errorf("invalid role name %q", role))
		}
		if len(layers) == 0 {
			return contracts.NewValidationError(op, fmt.Errorf("role %q must reference at least one layer", role))
		}
		for _, layer := range layers {
			if layer == "" || !nameRE.MatchString(layer) {
				return contracts.NewValidationError(op, fmt.Errorf("invalid layer name %q in role %q", layer, role))
			}
		}
	}
	for _, layer := range b.Layers {
		if layer == "" || !nameRE.MatchString(layer) {
			return contracts.NewValidationError(op, fmt.Errorf("invalid layer name %q", layer))
		}
	}
	return nil
}

// RoleLayers returns the layers for a role, or an error naming the
// available roles when the role is unknown.
func (b Resolved) RoleLayers(role string) ([]string, error) {
	layers, ok := b.Roles[role]
	if !ok {
		available := make([]string, 0, len(b.Roles))
		for r := range b.Roles {
			available = append(available, r)
		}
		sort.Strings(available)
		return nil, contracts.NewValidationError("bundle.RoleLayers",
			fmt.Errorf("role %q not found, available: %s", role, strings.Join(available, ", ")))
	}
	return layers, nil
}
