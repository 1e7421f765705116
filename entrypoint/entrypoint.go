package entrypoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/modelops/contracts"
)

// DigestPrefixLen is the number of bundle-digest hex characters embedded
// in a v1 entrypoint.
const DigestPrefixLen = 12

// Grammar versions. The version is carried explicitly in Parsed and
// dispatched on; it is never inferred from which validations fail.
const (
	GrammarV1 = 1
	GrammarV2 = 2
)

// Conservative patterns for component validation.
var (
	scenarioRE = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-_.]{0,62}[a-z0-9])?$`)
	importRE   = regexp.MustCompile(`^[A-Za-z_][\w.]*\.[A-Za-z_]\w*$`)
	moduleRE   = regexp.MustCompile(`^[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*$`)
	objectRE   = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	digest12RE = regexp.MustCompile(`^[0-9a-f]{12}$`)
)

// EntryPointID is an opaque validated entrypoint string. It compares and
// hashes exactly like the underlying string; construct one with New or
// the Format functions and never mutate it.
type EntryPointID string

// String returns the underlying entrypoint string.
func (e EntryPointID) String() string {
	return string(e)
}

// Form distinguishes the two v2 shapes an entrypoint can take.
type Form int

const (
	// FormScenario is the import-path/scenario shape (v1 and v2).
	FormScenario Form = iota

	// FormModule is the module-path:object-name reference shape (v2 only).
	FormModule
)

// Parsed is the decomposition of an entrypoint string.
type Parsed struct {
	// Version is the grammar version the string matched (GrammarV1 or
	// GrammarV2).
	Version int

	// Form is the shape of the entrypoint.
	Form Form

	// ImportPath and Scenario are set for FormScenario entrypoints.
	ImportPath string
	Scenario   string

	// Digest12 is set for v1 entrypoints only: the first 12 hex chars of
	// the bundle digest.
	Digest12 string

	// ModulePath and ObjectName are set for FormModule entrypoints.
	ModulePath string
	ObjectName string
}

// HasScenario reports whether the entrypoint carries a scenario slug.
func (p Parsed) HasScenario() bool {
	return p.Form == FormScenario
}

// New validates s against the supported grammars and returns it as an
// EntryPointID. It fails with KindMalformedGrammar when s matches none.
func New(s string) (EntryPointID, error) {
	if _, err := Parse(EntryPointID(s)); err != nil {
		return "", err
	}
	return EntryPointID(s), nil
}

// FormatV1 builds a legacy digest-bound entrypoint from an import path, a
// scenario slug, and a full bundle digest like "sha256:abcdef...". The
// digest algorithm is restricted to sha256 and the first 12 hex chars are
// embedded in the result.
func FormatV1(importPath, scenario, ociDigest string) (EntryPointID, error) {
	const op = "entrypoint.FormatV1"

	if !importRE.MatchString(importPath) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid import path %q", importPath))
	}
	if !scenarioRE.MatchString(scenario) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid scenario slug %q", scenario))
	}

	algo, hexDigest, ok := strings.Cut(ociDigest, ":")
	if !ok {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("bundle digest must be algo:hex, got %q", ociDigest))
	}
	if algo != "sha256" {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("unsupported digest algorithm %q", algo))
	}
	if len(hexDigest) < DigestPrefixLen {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("digest too short, need at least %d chars", DigestPrefixLen))
	}

	prefix := hexDigest[:DigestPrefixLen]
	if !digest12RE.MatchString(prefix) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("digest prefix %q is not lowercase hex", prefix))
	}

	return EntryPointID(importPath + "/" + scenario + "@" + prefix), nil
}

// Format builds a current (v2) digest-free entrypoint from an import
// path and a scenario slug. Code identity is tracked via the bundle
// reference, not the entrypoint.
func Format(importPath, scenario string) (EntryPointID, error) {
	const op = "entrypoint.Format"

	if !importRE.MatchString(importPath) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid import path %q", importPath))
	}
	if !scenarioRE.MatchString(scenario) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid scenario slug %q", scenario))
	}

	return EntryPointID(importPath + "/" + scenario), nil
}

// FormatModule builds a v2 module-reference entrypoint like
// "models.sir:StochasticSIR".
func FormatModule(modulePath, objectName string) (EntryPointID, error) {
	const op = "entrypoint.FormatModule"

	if !moduleRE.MatchString(modulePath) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid module path %q", modulePath))
	}
	if !objectRE.MatchString(objectName) {
		return "", contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid object name %q", objectName))
	}

	return EntryPointID(modulePath + ":" + objectName), nil
}

// Parse decomposes an entrypoint into its components, dispatching on the
// separators present:
//
//   - contains "@": v1 digest-bound form
//   - contains "/" only: v2 scenario form
//   - contains ":" only: v2 module-reference form
//   - contains both "/" and ":": ambiguous, rejected
//   - contains neither: unparseable, rejected
//
// Every failure is KindMalformedGrammar.
func Parse(id EntryPointID) (Parsed, error) {
	const op = "entrypoint.Parse"
	s := string(id)

	if strings.Contains(s, "@") {
		return parseV1(op, s)
	}

	hasSlash := strings.Contains(s, "/")
	hasColon := strings.Contains(s, ":")

	switch {
	case hasSlash && hasColon:
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("ambiguous entrypoint %q: both %q and %q present", s, "/", ":"))
	case hasSlash:
		return parseV2Scenario(op, s)
	case hasColon:
		return parseV2Module(op, s)
	default:
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("unparseable entrypoint %q: no separator", s))
	}
}

func parseV1(op, s string) (Parsed, error) {
	at := strings.LastIndex(s, "@")
	left, digest12 := s[:at], s[at+1:]

	slash := strings.LastIndex(left, "/")
	if slash < 0 {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid v1 entrypoint %q: missing %q", s, "/"))
	}
	importPath, scenario := left[:slash], left[slash+1:]

	if len(digest12) != DigestPrefixLen {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("digest prefix must be %d chars, got %d", DigestPrefixLen, len(digest12)))
	}
	if !digest12RE.MatchString(digest12) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("digest prefix %q is not lowercase hex", digest12))
	}
	if !importRE.MatchString(importPath) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid import path %q", importPath))
	}
	if !scenarioRE.MatchString(scenario) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid scenario slug %q", scenario))
	}

	return Parsed{
		Version:    GrammarV1,
		Form:       FormScenario,
		ImportPath: importPath,
		Scenario:   scenario,
		Digest12:   digest12,
	}, nil
}

func parseV2Scenario(op, s string) (Parsed, error) {
	slash := strings.LastIndex(s, "/")
	importPath, scenario := s[:slash], s[slash+1:]

	if !importRE.MatchString(importPath) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid import path %q", importPath))
	}
	if !scenarioRE.MatchString(scenario) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid scenario slug %q", scenario))
	}

	return Parsed{
		Version:    GrammarV2,
		Form:       FormScenario,
		ImportPath: importPath,
		Scenario:   scenario,
	}, nil
}

func parseV2Module(op, s string) (Parsed, error) {
	modulePath, objectName, _ := strings.Cut(s, ":")

	if !moduleRE.MatchString(modulePath) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid module path %q", modulePath))
	}
	if !objectRE.MatchString(objectName) {
		return Parsed{}, contracts.NewMalformedGrammarError(op, fmt.Errorf("invalid object name %q", objectName))
	}

	return Parsed{
		Version:    GrammarV2,
		Form:       FormModule,
		ModulePath: modulePath,
		ObjectName: objectName,
	}, nil
}
