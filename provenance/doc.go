// Package provenance derives the stable, content-addressed identifiers
// that the whole caching and deduplication scheme hangs off: parameter
// IDs, simulation roots, task IDs, and calibration roots.
//
// The two-root model separates simulation provenance (which excludes
// targets and requested outputs) from calibration provenance (which
// includes targets), so that re-running with different extraction
// requests reuses the same simulation root and changing calibration
// inputs never forces resimulation.
//
// Every derivation is namespaced with a fixed version prefix (for flat
// payloads) or an explicit version envelope (for leaf trees), so a
// future breaking change to a derivation rule produces a disjoint ID
// space instead of silent collisions.
//
// All functions are pure: no I/O, no shared state, safe for unlimited
// concurrent use.
package provenance
