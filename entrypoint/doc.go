// Package entrypoint is the single source of truth for the compact string
// grammar that identifies simulation code and scenario on the wire.
//
// Two grammar versions coexist and must both remain parseable:
//
//	v1 (legacy, digest-bound):  <import-path> "/" <scenario> "@" <digest12>
//	v2 (current, digest-free):  <import-path> "/" <scenario>
//	                            <module-path> ":" <object-name>
//
// where
//
//	import-path = [A-Za-z_][\w.]*\.[A-Za-z_]\w*   (case-sensitive, dotted)
//	scenario    = [a-z0-9]([a-z0-9-_.]{0,62}[a-z0-9])?  (lowercase slug)
//	digest12    = first 12 hex chars of the bundle digest (sha256 only)
//
// In v2, code identity is tracked entirely via the bundle reference
// rather than embedded in the entrypoint. A string containing both "/"
// and ":" is rejected as ambiguous; one containing neither is rejected
// as unparseable. The grammar version is dispatched on explicitly at
// parse time, never inferred from which failures fire.
//
// Invariants:
//   - an entrypoint identifies compiled code + scenario, never outputs
//   - the v1 digest12 must be a prefix of the bundle_ref digest
//   - scenario is lowercase; import_path is case-sensitive
package entrypoint
