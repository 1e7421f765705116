// Package canonical normalizes JSON-like value trees into the canonical
// wire form that all contract identifiers are hashed over.
//
// The canonical encoding is a byte-level, cross-implementation contract:
// the producer and the consumer must emit identical bytes for semantically
// identical inputs, forever, across platforms and language runtimes. The
// rules are:
//
//   - object keys sorted ascending, byte-wise on UTF-8
//   - separators "," and ":" with no insignificant whitespace
//   - non-ASCII characters emitted literally (not escaped)
//   - floats must be finite and are formatted in shortest round-trip form
//     with a trailing ".0" on integral values; NaN and infinities are
//     rejected before encoding, never emitted
//   - -0.0 and 0.0 are observably distinct scalars (no sign normalization)
//   - sequences preserve input order exactly
//
// Use Canonicalize to normalize arbitrary Go values into a Value tree,
// Scalar for scalar-only positions such as parameter values, and Encode
// to produce the canonical bytes that digests are computed over.
package canonical
