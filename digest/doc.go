// Package digest computes the fixed-width content digests that identify
// every contract artifact, and maps digests to shard paths for
// content-addressed storage layout.
//
// The digest algorithm is BLAKE2b configured for a 256-bit output,
// rendered as a 64-character lowercase hex string. BLAKE2b was chosen for
// speed and its built-in variable output length, which avoids a separate
// truncation step. The algorithm and rendering are part of the wire
// contract and must never change within a schema version.
package digest
