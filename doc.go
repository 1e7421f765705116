// Package contracts is the shared wire contract between the simulation
// producer and the orchestration consumer. It defines the deterministic
// canonical-encoding and content-hashing scheme used to derive stable,
// content-addressed identifiers (param IDs, simulation roots, task IDs,
// calibration roots), the compact entrypoint grammar that binds those
// identifiers to versioned code+scenario references, and the container
// types that carry them.
//
// Both sides MUST derive identifiers through this module. Any drift in
// float formatting, key ordering, whitespace, or hash algorithm silently
// breaks caching and trial deduplication, so the derivation core is a
// byte-level contract, not an implementation detail.
//
// The module is organized leaf-first:
//
//   - canonical: normalizes JSON-like value trees into canonical wire bytes
//   - digest: BLAKE2b-256 digests and shard paths for content addressing
//   - provenance: leaf/root trees and the named identity derivations
//   - entrypoint: the versioned code+scenario reference grammar
//   - types, simulation, adaptive, jobs: contract value types and ports
//   - bundle, registry, environment: bundle references and configuration
//   - cas, lease: storage and coordination adapters built on the contract
//
// This root package holds the error taxonomy shared by all of them. Every
// function in the derivation core is a pure function over immutable inputs:
// it fails fast and synchronously with a specific error kind, performs no
// I/O, and may be called concurrently without coordination.
package contracts
