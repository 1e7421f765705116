// Package types holds the shared contract value types exchanged between
// the simulation producer and the orchestration consumer: parameter sets
// with stable IDs, trial results, and seed configuration.
//
// All types validate on construction and are treated as immutable after
// that. Validation failures surface as contract errors with
// KindValidation.
package types
