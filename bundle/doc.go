// Package bundle defines the contract types for referencing and
// resolving code bundles: the Ref union (local path, content digest, or
// name+version), the Resolved record produced by resolution, and the
// media-type constants used on the wire.
package bundle
