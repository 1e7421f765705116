// Package cas provides content-addressable storage for large
// simulation artifacts that exceed inline result limits.
//
// Content is addressed by its SHA-256 checksum; references are shard
// paths derived from the checksum (e.g. "ab/cd/abcd..."), keeping
// backends with per-prefix limits balanced. Put verifies the supplied
// checksum against the data before storing, so a corrupted upload can
// never become retrievable under a clean reference.
//
// Two implementations are provided: Redis (for shared deployments) and
// Memory (single-process, tests). Both emit OpenTelemetry spans and
// counters around storage operations when instrumented.
package cas
