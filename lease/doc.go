// Package lease provides trial lease coordination for multi-worker
// adaptive search.
//
// A lease grants one worker the exclusive right to evaluate a trial for
// a bounded time. Leases carry a TTL so trials held by crashed workers
// become reclaimable instead of being stuck forever. Two
// implementations exist:
//
//   - Etcd: backed by an etcd cluster, safe across processes and hosts.
//     Acquisition is an atomic create-if-absent transaction bound to an
//     etcd lease.
//   - Memory: a single-process map, for tests and local runs.
//
// Workers renew their lease while an evaluation is in flight and
// release it when the terminal result has been told to the algorithm.
package lease
