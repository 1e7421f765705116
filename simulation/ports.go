package simulation

import (
	"context"

	"github.com/modelops/contracts/entrypoint"
)

// SimReturn maps output names to serialized tabular data (Arrow IPC or
// Parquet bytes). Results must fit in memory; large artifacts belong in
// content-addressable storage with only references returned here.
type SimReturn map[string][]byte

// Future is a handle to an in-flight simulation result.
type Future[T any] interface {
	// Result blocks until the value is available or ctx is done.
	Result(ctx context.Context) (T, error)

	// Done reports whether the future has completed.
	Done() bool

	// Cancel attempts to cancel the operation and reports whether the
	// cancellation took effect.
	Cancel() bool
}

// SimulationService is the primary port: how clients drive the
// simulation system. Implementations may run tasks in-process, in a
// worker pool, or on a remote cluster.
type SimulationService interface {
	// Submit schedules a single task for execution.
	Submit(ctx context.Context, task SimTask) (Future[SimReturn], error)

	// SubmitBatch schedules many tasks, one future per task.
	SubmitBatch(ctx context.Context, tasks []SimTask) ([]Future[SimReturn], error)

	// SubmitReplicates schedules n replicates of the base task.
	// Implementations derive replicate seeds deterministically from the
	// base task's seed.
	SubmitReplicates(ctx context.Context, base SimTask, n int) ([]Future[SimReturn], error)

	// Gather blocks for all futures and returns results in input order.
	Gather(ctx context.Context, futures []Future[SimReturn]) ([]SimReturn, error)
}

// ExecutionEnvironment runs tasks in an isolated environment: in-process
// for tests, subprocess, container, or remote.
type ExecutionEnvironment interface {
	Run(ctx context.Context, task SimTask) (SimReturn, error)
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// BundleRepository fetches and stages simulation bundles from whatever
// backs them (OCI registry, object storage, local filesystem).
type BundleRepository interface {
	// EnsureLocal fetches the bundle and returns its canonical digest
	// and the local directory it was extracted to.
	EnsureLocal(ctx context.Context, bundleRef string) (digest string, path string, err error)

	// Exists reports whether the bundle is present in the repository.
	Exists(ctx context.Context, bundleRef string) (bool, error)
}

// WireFunction is the low-level execution contract a bundle implements:
// called inside the isolated worker with the parsed inputs, it returns
// the raw named outputs.
type WireFunction func(ctx context.Context, ep entrypoint.EntryPointID, params map[string]any, seed uint64) (SimReturn, error)
