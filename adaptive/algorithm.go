package adaptive

import (
	"context"

	"github.com/modelops/contracts/types"
)

// Algorithm is the two-phase optimizer loop contract.
//
// Ask returns up to n unique proposals, each with a stable parameter
// ID, leased atomically so no trial goes to two workers. It may return
// fewer than n, or an empty batch while results are pending. Once
// Finished reports true, Ask returns empty batches, but Tell still
// accepts late results for already-leased trials.
type Algorithm interface {
	// Ask requests up to n parameter sets to evaluate.
	Ask(ctx context.Context, n int) ([]types.UniqueParameterSet, error)

	// Tell reports results for previously asked trials, in any order.
	Tell(ctx context.Context, results []types.TrialResult) error

	// Finished reports whether the algorithm will produce more
	// proposals.
	Finished() bool
}
