// Package adaptive defines the ask/tell protocol between a search
// algorithm and its evaluator.
//
// A worker repeatedly asks for a batch of parameter candidates, runs the
// evaluation, and tells the algorithm the observed results:
//
//	for !algo.Finished() {
//		batch, err := algo.Ask(ctx, n)
//		if err != nil {
//			return err
//		}
//		if len(batch) == 0 {
//			// nothing to hand out right now; back off briefly
//			continue
//		}
//		results := evaluate(batch)
//		if err := algo.Tell(ctx, results); err != nil {
//			return err
//		}
//	}
//
// Trials move through PENDING, LEASED, and exactly one terminal state
// (completed, failed, or timeout). Terminal writes are idempotent:
// re-sending an identical result is a no-op, while a different result
// for a finished trial is rejected. Multi-worker deployments back the
// algorithm with a lease coordinator so the same trial never goes to
// two workers; see the lease package.
package adaptive
