package types

// SeedInfo carries the seed derivation chain for a trial: the run-level
// base seed, the per-trial seed derived from it, and the per-replicate
// seeds derived from the trial seed. The uint64 type enforces the
// [0, 2^64-1] seed range, so no runtime range check is needed.
type SeedInfo struct {
	BaseSeed       uint64
	TrialSeed      uint64
	ReplicateSeeds []uint64
}

// NewSeedInfo copies the replicate seeds so the caller's slice cannot
// mutate the record afterwards.
func NewSeedInfo(baseSeed, trialSeed uint64, replicateSeeds []uint64) SeedInfo {
	reps := make([]uint64, len(replicateSeeds))
	copy(reps, replicateSeeds)
	return SeedInfo{BaseSeed: baseSeed, TrialSeed: trialSeed, ReplicateSeeds: reps}
}
