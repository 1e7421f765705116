package lease

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by coordinators.
var (
	// ErrHeld means another holder currently owns the trial.
	ErrHeld = errors.New("lease: trial already held")

	// ErrNotHeld means the caller does not own the lease it tried to
	// renew or release, either because it expired or was never acquired.
	ErrNotHeld = errors.New("lease: not held")
)

// Lease records an acquired trial lease. It is returned by Acquire and
// passed back to Renew and Release.
type Lease struct {
	// TrialID identifies the leased trial (conventionally the param_id).
	TrialID string

	// Holder identifies the worker owning the lease.
	Holder string

	// TTL is the time-to-live granted at acquisition.
	TTL time.Duration

	// token is the backend-specific lease handle.
	token int64
}

// Coordinator hands out exclusive, TTL-bounded trial leases.
// Implementations must guarantee at most one live holder per trial ID.
type Coordinator interface {
	// Acquire takes the lease for a trial. It fails with ErrHeld when
	// another worker holds an unexpired lease on the same trial.
	Acquire(ctx context.Context, trialID, holder string, ttl time.Duration) (*Lease, error)

	// Renew extends a held lease by its TTL. It fails with ErrNotHeld
	// when the lease expired or belongs to someone else.
	Renew(ctx context.Context, l *Lease) error

	// Release gives the lease up, making the trial reclaimable
	// immediately. Releasing an expired lease fails with ErrNotHeld.
	Release(ctx context.Context, l *Lease) error

	// Close releases coordinator resources.
	Close() error
}
