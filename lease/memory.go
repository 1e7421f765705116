package lease

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	holder  string
	token   int64
	expires time.Time
}

// Memory is a single-process Coordinator backed by a map. It honors
// TTLs (expired leases are reclaimable on the next Acquire) but offers
// no durability; use Etcd for multi-worker deployments.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memEntry
	next    int64

	// now is swapped in tests to control expiry.
	now func() time.Time
}

// NewMemory creates an empty in-memory coordinator.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memEntry), now: time.Now}
}

func (m *Memory) Acquire(_ context.Context, trialID, holder string, ttl time.Duration) (*Lease, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[trialID]; ok && m.now().Before(e.expires) {
		return nil, ErrHeld
	}

	m.next++
	m.entries[trialID] = memEntry{holder: holder, token: m.next, expires: m.now().Add(ttl)}
	return &Lease{TrialID: trialID, Holder: holder, TTL: ttl, token: m.next}, nil
}

func (m *Memory) Renew(_ context.Context, l *Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[l.TrialID]
	if !ok || e.token != l.token || !m.now().Before(e.expires) {
		return ErrNotHeld
	}
	e.expires = m.now().Add(l.TTL)
	m.entries[l.TrialID] = e
	return nil
}

func (m *Memory) Release(_ context.Context, l *Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[l.TrialID]
	if !ok || e.token != l.token || !m.now().Before(e.expires) {
		return ErrNotHeld
	}
	delete(m.entries, l.TrialID)
	return nil
}

func (m *Memory) Close() error { return nil }
