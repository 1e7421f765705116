package cas

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Memory is a single-process Store backed by a map, for tests and
// local runs.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
	obs     observer
}

// MemoryOptions configures the in-memory store; all fields are
// optional.
type MemoryOptions struct {
	Tracer trace.Tracer
	Meter  metric.Meter
	Logger *slog.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts MemoryOptions) (*Memory, error) {
	obs, err := newObserver(opts.Tracer, opts.Meter, opts.Logger)
	if err != nil {
		return nil, err
	}
	return &Memory{entries: make(map[string][]byte), obs: obs}, nil
}

func (m *Memory) Put(ctx context.Context, data []byte, checksumHex string) (ref string, err error) {
	ref, err = verify(data, checksumHex)
	if err != nil {
		return "", err
	}

	ctx, end := m.obs.span(ctx, "cas.Put", ref)
	defer func() { end(err) }()

	m.mu.Lock()
	if _, exists := m.entries[ref]; !exists {
		stored := make([]byte, len(data))
		copy(stored, data)
		m.entries[ref] = stored
	}
	m.mu.Unlock()

	m.obs.recordPut(ctx, ref, len(data))
	return ref, nil
}

func (m *Memory) Get(ctx context.Context, ref string) (data []byte, err error) {
	ctx, end := m.obs.span(ctx, "cas.Get", ref)
	defer func() { end(err) }()

	m.mu.RLock()
	stored, ok := m.entries[ref]
	m.mu.RUnlock()

	m.obs.recordGet(ctx, ref, ok)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}

	data = make([]byte, len(stored))
	copy(data, stored)
	return data, nil
}

func (m *Memory) Exists(_ context.Context, ref string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[ref]
	return ok, nil
}

func (m *Memory) Close() error { return nil }
