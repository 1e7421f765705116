package lease

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// EtcdConfig holds connection settings for the etcd-backed coordinator.
type EtcdConfig struct {
	// Endpoints lists the etcd cluster members, e.g. ["host1:2379"].
	Endpoints []string `yaml:"endpoints"`

	// Namespace is the key prefix for all lease entries.
	// Default: "modelops".
	Namespace string `yaml:"namespace"`

	// DialTimeout bounds the initial connection. Default: 5s.
	DialTimeout time.Duration `yaml:"dial_timeout"`

	// TLS enables mutual TLS towards the cluster. Nil disables it.
	TLS *TLSConfig `yaml:"tls"`
}

// Etcd coordinates leases through an etcd cluster. Acquisition is a
// create-if-absent transaction bound to an etcd lease, so at most one
// holder can win a trial and crashed holders expire with their TTL.
//
// All methods are safe for concurrent use.
type Etcd struct {
	client    *clientv3.Client
	namespace string

	mu     sync.Mutex
	closed bool
}

// NewEtcd connects to the cluster and verifies connectivity.
func NewEtcd(cfg EtcdConfig) (*Etcd, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("lease: endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "modelops"
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	clientCfg := clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := cfg.TLS.clientConfig()
		if err != nil {
			return nil, fmt.Errorf("lease: failed to configure TLS: %w", err)
		}
		clientCfg.TLS = tlsConfig
	}

	cli, err := clientv3.New(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("lease: failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("lease: etcd health check failed: %w", err)
	}

	return &Etcd{client: cli, namespace: namespace}, nil
}

// Acquire grants an etcd lease with the requested TTL and writes the
// holder under the trial key only if no entry exists. Losing the
// transaction means another holder owns the trial; the freshly granted
// etcd lease is revoked in that case.
func (e *Etcd) Acquire(ctx context.Context, trialID, holder string, ttl time.Duration) (*Lease, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	seconds := int64(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	grant, err := e.client.Grant(ctx, seconds)
	if err != nil {
		return nil, fmt.Errorf("lease: failed to grant: %w", err)
	}

	key := e.key(trialID)
	txn, err := e.client.Txn(ctx).
		If(clientv3.Compare(clientv3.CreateRevision(key), "=", 0)).
		Then(clientv3.OpPut(key, holder, clientv3.WithLease(grant.ID))).
		Commit()
	if err != nil {
		return nil, fmt.Errorf("lease: acquire transaction failed: %w", err)
	}
	if !txn.Succeeded {
		// Lost the race; don't leave the unused grant dangling.
		e.client.Revoke(context.Background(), grant.ID)
		return nil, ErrHeld
	}

	return &Lease{TrialID: trialID, Holder: holder, TTL: ttl, token: int64(grant.ID)}, nil
}

// Renew extends the underlying etcd lease by its original TTL.
func (e *Etcd) Renew(ctx context.Context, l *Lease) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if _, err := e.client.KeepAliveOnce(ctx, clientv3.LeaseID(l.token)); err != nil {
		return ErrNotHeld
	}
	return nil
}

// Release revokes the etcd lease, which deletes the trial entry.
func (e *Etcd) Release(ctx context.Context, l *Lease) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if _, err := e.client.Revoke(ctx, clientv3.LeaseID(l.token)); err != nil {
		return ErrNotHeld
	}
	return nil
}

// Close closes the etcd client. Held leases keep running down their
// TTLs and expire on their own.
func (e *Etcd) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()
	return e.client.Close()
}

func (e *Etcd) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("lease: coordinator is closed")
	}
	return nil
}

// key builds the etcd key for a trial: /namespace/leases/trial-id.
func (e *Etcd) key(trialID string) string {
	return fmt.Sprintf("/%s/leases/%s", e.namespace, trialID)
}
