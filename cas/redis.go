package cas

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// RedisOptions configures the Redis-backed store.
type RedisOptions struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// TLS configuration for secure connections.
	TLS *tls.Config

	// Namespace prefixes every key; default "cas".
	Namespace string

	// ConnectTimeout is the maximum time to wait for connection
	// establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration

	// Tracer enables span emission around Put/Get; nil disables it.
	Tracer trace.Tracer

	// Meter enables operation counters; nil disables them.
	Meter metric.Meter

	// Logger receives operational logs; nil disables them.
	Logger *slog.Logger
}

// Redis stores content in a Redis instance shared between workers.
type Redis struct {
	client    *redis.Client
	namespace string
	obs       observer
}

// NewRedis creates a Redis-backed store and verifies connectivity with
// a ping.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Namespace == "" {
		opts.Namespace = "cas"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("cas: failed to parse Redis URL: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cas: failed to connect to Redis: %w", err)
	}

	obs, err := newObserver(opts.Tracer, opts.Meter, opts.Logger)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Redis{client: client, namespace: opts.Namespace, obs: obs}, nil
}

func (r *Redis) Put(ctx context.Context, data []byte, checksumHex string) (ref string, err error) {
	ref, err = verify(data, checksumHex)
	if err != nil {
		return "", err
	}

	ctx, end := r.obs.span(ctx, "cas.Put", ref)
	defer func() { end(err) }()

	// SETNX keeps the first write; identical content makes re-puts
	// idempotent by construction.
	if err = r.client.SetNX(ctx, r.key(ref), data, 0).Err(); err != nil {
		return "", fmt.Errorf("cas: failed to store %s: %w", ref, err)
	}
	r.obs.recordPut(ctx, ref, len(data))
	return ref, nil
}

func (r *Redis) Get(ctx context.Context, ref string) (data []byte, err error) {
	ctx, end := r.obs.span(ctx, "cas.Get", ref)
	defer func() { end(err) }()

	data, err = r.client.Get(ctx, r.key(ref)).Bytes()
	if err == redis.Nil {
		r.obs.recordGet(ctx, ref, false)
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("cas: failed to get %s: %w", ref, err)
	}
	r.obs.recordGet(ctx, ref, true)
	return data, nil
}

func (r *Redis) Exists(ctx context.Context, ref string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(ref)).Result()
	if err != nil {
		return false, fmt.Errorf("cas: failed to check %s: %w", ref, err)
	}
	return n > 0, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) key(ref string) string {
	return r.namespace + ":" + ref
}
