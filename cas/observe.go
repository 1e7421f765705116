package cas

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// observer wraps the optional tracing, metric, and logging hooks shared
// by both store implementations. A zero observer is valid and silent.
type observer struct {
	tracer trace.Tracer
	logger *slog.Logger

	putCounter   metric.Int64Counter
	getCounter   metric.Int64Counter
	bytesCounter metric.Int64Counter
}

func newObserver(tracer trace.Tracer, meter metric.Meter, logger *slog.Logger) (observer, error) {
	o := observer{tracer: tracer, logger: logger}
	if meter == nil {
		return o, nil
	}

	var err error
	o.putCounter, err = meter.Int64Counter("cas.put",
		metric.WithDescription("Number of CAS put operations"),
		metric.WithUnit("1"))
	if err != nil {
		return observer{}, fmt.Errorf("cas: create put counter: %w", err)
	}
	o.getCounter, err = meter.Int64Counter("cas.get",
		metric.WithDescription("Number of CAS get operations"),
		metric.WithUnit("1"))
	if err != nil {
		return observer{}, fmt.Errorf("cas: create get counter: %w", err)
	}
	o.bytesCounter, err = meter.Int64Counter("cas.stored_bytes",
		metric.WithDescription("Bytes written into CAS"),
		metric.WithUnit("By"))
	if err != nil {
		return observer{}, fmt.Errorf("cas: create bytes counter: %w", err)
	}
	return o, nil
}

// span starts a span for a storage operation when a tracer is
// configured. The returned end func records the error status.
func (o observer) span(ctx context.Context, name, ref string) (context.Context, func(error)) {
	if o.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := o.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("cas.ref", ref)))
	return ctx, func(err error) {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}
}

func (o observer) recordPut(ctx context.Context, ref string, size int) {
	if o.putCounter != nil {
		o.putCounter.Add(ctx, 1)
	}
	if o.bytesCounter != nil {
		o.bytesCounter.Add(ctx, int64(size))
	}
	if o.logger != nil {
		o.logger.DebugContext(ctx, "cas put", "ref", ref, "bytes", size)
	}
}

func (o observer) recordGet(ctx context.Context, ref string, hit bool) {
	if o.getCounter != nil {
		o.getCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cas.hit", hit)))
	}
	if o.logger != nil {
		o.logger.DebugContext(ctx, "cas get", "ref", ref, "hit", hit)
	}
}
