// internal/common/observability/observability.go

// Package observability wires OpenTelemetry metrics (Prometheus exporter) and
// tracing (stdout exporter) for the worker manager.
package observability

import (
	"context"
	"errors"
	"io"
	"time"

	"supplement-workers/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type Options struct {
	ServiceName    string
	TracingEnabled bool
	// TraceWriter receives exported spans. Defaults to stdout.
	TraceWriter io.Writer
}

type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
	jobs           *jobInstruments
}

// New never fails: a component that cannot be initialised is logged and
// left disabled.
func New(opts Options, log logger.Logger) *Observability {
	o := &Observability{tracer: otel.Tracer(opts.ServiceName)}

	mp, jobs, err := newMeterProvider(opts.ServiceName)
	if err != nil {
		log.Warn("otel metrics disabled", map[string]interface{}{"error": err})
	} else {
		o.meterProvider = mp
		o.jobs = jobs
	}

	if !opts.TracingEnabled {
		return o
	}

	exporterOpts := []stdouttrace.Option{}
	if opts.TraceWriter != nil {
		exporterOpts = append(exporterOpts, stdouttrace.WithWriter(opts.TraceWriter))
	}
	exporter, err := stdouttrace.New(exporterOpts...)
	if err != nil {
		log.Warn("otel tracing disabled", map[string]interface{}{"error": err})
		return o
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", opts.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	o.tracerProvider = tp
	o.tracer = tp.Tracer(opts.ServiceName)
	return o
}

// StartSpan starts a span named after the job's task type.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	if o.tracerProvider != nil {
		errs = append(errs, o.tracerProvider.Shutdown(ctx))
	}
	if o.meterProvider != nil {
		errs = append(errs, o.meterProvider.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
