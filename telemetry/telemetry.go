package telemetry

import (
	"context"
	"errors"
	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
	"go.opentelemetry.io/otel/trace"
	"os"
	"time"
)

const (
	systemName     = "tinysql"
	exportInterval = 60 * time.Second
)

type discardErrors struct{}

func (discardErrors) Handle(error) {}

// New installs OTLP/HTTP trace and metric pipelines for the process and returns
// the function that flushes them. An empty endpoint leaves the global no-op
// providers in place.
func New(service, version, endpoint string) (func(), error) {
	if endpoint == "" {
		return func() {}, nil
	}
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithHost(),
		resource.WithContainer(),
		resource.WithAttributes(semconv.ServiceNameKey.String(service), semconv.ServiceVersion(version)))
	if err != nil {
		return nil, err
	}

	tp, err := newTracerProvider(ctx, res, endpoint)
	if err != nil {
		return nil, err
	}
	mp, err := newMeterProvider(ctx, res, endpoint)
	if err != nil {
		return nil, errors.Join(err, tp.Shutdown(ctx))
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	otel.SetMeterProvider(mp)
	// an unreachable collector must not spill export errors onto stderr
	otel.SetErrorHandler(discardErrors{})

	return func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	}, nil
}

func newTracerProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpoint(endpoint), otlptracehttp.WithInsecure())
	if err != nil {
		return nil, err
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter), sdktrace.WithResource(res)), nil
}

func newMeterProvider(ctx context.Context, res *resource.Resource, endpoint string) (*sdkmetric.MeterProvider, error) {
	exporter, err := otlpmetrichttp.New(ctx, otlpmetrichttp.WithEndpoint(endpoint), otlpmetrichttp.WithInsecure())
	if err != nil {
		return nil, err
	}

	// gc count and pause time only exist in the deprecated runtime metrics
	os.Setenv("OTEL_GO_X_DEPRECATED_RUNTIME_METRICS", "true")
	if err := runtime.Start(runtime.WithMinimumReadMemStatsInterval(exportInterval)); err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter,
		sdkmetric.WithProducer(runtime.NewProducer()),
		sdkmetric.WithInterval(exportInterval))
	return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res), sdkmetric.WithReader(reader)), nil
}

// StartSpan starts a span tagged with the database system name.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append(opts, trace.WithAttributes(attribute.String("db.system.name", systemName)))
	return otel.Tracer(systemName).Start(ctx, name, opts...)
}

func Meter() otelmetric.Meter {
	return otel.Meter(systemName)
}
