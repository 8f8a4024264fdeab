// Package telemetry sets up OpenTelemetry tracing for a binary.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	applog "organicfoods/internal/log"
)

// Shutdown flushes pending spans.
type Shutdown func(context.Context) error

// Init installs the W3C propagator and, when endpoint is set, an OTLP gRPC exporter.
// Without an endpoint spans stay no-ops and Shutdown does nothing.
func Init(ctx context.Context, service, endpoint string) (Shutdown, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}
	tp := NewProvider(service, sdktrace.NewBatchSpanProcessor(exporter))
	otel.SetTracerProvider(tp)
	applog.Info(nil, "telemetry.init", map[string]any{"service": service, "endpoint": endpoint})
	return tp.Shutdown, nil
}

// NewProvider builds a provider that samples everything and reports as service.
func NewProvider(service string, sp sdktrace.SpanProcessor) *sdktrace.TracerProvider {
	res := resource.NewSchemaless(
		attribute.String("service.name", service),
		attribute.String("service.version", "v1.0.0"),
	)
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(sp),
	)
}
