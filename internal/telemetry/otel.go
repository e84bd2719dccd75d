package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
)

// Service name attached to exported spans.
const serviceName = "forge"

// No-op shutdown returned when tracing is disabled.
func noopShutdown(context.Context) error { return nil }

// Installs the global tracer provider and returns its shutdown function.
//
// endpoint selects the OTLP gRPC collector; when empty and debug is set,
// spans go to stdout instead. With neither, tracing is left disabled and
// the returned shutdown is a no-op.
func Init(ctx context.Context, endpoint string, debug bool) (func(context.Context) error, error) {
	exporter, err := newExporter(ctx, endpoint, debug)
	if err != nil {
		return nil, err
	}
	if exporter == nil {
		return noopShutdown, nil
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(time.Second)),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		)),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

func newExporter(ctx context.Context, endpoint string, debug bool) (sdktrace.SpanExporter, error) {
	switch {
	case endpoint != "":
		return otlptracegrpc.New(ctx,
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithEndpoint(endpoint),
		)
	case debug:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, nil
	}
}
