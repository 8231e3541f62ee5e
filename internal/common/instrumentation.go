package common

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	metric2 "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
)

// InitInstrumentation setups otel
func InitInstrumentation(serviceName, serviceVersion, serviceEnvironment, exporterEndpoint string) (func(ctx context.Context), error) {

	res, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironmentName(serviceEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to merge otel resource: %w", err)
	}

	// Metric exporter
	metricExporter, err := otlpmetricgrpc.New(
		context.Background(),
		otlpmetricgrpc.WithInsecure(),
		otlpmetricgrpc.WithEndpoint(exporterEndpoint),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	metricsProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(30*time.Second))),
	)
	otel.SetMeterProvider(metricsProvider)

	err = createCustomMeters(serviceName, serviceVersion, serviceEnvironment)
	if err != nil {
		_ = metricsProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create custom meters: %w", err)
	}

	// Trace exporter
	traceExporter, err := otlptracegrpc.New(
		context.Background(),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithEndpoint(exporterEndpoint),
	)
	if err != nil {
		_ = metricsProvider.Shutdown(context.Background())
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	traceProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(traceProvider)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return func(ctx context.Context) {
		_ = metricsProvider.Shutdown(ctx)
		_ = traceProvider.Shutdown(ctx)
	}, nil
}

// CacheGetsTotalIncr increases in 1 a metric for tracking cache hits and misses
var CacheGetsTotalIncr = func(ctx context.Context, keyPrefix, result string) {}

// UnmatchedIDsTotalIncr increases in 1 a metric for tracking identifiers a resolver could not match
var UnmatchedIDsTotalIncr = func(ctx context.Context, resolver string) {}

// ResourceRequestsTotalIncr increases in 1 a metric for tracking resolved resource requests by outcome
var ResourceRequestsTotalIncr = func(ctx context.Context, resource, contentType, outcome string) {}

func createCustomMeters(serviceName, serviceVersion, serviceEnvironment string) error {
	meter := otel.Meter(serviceName)
	commonAttributes := []attribute.KeyValue{
		attribute.String(string(semconv.DeploymentEnvironmentNameKey), serviceEnvironment),
		attribute.String(string(semconv.ServiceVersionKey), serviceVersion),
	}

	cacheGetsTotal, err := meter.Int64Counter("cache_gets_total")
	if err != nil {
		return fmt.Errorf("failed to create custom meter: %w", err)
	}
	CacheGetsTotalIncr = func(ctx context.Context, keyPrefix, result string) {
		cacheGetsTotal.Add(ctx, 1, metric2.WithAttributes(append(commonAttributes,
			attribute.String("key.prefix", keyPrefix),
			attribute.String("result", result),
		)...))
	}

	unmatchedIDsTotal, err := meter.Int64Counter("resolver_unmatched_ids_total")
	if err != nil {
		return fmt.Errorf("failed to create custom meter: %w", err)
	}
	UnmatchedIDsTotalIncr = func(ctx context.Context, resolver string) {
		unmatchedIDsTotal.Add(ctx, 1, metric2.WithAttributes(append(commonAttributes,
			attribute.String("resolver", resolver),
		)...))
	}

	resourceRequestsTotal, err := meter.Int64Counter("resource_requests_total")
	if err != nil {
		return fmt.Errorf("failed to create custom meter: %w", err)
	}
	ResourceRequestsTotalIncr = func(ctx context.Context, resource, contentType, outcome string) {
		resourceRequestsTotal.Add(ctx, 1, metric2.WithAttributes(append(commonAttributes,
			attribute.String("resource", resource),
			attribute.String("type", contentType),
			attribute.String("outcome", outcome),
		)...))
	}

	return nil
}
