package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/typeioc/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the embedding application.
	ServiceName string
	// ServiceVersion is the version of the embedding application.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// ResolutionMetrics holds the instruments recorded by the container.
type ResolutionMetrics struct {
	resolveTotal     metric.Int64Counter
	resolveDuration  metric.Float64Histogram
	resolveErrors    metric.Int64Counter
	instancesCreated metric.Int64Counter
}

// NewResolutionMetrics creates metric instruments on the given meter.
func NewResolutionMetrics(meter metric.Meter) (*ResolutionMetrics, error) {
	resolveTotal, err := meter.Int64Counter("di.resolve.total",
		metric.WithDescription("Total number of container resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolve.total counter: %w", err)
	}

	resolveDuration, err := meter.Float64Histogram("di.resolve.duration",
		metric.WithDescription("Duration of container resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolve.duration histogram: %w", err)
	}

	resolveErrors, err := meter.Int64Counter("di.resolve.errors",
		metric.WithDescription("Failed container resolutions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.resolve.errors counter: %w", err)
	}

	instancesCreated, err := meter.Int64Counter("di.instances.created",
		metric.WithDescription("Instances constructed by the container"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating di.instances.created counter: %w", err)
	}

	return &ResolutionMetrics{
		resolveTotal:     resolveTotal,
		resolveDuration:  resolveDuration,
		resolveErrors:    resolveErrors,
		instancesCreated: instancesCreated,
	}, nil
}

// RecordResolve records one top-level resolution.
func (m *ResolutionMetrics) RecordResolve(ctx context.Context, typeName, scope string, duration time.Duration, errCode string) {
	status := "ok"
	if errCode != "" {
		status = "error"
	}
	m.resolveTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", typeName),
		attribute.String("scope", scope),
		attribute.String("status", status),
	))
	m.resolveDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("type", typeName),
	))
	if errCode != "" {
		m.resolveErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("type", typeName),
			attribute.String("code", errCode),
		))
	}
}

// RecordInstanceCreated records a construction performed by the container.
func (m *ResolutionMetrics) RecordInstanceCreated(ctx context.Context, typeName string) {
	m.instancesCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", typeName),
	))
}
