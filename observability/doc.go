// Package observability provides OpenTelemetry tracing and metrics for the
// typeioc container.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("my-app"))
//	defer tp.Shutdown(ctx)
//
//	c := di.New(di.WithTracer(observability.Tracer(observability.DefaultTracerName)))
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("my-app"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewResolutionMetrics(observability.Meter("typeioc"))
//	c := di.New(di.WithMetrics(metrics))
package observability
