// Package telemetry provides the observability layer for Galley:
// structured logging backed by zerolog, Prometheus metrics, and a
// synchronous event publisher with typed helpers for the compile
// lifecycle.
//
// The compiler itself only knows the compile.EventSink interface;
// CompileSink adapts the publisher and metrics collector to it, so
// external progress reporting never leaks into ordering logic.
//
// Typical wiring:
//
//	cfg := telemetry.DefaultConfig()
//	logger, _ := telemetry.NewLogger(cfg.Logging)
//	metrics, _ := telemetry.NewMetrics(cfg.Metrics)
//	pub := telemetry.NewEventPublisher(cfg.Events)
//	pub.Subscribe(func(e telemetry.Event) { ... }, nil)
//	sink := telemetry.NewCompileSink(runID, pub, metrics)
package telemetry
