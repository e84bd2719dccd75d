// Configures trace export for pipeline runs.
//
// When an OTLP endpoint is configured, stage spans are exported over
// gRPC; in debug mode without an endpoint they are pretty-printed to
// stdout; otherwise tracing stays disabled. Telemetry failures never
// fail a build.
package telemetry
