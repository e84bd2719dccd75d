// Orchestrates the release pipeline.
//
// One run is a strictly sequential chain: detect the host profile,
// derive toolchain bindings, compile the release binary, assemble the
// runtime image. Each stage blocks until complete and any failure aborts
// the remaining stages immediately; a partially built artifact must
// never be mistaken for a valid release, so there is no retry and no
// recovery. Stage timings are exported as trace spans.
//
// The toolchain bindings travel with the run as a value, so two runs in
// separate processes cannot interfere. Concurrent runs inside one
// process are not supported; isolation between simultaneous builds on a
// host is the operator's responsibility.
package pipeline
