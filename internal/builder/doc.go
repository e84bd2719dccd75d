// Compiles the signing-service release binary for the deployment target.
//
// The builder resolves the cross toolchain (failing fast when a bound
// executable is missing), installs standard-library support for the
// target triple, and runs an optimized release compilation of exactly one
// cargo package. The build is atomic from the caller's perspective: a
// complete artifact is returned or an error is, never a partial binary.
// Every error is fatal to the pipeline; there is no retry.
package builder
