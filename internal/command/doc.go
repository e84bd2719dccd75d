// Runs external toolchain and container-build commands.
//
// The pipeline drives cargo, rustup, and the container build CLI through
// the [Runner] interface so command-heavy components can be tested against
// a fake. A non-zero exit code is not an error at this layer; callers
// inspect [Result.ExitCode] and decide, the same split the container
// runtime uses for in-container execs.
package command
