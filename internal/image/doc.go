// Assembles the runtime container image through a staged build.
//
// A plan is an ordered sequence of three stages. The builder stage starts
// from a full toolchain base, installs compiler-level dependencies, copies
// the source tree plus an optional pre-warmed dependency cache, and runs
// the release compilation with incremental output disabled. The
// export-artifacts stage starts from an empty base and carries out only
// the compiled target directory and package caches, so a later build can
// warm its cache from the image without shipping any of it. The runtime
// stage copies solely the compiled binary onto a slim base with the
// runtime shared libraries it needs.
//
// Stages are dispatched to the container build CLI with one invocation
// per exported stage. Any stage failure aborts the assembly; the CLI only
// tags images on success, so a failed build never publishes anything.
package image
