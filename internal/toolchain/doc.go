// Turns a toolchain profile into explicit environment bindings.
//
// The bindings are a plain value passed into the build invocation rather
// than process-wide environment mutation, so two builds in the same
// process cannot race on shared state and nothing leaks into unrelated
// child processes. Configure is idempotent: applying a profile twice
// yields identical bindings with no accumulated link flags.
//
// Configure performs no existence checks on the bound executables; a
// missing cross compiler is reported by the builder, which fails fast
// before invoking compilation.
package toolchain
