// Detects the build host and selects a toolchain profile.
//
// Release binaries are always compiled for the fixed Linux deployment
// target, so the host only determines how the compiler is driven: a Linux
// host uses its native toolchain unmodified, while a Darwin host needs a
// cross toolchain with explicit linker, compiler, and archiver bindings.
// Unknown hosts fall back to the native profile; guessing a toolchain for
// them is out of scope.
//
// The profile is resolved once per build invocation and passed by value
// through the pipeline. Nothing in this package touches process state.
package platform
