package builder

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/keyshard/forge/internal/command"
	"github.com/keyshard/forge/internal/platform"
	"github.com/keyshard/forge/internal/toolchain"
)

// Default cargo package compiled when no override is given.
const DefaultPackage = "keyshard-node"

// Controls a release build.
type Options struct {
	Package  string             // Cargo package to compile. Defaults to [DefaultPackage].
	Root     string             // Source tree root. Defaults to the current directory.
	Bindings toolchain.Bindings // Toolchain bindings for this invocation.
}

// Compiled release binary, ready for image assembly.
//
// Never mutated after creation; ownership passes to the image stage.
type Artifact struct {
	BinaryPath   string // Host path of the compiled binary.
	Package      string // Cargo package the binary was built from.
	TargetTriple string // Triple the binary was compiled for.
}

// Compiles the release binary for the profile's target.
//
// Fails fast with [ErrToolchainMissing] when a cross profile binds an
// executable that does not resolve. Target standard-library support is
// installed first; rustup treats a re-install as a no-op, so the step is
// safe to repeat. Compilation runs in release mode for exactly one
// package. Any failure aborts the build with no artifact.
func Build(ctx context.Context, runner command.Runner, profile platform.Profile, opts Options) (*Artifact, error) {
	if opts.Package == "" {
		opts.Package = DefaultPackage
	}

	if err := resolveToolchain(runner, opts.Bindings); err != nil {
		return nil, err
	}

	if err := addTarget(ctx, runner, profile, opts); err != nil {
		return nil, err
	}

	if err := compile(ctx, runner, profile, opts); err != nil {
		return nil, err
	}

	artifact := &Artifact{
		BinaryPath:   filepath.Join(opts.Root, "target", profile.Target(), "release", opts.Package),
		Package:      opts.Package,
		TargetTriple: profile.Target(),
	}

	slog.Info("release binary built",
		"package", artifact.Package,
		"target", artifact.TargetTriple,
		"binary", artifact.BinaryPath,
	)
	return artifact, nil
}

// Verifies that every executable the bindings name resolves on PATH.
//
// The configurator defers existence checks to this point so a missing
// cross compiler surfaces before any compilation work starts.
func resolveToolchain(runner command.Runner, bindings toolchain.Bindings) error {
	for _, exe := range bindings.Executables() {
		if _, err := runner.LookPath(exe); err != nil {
			return fmt.Errorf("%w: %s", ErrToolchainMissing, exe)
		}
	}
	return nil
}

// Installs standard-library support for the target triple. Idempotent.
func addTarget(ctx context.Context, runner command.Runner, profile platform.Profile, opts Options) error {
	res, err := runner.Run(ctx, command.Invocation{
		Name: "rustup",
		Args: []string{"target", "add", profile.Target()},
		Dir:  opts.Root,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyInstall, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: rustup exited %d: %s", ErrDependencyInstall, res.ExitCode, res.Stderr)
	}
	return nil
}

// Runs the optimized release compilation for the target triple.
func compile(ctx context.Context, runner command.Runner, profile platform.Profile, opts Options) error {
	res, err := runner.Run(ctx, command.Invocation{
		Name: "cargo",
		Args: []string{"build", "--release", "--package", opts.Package, "--target", profile.Target()},
		Env:  opts.Bindings.Environ(),
		Dir:  opts.Root,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCompilation, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: cargo exited %d: %s", ErrCompilation, res.ExitCode, res.Stderr)
	}
	return nil
}
