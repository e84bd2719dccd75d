package image

import (
	"fmt"
	"path"
	"strings"
)

// Fixed stage names, in build order.
const (
	StageBuilder = "builder"
	StageExport  = "export-artifacts"
	StageRuntime = "runtime"
)

// Defaults for the staged build.
const (
	builderBase = "rust:1.75-bookworm"
	exportBase  = "scratch"
	runtimeBase = "debian:bookworm-slim"

	// Workdir of the builder stage; the source tree is copied here.
	buildRoot = "/keyshard"

	// Directory inside the build context holding a pre-warmed target
	// cache from a previous export-artifacts image. Optional.
	CacheDir = "target-cache"

	// Cargo registry path inside the builder base image.
	cargoRegistry = "/usr/local/cargo/registry"
)

// File or directory brought into a stage.
//
// From names the source stage, or is empty for the host build context.
type Input struct {
	From string
	Src  string
	Dest string
}

// One stage of the staged image build.
type Stage struct {
	Name       string
	Base       string            // Base image, or "scratch".
	Packages   []string          // System packages installed before any other step.
	Workdir    string            // Working directory for copies and runs.
	Env        map[string]string // Environment set for the remainder of the stage.
	EnvOrder   []string          // Render order for Env keys.
	Inputs     []Input           // Copies into the stage, in order.
	Run        []string          // Shell commands, in order, after the copies.
	Entrypoint []string          // Container entrypoint; only the runtime stage sets one.
}

// Ordered stages of one image build.
type Plan struct {
	Stages []Stage
}

// The staged build for a compiled release binary.
//
// The builder compiles the named package with incremental compilation
// disabled, seeding target/ from the pre-warmed cache directory when one
// was copied into the context, and strips the cache directory out of the
// final builder layer. The export stage carries the target directory and
// cargo registry for future cache warming. The runtime stage receives
// only the compiled binary.
func DefaultPlan(pkg string) Plan {
	binary := path.Join(buildRoot, "target", "release", pkg)

	return Plan{Stages: []Stage{
		{
			Name:     StageBuilder,
			Base:     builderBase,
			Packages: []string{"protobuf-compiler", "libprotobuf-dev"},
			Workdir:  buildRoot,
			Env:      map[string]string{"CARGO_INCREMENTAL": "0"},
			EnvOrder: []string{"CARGO_INCREMENTAL"},
			Inputs:   []Input{{Src: ".", Dest: "."}},
			Run: []string{
				fmt.Sprintf("if [ -d %s ]; then cp -r %s target; fi", CacheDir, CacheDir),
				"cargo build --release --package " + pkg,
				"rm -rf " + CacheDir,
			},
		},
		{
			Name: StageExport,
			Base: exportBase,
			Inputs: []Input{
				{From: StageBuilder, Src: path.Join(buildRoot, "target"), Dest: "/target"},
				{From: StageBuilder, Src: cargoRegistry, Dest: "/cargo-registry"},
			},
		},
		{
			Name:     StageRuntime,
			Base:     runtimeBase,
			Packages: []string{"libssl3", "ca-certificates"},
			Inputs: []Input{
				{From: StageBuilder, Src: binary, Dest: "/usr/local/bin/" + pkg},
			},
			Entrypoint: []string{"/usr/local/bin/" + pkg},
		},
	}}
}

// Checks the plan's structural invariants.
//
// The stage sequence is fixed: builder, export-artifacts, runtime. Copy
// sources may only name earlier stages. The runtime stage must reference
// nothing but the builder's compiled-binary output: no host paths, no
// source tree, no package caches. The export stage likewise copies only
// from the builder.
func (p Plan) Validate() error {
	if len(p.Stages) != 3 {
		return fmt.Errorf("%w: %d stages, want 3", ErrPlan, len(p.Stages))
	}
	for i, want := range []string{StageBuilder, StageExport, StageRuntime} {
		if p.Stages[i].Name != want {
			return fmt.Errorf("%w: stage %d is %q, want %q", ErrPlan, i, p.Stages[i].Name, want)
		}
	}

	built := map[string]bool{}
	for _, stage := range p.Stages {
		for _, in := range stage.Inputs {
			if in.From != "" && !built[in.From] {
				return fmt.Errorf("%w: stage %q copies from unknown stage %q", ErrPlan, stage.Name, in.From)
			}
		}
		built[stage.Name] = true
	}

	if err := p.validateExport(); err != nil {
		return err
	}
	return p.validateRuntime()
}

func (p Plan) validateExport() error {
	for _, in := range p.Stages[1].Inputs {
		if in.From != StageBuilder {
			return fmt.Errorf("%w: export stage copies from %q, want %q only", ErrPlan, in.From, StageBuilder)
		}
	}
	return nil
}

// The runtime stage keeps the minimal image surface: its only permitted
// inputs are binaries under the builder's release output directory.
func (p Plan) validateRuntime() error {
	runtime := p.Stages[2]
	if len(runtime.Inputs) == 0 {
		return fmt.Errorf("%w: runtime stage has no binary input", ErrPlan)
	}

	releaseDir := path.Join(buildRoot, "target", "release") + "/"
	for _, in := range runtime.Inputs {
		if in.From != StageBuilder {
			return fmt.Errorf("%w: runtime stage input %q does not come from the builder stage", ErrPlan, in.Src)
		}
		if !strings.HasPrefix(in.Src, releaseDir) {
			return fmt.Errorf("%w: runtime stage input %q is not a compiled-binary output", ErrPlan, in.Src)
		}
	}

	if len(runtime.Entrypoint) == 0 {
		return fmt.Errorf("%w: runtime stage has no entrypoint", ErrPlan)
	}
	return nil
}
