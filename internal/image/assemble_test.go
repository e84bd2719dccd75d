package image

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/keyshard/forge/internal/command"
)

func tempBuildFile(t *testing.T) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "Dockerfile")
	if err := os.WriteFile(file, []byte(DefaultPlan("keyshard-node").Render()), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestAssembleTagsRuntimeAndExport(t *testing.T) {
	runner := &command.FakeRunner{}

	ref, err := Assemble(context.Background(), runner, Options{
		Plan:      DefaultPlan("keyshard-node"),
		Tag:       "registry.example.com/keyshard/node:dev",
		Context:   ".",
		BuildFile: tempBuildFile(t),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ref.Image != "registry.example.com/keyshard/node:dev" {
		t.Fatalf("image = %q, want the runtime tag", ref.Image)
	}
	if ref.ExportImage != "registry.example.com/keyshard/node:dev-build-artifacts" {
		t.Fatalf("export image = %q, want derived artifacts tag", ref.ExportImage)
	}

	if !runner.Invoked("docker", "--target", "runtime", "--tag", ref.Image) {
		t.Fatal("runtime stage was not built")
	}
	if !runner.Invoked("docker", "--target", "export-artifacts", "--tag", ref.ExportImage) {
		t.Fatal("export stage was not built")
	}
	if !runner.Invoked("docker", "--platform", "linux/amd64") {
		t.Fatal("build did not pin the target platform")
	}
}

func TestAssembleFailureAbortsBeforeExport(t *testing.T) {
	runner := &command.FakeRunner{Responses: map[string]command.FakeResponse{
		"docker": {ExitCode: 1, Stderr: "process \"/bin/sh -c cargo build\" did not complete"},
	}}

	_, err := Assemble(context.Background(), runner, Options{
		Plan:      DefaultPlan("keyshard-node"),
		Tag:       "keyshard:dev",
		BuildFile: tempBuildFile(t),
	})
	if !errors.Is(err, ErrAssembly) {
		t.Fatalf("err = %v, want ErrAssembly", err)
	}

	if calls := runner.CallsTo("docker"); len(calls) != 1 {
		t.Fatalf("docker invoked %d times after stage failure, want 1", len(calls))
	}
}

func TestAssembleRejectsInvalidPlan(t *testing.T) {
	p := DefaultPlan("keyshard-node")
	p.Stages[2].Inputs = append(p.Stages[2].Inputs, Input{Src: ".", Dest: "/src"})
	runner := &command.FakeRunner{}

	_, err := Assemble(context.Background(), runner, Options{Plan: p, Tag: "keyshard:dev"})
	if !errors.Is(err, ErrPlan) {
		t.Fatalf("err = %v, want ErrPlan", err)
	}
	if len(runner.Calls) != 0 {
		t.Fatal("build CLI ran for an invalid plan")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   error
	}{
		{
			name:   "missing copy source",
			stderr: `failed to compute cache key: "/keyshard-node": not found`,
			want:   ErrMissingCopySource,
		},
		{
			name:   "package install failure",
			stderr: "E: Unable to locate package libprotobuf-dev",
			want:   ErrPackageInstall,
		},
		{
			name:   "base image pull failure",
			stderr: "ERROR: failed to resolve source metadata for docker.io/library/rust:1.75-bookworm",
			want:   ErrBaseImagePull,
		},
		{
			name:   "unrecognized failure",
			stderr: "something else entirely",
			want:   ErrAssembly,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.stderr); got != tt.want {
				t.Fatalf("classify(%q) = %v, want %v", tt.stderr, got, tt.want)
			}
		})
	}
}

func TestWarmCacheMissIsNotAnError(t *testing.T) {
	runner := &command.FakeRunner{Responses: map[string]command.FakeResponse{
		"docker": {ExitCode: 1, Stderr: "No such image"},
	}}

	// Must not panic or fail; a cold build is acceptable.
	WarmCache(context.Background(), runner, "keyshard:dev-build-artifacts", t.TempDir())

	if calls := runner.CallsTo("docker"); len(calls) != 1 {
		t.Fatalf("docker invoked %d times on cache miss, want 1 (create only)", len(calls))
	}
}

func TestWarmCacheExtractsTargetDir(t *testing.T) {
	runner := &command.FakeRunner{Responses: map[string]command.FakeResponse{
		"docker": {Stdout: "abc123\n"},
	}}
	dir := t.TempDir()

	WarmCache(context.Background(), runner, "keyshard:dev-build-artifacts", dir)

	if !runner.Invoked("docker", "create", "keyshard:dev-build-artifacts") {
		t.Fatal("helper container was not created")
	}
	if !runner.Invoked("docker", "cp", "abc123:/target", filepath.Join(dir, CacheDir)) {
		t.Fatal("target dir was not copied out of the export image")
	}
	if !runner.Invoked("docker", "rm", "abc123") {
		t.Fatal("helper container was not removed")
	}
}
