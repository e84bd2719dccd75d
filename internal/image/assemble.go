package image

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/keyshard/forge/internal/command"
	"github.com/keyshard/forge/internal/paths"
	"github.com/keyshard/forge/internal/platform"
)

// Container build CLI driven by the assembler.
const buildCLI = "docker"

// Controls one image assembly.
type Options struct {
	Plan      Plan
	Tag       string // Tag for the runtime image.
	ExportTag string // Tag for the export-artifacts side image. Defaults to Tag + "-build-artifacts".
	Context   string // Build context directory.
	BuildFile string // Build file path. Rendered from the plan when empty.
}

// Tagged images produced by a successful assembly.
type Reference struct {
	Image       string // Runtime image reference.
	ExportImage string // Export-artifacts image reference, usable as a future cache source.
	BuildFile   string // Path of the build file that was used.
}

// Runs the staged image build.
//
// The plan is validated first; a plan that would leak source or caches
// into the runtime stage never reaches the build CLI. When no build file
// is given the plan is rendered to one under the forge state directory.
// The runtime stage is built and tagged first, then the export stage is
// tagged as a side artifact for future cache warming. Either build
// failing aborts the assembly with nothing newly tagged.
func Assemble(ctx context.Context, runner command.Runner, opts Options) (*Reference, error) {
	if err := opts.Plan.Validate(); err != nil {
		return nil, err
	}
	if opts.Tag == "" {
		return nil, fmt.Errorf("%w: no image tag", ErrAssembly)
	}
	if opts.ExportTag == "" {
		opts.ExportTag = opts.Tag + "-build-artifacts"
	}
	if opts.Context == "" {
		opts.Context = "."
	}

	buildFile := opts.BuildFile
	if buildFile == "" {
		var err error
		buildFile, err = writeBuildFile(opts.Plan)
		if err != nil {
			return nil, err
		}
	}

	if err := buildStage(ctx, runner, buildFile, StageRuntime, opts.Tag, opts.Context); err != nil {
		return nil, err
	}
	if err := buildStage(ctx, runner, buildFile, StageExport, opts.ExportTag, opts.Context); err != nil {
		return nil, err
	}

	slog.Info("image assembled", "image", opts.Tag, "export", opts.ExportTag)
	return &Reference{
		Image:       opts.Tag,
		ExportImage: opts.ExportTag,
		BuildFile:   buildFile,
	}, nil
}

// Builds and tags a single stage of the build file.
func buildStage(ctx context.Context, runner command.Runner, buildFile, stage, tag, contextDir string) error {
	res, err := runner.Run(ctx, command.Invocation{
		Name: buildCLI,
		Args: []string{
			"build",
			"--platform", platform.TargetPlatform,
			"--file", buildFile,
			"--target", stage,
			"--tag", tag,
			contextDir,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: stage %s: %v", ErrAssembly, stage, err)
	}
	if res.ExitCode != 0 {
		return fmt.Errorf("%w: stage %s exited %d: %s", classify(res.Stderr), stage, res.ExitCode, res.Stderr)
	}
	return nil
}

// Maps a failed build's output onto the error taxonomy. Unrecognized
// failures fall back to the generic assembly error.
func classify(stderr string) error {
	switch {
	case strings.Contains(stderr, "failed to compute cache key") ||
		strings.Contains(stderr, "file not found") ||
		strings.Contains(stderr, "not found in build context"):
		return ErrMissingCopySource
	case strings.Contains(stderr, "apt-get install") ||
		strings.Contains(stderr, "Unable to locate package"):
		return ErrPackageInstall
	case strings.Contains(stderr, "failed to resolve source metadata") ||
		strings.Contains(stderr, "pull access denied") ||
		strings.Contains(stderr, "manifest unknown"):
		return ErrBaseImagePull
	default:
		return ErrAssembly
	}
}

// Renders the plan to a build file under the forge state directory.
func writeBuildFile(plan Plan) (string, error) {
	dir := paths.BuildFiles()
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssembly, err)
	}

	file := filepath.Join(dir, "Dockerfile")
	if err := os.WriteFile(file, []byte(plan.Render()), paths.DefaultFileMode); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	return file, nil
}

// Seeds the build context's cache directory from a previous
// export-artifacts image.
//
// Best effort by design: when no export image is present locally the
// warm-up is skipped and the build proceeds cold. A cache miss is not an
// error. Any partially created helper container is removed.
func WarmCache(ctx context.Context, runner command.Runner, exportImage, contextDir string) {
	create, err := runner.Run(ctx, command.Invocation{
		Name: buildCLI,
		Args: []string{"create", exportImage},
	})
	if err != nil || create.ExitCode != 0 {
		slog.Debug("no dependency cache to warm from", "image", exportImage)
		return
	}
	id := strings.TrimSpace(create.Stdout)
	defer runner.Run(ctx, command.Invocation{Name: buildCLI, Args: []string{"rm", id}})

	dest := filepath.Join(contextDir, CacheDir)
	cp, err := runner.Run(ctx, command.Invocation{
		Name: buildCLI,
		Args: []string{"cp", id + ":/target", dest},
	})
	if err != nil || cp.ExitCode != 0 {
		slog.Debug("dependency cache copy failed; building cold", "image", exportImage)
		return
	}

	slog.Info("dependency cache warmed", "image", exportImage, "dest", dest)
}
