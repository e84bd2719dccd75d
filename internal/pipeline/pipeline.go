package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/keyshard/forge/internal/builder"
	"github.com/keyshard/forge/internal/command"
	"github.com/keyshard/forge/internal/image"
	"github.com/keyshard/forge/internal/paths"
	"github.com/keyshard/forge/internal/platform"
	"github.com/keyshard/forge/internal/toolchain"
)

// Tracer for pipeline stage spans.
var tracer = otel.Tracer("forge/pipeline")

// Controls one pipeline run.
type Options struct {
	Package   string // Cargo package to build. Defaults to the builder default.
	Root      string // Source tree root and image build context.
	Tag       string // Runtime image tag.
	BuildFile string // Optional pre-authored build file; rendered from the plan when empty.
	SkipWarm  bool   // Skip dependency-cache warming.
}

// Outcome of a successful run.
type Result struct {
	BuildID    string
	Artifact   *builder.Artifact
	Reference  *image.Reference
	Provenance string // Path of the written provenance record.
}

// Runs the full release pipeline: detect, configure, build, assemble.
//
// Stages run strictly in order and the first failure aborts the run; in
// particular a failed compilation means the image assembler never
// executes. Returns only after the runtime image and its export-stage
// side artifact are tagged and the provenance record is written.
func Run(ctx context.Context, runner command.Runner, opts Options) (*Result, error) {
	buildID := uuid.NewString()

	ctx, span := tracer.Start(ctx, "release",
		trace.WithAttributes(attribute.String("build.id", buildID)))
	defer span.End()

	slog.Info("starting release pipeline", "build_id", buildID, "tag", opts.Tag)

	profile := detect(ctx)
	bindings := configure(ctx, profile)

	artifact, err := buildStage(ctx, runner, profile, bindings, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	ref, err := assembleStage(ctx, runner, artifact, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	provenance, err := writeProvenance(buildID, ref)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	slog.Info("release pipeline complete", "build_id", buildID, "image", ref.Image)
	return &Result{
		BuildID:    buildID,
		Artifact:   artifact,
		Reference:  ref,
		Provenance: provenance,
	}, nil
}

func detect(ctx context.Context) platform.Profile {
	_, span := tracer.Start(ctx, "detect")
	defer span.End()

	profile := platform.Detect()
	span.SetAttributes(
		attribute.String("host.os", string(profile.Host())),
		attribute.String("target.triple", profile.Target()),
	)

	slog.Info("host profile resolved",
		"host", profile.Host(),
		"target", profile.Target(),
		"cross", len(profile.Bindings()) > 0,
	)
	return profile
}

func configure(ctx context.Context, profile platform.Profile) toolchain.Bindings {
	_, span := tracer.Start(ctx, "configure")
	defer span.End()

	bindings := toolchain.Configure(profile)
	if !bindings.Empty() {
		slog.Info("cross toolchain configured", "env", bindings.Environ())
	}
	return bindings
}

func buildStage(ctx context.Context, runner command.Runner, profile platform.Profile, bindings toolchain.Bindings, opts Options) (*builder.Artifact, error) {
	ctx, span := tracer.Start(ctx, "build")
	defer span.End()

	return builder.Build(ctx, runner, profile, builder.Options{
		Package:  opts.Package,
		Root:     opts.Root,
		Bindings: bindings,
	})
}

func assembleStage(ctx context.Context, runner command.Runner, artifact *builder.Artifact, opts Options) (*image.Reference, error) {
	ctx, span := tracer.Start(ctx, "assemble")
	defer span.End()

	assembleOpts := image.Options{
		Plan:      image.DefaultPlan(artifact.Package),
		Tag:       opts.Tag,
		Context:   opts.Root,
		BuildFile: opts.BuildFile,
	}

	if !opts.SkipWarm {
		exportTag := opts.Tag + "-build-artifacts"
		image.WarmCache(ctx, runner, exportTag, opts.Root)
	}

	return image.Assemble(ctx, runner, assembleOpts)
}

func writeProvenance(buildID string, ref *image.Reference) (string, error) {
	record, err := image.NewProvenance(buildID, ref)
	if err != nil {
		return "", err
	}

	dir := paths.Builds()
	if err := os.MkdirAll(dir, paths.DefaultDirMode); err != nil {
		return "", err
	}

	path := filepath.Join(dir, buildID+".json")
	if err := record.Write(path); err != nil {
		return "", err
	}
	return path, nil
}
