package cli

import (
	"context"
	"log/slog"

	"github.com/keyshard/forge/internal/command"
	"github.com/keyshard/forge/internal/pipeline"
	"github.com/keyshard/forge/internal/telemetry"
)

// Represents the 'forge release' command.
//
// All inputs are environment-variable driven so the command can run
// unmodified in CI: FORGE_TAG names the runtime image, FORGE_PACKAGE
// overrides the cargo package, FORGE_ROOT the source tree,
// FORGE_BUILD_FILE a pre-authored build file, and FORGE_OTLP_ENDPOINT a
// trace collector for stage spans.
type ReleaseCmd struct {
	Tag       string `env:"FORGE_TAG" default:"keyshard/node:latest" help:"Tag for the runtime image."`
	Package   string `env:"FORGE_PACKAGE" help:"Cargo package to build."`
	Root      string `env:"FORGE_ROOT" default:"." help:"Source tree root and build context."`
	BuildFile string `env:"FORGE_BUILD_FILE" help:"Pre-authored container build file." placeholder:"PATH"`
	Endpoint  string `env:"FORGE_OTLP_ENDPOINT" help:"OTLP gRPC endpoint for pipeline traces." placeholder:"HOST:PORT"`
	ColdCache bool   `env:"FORGE_COLD_CACHE" help:"Skip dependency-cache warming."`
}

// Executes the release command.
//
// Runs the full pipeline and exits non-zero on the first stage failure.
func (c *ReleaseCmd) Run(ctx context.Context) error {
	shutdown, err := telemetry.Init(ctx, c.Endpoint, debugEnabled())
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("trace export shutdown failed", "error", err)
		}
	}()

	result, err := pipeline.Run(ctx, command.ExecRunner{}, pipeline.Options{
		Package:   c.Package,
		Root:      c.Root,
		Tag:       c.Tag,
		BuildFile: c.BuildFile,
		SkipWarm:  c.ColdCache,
	})
	if err != nil {
		return err
	}

	slog.Info("release ready",
		"image", result.Reference.Image,
		"cache_image", result.Reference.ExportImage,
		"provenance", result.Provenance,
	)
	return nil
}
