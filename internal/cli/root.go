package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/keyshard/forge/internal"
)

// Represents the root command for the forge CLI.
var RootCmd struct {
	Quiet   bool       `short:"q" help:"Suppress informational output."`
	Verbose bool       `short:"v" help:"Enable verbose output."`
	Debug   bool       `short:"d" help:"Enable debug output."`
	Release ReleaseCmd `cmd:"" help:"Build the release binary and assemble the runtime image."`
	Params  ParamsCmd  `cmd:"" help:"Work with deployment parameter files."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Build-and-release pipeline for the keyshard signing service.\n\nCompiles the release binary for the fixed deployment target and packages it into a minimal runtime image."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
//
// Verbose mode adds source locations to every record.
func configureLogger() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     logLevel(),
		AddSource: RootCmd.Verbose || internal.IsVerbose(),
	})
	slog.SetDefault(slog.New(handler).WithGroup(internal.Name))
}

// Effective log level from CLI flags and build-time defaults.
func logLevel() slog.Level {
	switch {
	case RootCmd.Debug || internal.IsDebug():
		return slog.LevelDebug
	case RootCmd.Quiet || internal.IsQuiet():
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// Whether debug output is in effect for this invocation.
func debugEnabled() bool {
	return RootCmd.Debug || internal.IsDebug()
}
