package command

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"
)

// Output of a completed command.
type Result struct {
	ExitCode int    // Exit code of the process.
	Stdout   string // Captured standard output.
	Stderr   string // Captured standard error.
}

// Describes a single command invocation.
//
// Env entries are appended to the parent environment; Dir is the working
// directory, empty meaning the current one.
type Invocation struct {
	Name string
	Args []string
	Env  []string
	Dir  string
}

// Executes external commands on behalf of the pipeline.
type Runner interface {

	// Runs the command and waits for it to exit. Returns an error only
	// when the command could not be started or was interrupted; a
	// non-zero exit code is reported via the result.
	Run(ctx context.Context, inv Invocation) (*Result, error)

	// Resolves an executable name against PATH.
	LookPath(name string) (string, error)
}

// Runner backed by os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, inv Invocation) (*Result, error) {
	slog.Debug("run", "command", inv.Name, "args", inv.Args, "dir", inv.Dir)

	cmd := exec.CommandContext(ctx, inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
	}

	return &Result{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
