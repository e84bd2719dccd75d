package command

import (
	"context"
	"fmt"
	"strings"
)

// Scripted runner for tests.
//
// Responses are matched by command name; unmatched commands succeed with
// exit code zero. Every invocation is recorded in order.
type FakeRunner struct {
	Responses map[string]FakeResponse
	Missing   map[string]bool // Executables LookPath reports as absent.
	Calls     []Invocation
}

// Scripted outcome for one command name.
type FakeResponse struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (f *FakeRunner) Run(_ context.Context, inv Invocation) (*Result, error) {
	f.Calls = append(f.Calls, inv)

	resp, ok := f.Responses[inv.Name]
	if !ok {
		return &Result{}, nil
	}
	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Result{
		ExitCode: resp.ExitCode,
		Stdout:   resp.Stdout,
		Stderr:   resp.Stderr,
	}, nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Returns the recorded invocations of the named command.
func (f *FakeRunner) CallsTo(name string) []Invocation {
	var calls []Invocation
	for _, inv := range f.Calls {
		if inv.Name == name {
			calls = append(calls, inv)
		}
	}
	return calls
}

// Whether any recorded invocation of name carries all the given argument
// tokens, in order, as a contiguous run.
func (f *FakeRunner) Invoked(name string, tokens ...string) bool {
	joined := " " + strings.Join(tokens, " ") + " "
	for _, inv := range f.CallsTo(name) {
		line := " " + strings.Join(inv.Args, " ") + " "
		if strings.Contains(line, joined) {
			return true
		}
	}
	return false
}
