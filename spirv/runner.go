package spirv

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is the captured result of one tool invocation.
type Output struct {
	Stdout  []byte
	Stderr  []byte
	Success bool
}

// Runner runs an external tool to completion. argv[0] is the program, which
// is looked up through PATH when it has no path separator.
//
// A tool that runs and exits with a failure status is reported through
// Output.Success; the returned error is reserved for failures to start or
// wait for the process.
type Runner interface {
	Run(ctx context.Context, argv []string) (*Output, error)
}

// ExecRunner runs tools with os/exec. The context is not used to kill the
// process: a tool that hangs blocks the caller.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(_ context.Context, argv []string) (*Output, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command line")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return nil, err
	}
	return &Output{
		Stdout:  stdout.Bytes(),
		Stderr:  stderr.Bytes(),
		Success: err == nil,
	}, nil
}
