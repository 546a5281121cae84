package adapter

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	m "suitesync.dev/pkg/suitesync/internal/model"
)

// TestRunnerAdapter abstracts running a project's test suite.
type TestRunnerAdapter interface {
	// RunGoTest runs `go test` with args in workDir.
	// Returns the combined stdout/stderr output and any error.
	RunGoTest(ctx context.Context, workDir m.Path, args ...string) (output string, err error)

	// RunCommand runs a shell command line in workDir.
	RunCommand(ctx context.Context, workDir m.Path, command string) (output string, err error)
}

// LocalTestRunnerAdapter provides a concrete implementation using os/exec.
type LocalTestRunnerAdapter struct {
	timeout time.Duration
}

// NewLocalTestRunnerAdapter constructs a LocalTestRunnerAdapter. A zero timeout
// falls back to ten minutes.
func NewLocalTestRunnerAdapter(timeout time.Duration) *LocalTestRunnerAdapter {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}

	return &LocalTestRunnerAdapter{
		timeout: timeout,
	}
}

// RunGoTest runs 'go test' in the given directory.
func (a *LocalTestRunnerAdapter) RunGoTest(ctx context.Context, workDir m.Path, args ...string) (string, error) {
	return a.run(ctx, workDir, "go", append([]string{"test"}, args...)...)
}

// RunCommand runs command through `sh -c`.
func (a *LocalTestRunnerAdapter) RunCommand(ctx context.Context, workDir m.Path, command string) (string, error) {
	return a.run(ctx, workDir, "sh", "-c", command)
}

func (a *LocalTestRunnerAdapter) run(ctx context.Context, workDir m.Path, name string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	// #nosec G204 - the command comes from the user's own configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = string(workDir)

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()

	return output, err
}
