// Package azcli implements boards.Client by shelling out to the Azure CLI
// (`az boards ...`).
package azcli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	boarderrors "boardkit.dev/boardkit/internal/errors"
)

// DefaultCommandTimeout is the default timeout for az commands
const DefaultCommandTimeout = 5 * time.Minute

// DefaultCommand is the executable invoked when none is configured
const DefaultCommand = "az"

// Runner executes one az invocation and returns its trimmed stdout
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// CommandRunner handles execution of az commands
type CommandRunner struct {
	command    string
	workingDir string
	timeout    time.Duration
	env        []string
}

// NewCommandRunner creates a new CommandRunner. An empty command defaults to
// "az" and a non-positive timeout to DefaultCommandTimeout.
func NewCommandRunner(command string, timeout time.Duration) *CommandRunner {
	if command == "" {
		command = DefaultCommand
	}
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	return &CommandRunner{command: command, timeout: timeout}
}

// WithWorkingDir sets the directory commands run in
func (r *CommandRunner) WithWorkingDir(dir string) *CommandRunner {
	r.workingDir = dir
	return r
}

// WithEnv appends environment variables (KEY=VALUE) to every command
func (r *CommandRunner) WithEnv(env ...string) *CommandRunner {
	r.env = append(r.env, env...)
	return r
}

// Command returns the executable name
func (r *CommandRunner) Command() string {
	return r.command
}

// Run executes an az command with the given context and returns the output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.command, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", boarderrors.NewCommandError(r.command, args, stdout.String(), stderr.String(), -1, ctx.Err())
		}
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", boarderrors.NewCommandError(r.command, args, stdout.String(), stderr.String(), exitCode, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}
