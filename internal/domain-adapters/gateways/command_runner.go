package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// defaultCommandTimeout bounds client invocations; publishes that tar and
// upload a package can take a while on slow CI workers.
const defaultCommandTimeout = 10 * time.Minute

// CommandRunner executes external commands for providers that publish
// through a CLI client.
type CommandRunner struct {
	defaultTimeout time.Duration
}

// NewCommandRunner creates a command runner
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{defaultTimeout: defaultCommandTimeout}
}

// CommandConfig describes one command invocation.
type CommandConfig struct {
	Command string
	Args    []string
	Dir     string
	Env     map[string]string
	Timeout time.Duration
}

// CommandResult contains the outcome of a command invocation
type CommandResult struct {
	Success  bool
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Run executes the command, capturing stdout and stderr. A non-zero exit
// status is reported through ExitCode, not as Error.
func (r *CommandRunner) Run(ctx context.Context, config CommandConfig) *CommandResult {
	startTime := time.Now()
	result := &CommandResult{}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = r.defaultTimeout
	}

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // G204: command and args come from provider configuration
	cmd := exec.CommandContext(execCtx, config.Command, config.Args...)
	if config.Dir != "" {
		cmd.Dir = config.Dir
	}

	env := os.Environ()
	for key, value := range config.Env {
		env = append(env, fmt.Sprintf("%s=%s", key, value))
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err != nil {
		result.Error = err
		var exitErr *exec.ExitError
		// A killed-on-deadline command also yields an ExitError, so the
		// timeout check must come first.
		switch {
		case execCtx.Err() == context.DeadlineExceeded:
			result.Error = fmt.Errorf("command timed out after %v", timeout)
			result.ExitCode = -1
		case errors.As(err, &exitErr):
			result.ExitCode = exitErr.ExitCode()
		default:
			result.ExitCode = -1
		}
		return result
	}

	result.Success = true
	result.ExitCode = 0
	return result
}
