package gateways

import (
	"context"
	"fmt"
	"strings"

	"github.com/ochairo/decant/internal/domain/entities"
)

// NpmCLI implements the npm client gateway by shelling out to the npm
// binary through the command runner.
type NpmCLI struct {
	runner *CommandRunner
	binary string
}

// NewNpmCLI creates an npm CLI gateway. An empty binary selects "npm"
// from PATH.
func NewNpmCLI(runner *CommandRunner, binary string) *NpmCLI {
	if binary == "" {
		binary = "npm"
	}
	return &NpmCLI{runner: runner, binary: binary}
}

// Version returns the client's version string ("npm --version" output).
func (c *NpmCLI) Version(ctx context.Context) (string, error) {
	result := c.runner.Run(ctx, CommandConfig{
		Command: c.binary,
		Args:    []string{"--version"},
	})
	if !result.Success {
		return "", fmt.Errorf("failed to detect npm version: %w (stderr: %s)",
			resultError(result), strings.TrimSpace(result.Stderr))
	}
	return strings.TrimSpace(result.Stdout), nil
}

// SetRegistry points the client's active registry at the given URL.
func (c *NpmCLI) SetRegistry(ctx context.Context, registry string) error {
	result := c.runner.Run(ctx, CommandConfig{
		Command: c.binary,
		Args:    []string{"config", "set", "registry", registry},
	})
	if !result.Success {
		return &entities.RegistryConfigError{
			ExitCode: result.ExitCode,
			Output:   strings.TrimSpace(result.Stderr),
		}
	}
	return nil
}

// Publish runs "npm publish" in dir with optional access and tag options.
func (c *NpmCLI) Publish(ctx context.Context, dir, access, tag string) error {
	args := []string{"publish"}
	if access != "" {
		args = append(args, "--access", access)
	}
	if tag != "" {
		args = append(args, "--tag", tag)
	}

	result := c.runner.Run(ctx, CommandConfig{
		Command: c.binary,
		Args:    args,
		Dir:     dir,
	})
	if !result.Success {
		return &entities.PublishError{
			ExitCode: result.ExitCode,
			Output:   strings.TrimSpace(result.Stderr),
		}
	}
	return nil
}

func resultError(result *CommandResult) error {
	if result.Error != nil {
		return result.Error
	}
	return fmt.Errorf("exit status %d", result.ExitCode)
}
