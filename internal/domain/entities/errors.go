package entities

import (
	"errors"
	"fmt"
)

// Sentinel errors for descriptor loading. Callers match them with
// errors.Is to distinguish a missing file from a malformed one.
var (
	// ErrDescriptorMissing indicates the descriptor file does not exist.
	ErrDescriptorMissing = errors.New("deploy descriptor not found")

	// ErrDescriptorInvalid indicates the descriptor could not be parsed
	// or fails shape validation.
	ErrDescriptorInvalid = errors.New("deploy descriptor is invalid")
)

// UnexpectedStatusError is returned when a resource existence check gets
// a status code that is neither success nor 404.
type UnexpectedStatusError struct {
	Kind string
	Code int
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("existence check for %s returned unexpected status %d", e.Kind, e.Code)
}

// RequestError is returned when a mutating registry call answers with a
// non-2xx status. It aborts the deploy; nothing is retried or rolled back.
type RequestError struct {
	Method string
	URL    string
	Code   int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s failed with status %d", e.Method, e.URL, e.Code)
}

// RegistryConfigError is returned when pointing the npm client at the
// target registry exits non-zero.
type RegistryConfigError struct {
	ExitCode int
	Output   string
}

func (e *RegistryConfigError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("failed to configure npm registry (exit %d): %s", e.ExitCode, e.Output)
	}
	return fmt.Sprintf("failed to configure npm registry (exit %d)", e.ExitCode)
}

// PublishError is returned when the npm publish command exits non-zero.
type PublishError struct {
	ExitCode int
	Output   string
}

func (e *PublishError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("npm publish failed (exit %d): %s", e.ExitCode, e.Output)
	}
	return fmt.Sprintf("npm publish failed (exit %d)", e.ExitCode)
}
