package interfaces

import "context"

// Provider is a deploy target. Exactly one provider runs per invocation;
// the pipeline calls Validate before any networked or shell step.
type Provider interface {
	// Name is the provider's registered name.
	Name() string

	// Validate checks configuration and local inputs without touching
	// the remote side.
	Validate(ctx context.Context) error

	// Deploy performs the publish.
	Deploy(ctx context.Context) error
}

// Authenticator is implemented by providers that need a login step
// between validation and deploy.
type Authenticator interface {
	Login(ctx context.Context) error
}

// Finisher is implemented by providers that leave state behind during
// login or deploy. Finish runs even when the deploy failed.
type Finisher interface {
	Finish(ctx context.Context) error
}
