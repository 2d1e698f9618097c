// Package services contains the provider-independent deploy workflow.
package services

import (
	"context"
	"fmt"

	"github.com/ochairo/decant/internal/domain/interfaces"
)

// Pipeline runs a provider through the fixed deploy sequence:
// validate -> login (if the provider authenticates) -> deploy -> finish.
// The first failing step aborts the remaining forward steps; finish runs
// unconditionally so credentials and other login leftovers are cleaned up
// even after a failed deploy.
type Pipeline struct {
	log interfaces.Logger
}

// NewPipeline creates a pipeline runner
func NewPipeline(log interfaces.Logger) *Pipeline {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &Pipeline{log: log}
}

// Run executes the deploy sequence for one provider
func (p *Pipeline) Run(ctx context.Context, provider interfaces.Provider) error {
	p.log.Info("validating deploy configuration", interfaces.F("provider", provider.Name()))
	if err := provider.Validate(ctx); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if finisher, ok := provider.(interfaces.Finisher); ok {
		defer func() {
			if err := finisher.Finish(ctx); err != nil {
				p.log.Warn("cleanup failed",
					interfaces.F("provider", provider.Name()),
					interfaces.F("error", err))
			}
		}()
	}

	if auth, ok := provider.(interfaces.Authenticator); ok {
		p.log.Info("logging in", interfaces.F("provider", provider.Name()))
		if err := auth.Login(ctx); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	if err := provider.Deploy(ctx); err != nil {
		return fmt.Errorf("deploy failed: %w", err)
	}

	p.log.Info("deploy succeeded", interfaces.F("provider", provider.Name()))
	return nil
}
