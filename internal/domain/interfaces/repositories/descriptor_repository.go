// Package repositories defines data access contracts for the domain layer.
package repositories

import (
	"context"

	"github.com/ochairo/decant/internal/domain/entities"
)

// DescriptorRepository loads the deploy descriptor. Implementations parse
// the file once and memoize the result for the lifetime of the run.
type DescriptorRepository interface {
	Load(ctx context.Context) (*entities.Descriptor, error)
}
