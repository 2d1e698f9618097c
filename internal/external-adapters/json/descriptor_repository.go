package json

import (
	"context"

	"github.com/ochairo/decant/internal/domain/entities"
)

// DescriptorRepository implements repositories.DescriptorRepository over
// a JSON file. The descriptor is parsed once; every later Load returns
// the memoized result, including a memoized failure.
type DescriptorRepository struct {
	filePath string
	parser   *DescriptorParser

	loaded bool
	desc   *entities.Descriptor
	err    error
}

// NewDescriptorRepository creates a JSON-file-backed descriptor repository
func NewDescriptorRepository(filePath string) *DescriptorRepository {
	return &DescriptorRepository{
		filePath: filePath,
		parser:   NewDescriptorParser(),
	}
}

// Load returns the parsed descriptor, reading the file on first use only
func (r *DescriptorRepository) Load(_ context.Context) (*entities.Descriptor, error) {
	if !r.loaded {
		r.desc, r.err = r.parser.ParseFile(r.filePath)
		r.loaded = true
	}
	return r.desc, r.err
}
