// Package json provides JSON-based deploy descriptor parsing and
// repository implementations.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ochairo/decant/internal/domain/entities"
)

// DescriptorParser parses JSON deploy descriptor files
type DescriptorParser struct{}

// NewDescriptorParser creates a new JSON parser
func NewDescriptorParser() *DescriptorParser {
	return &DescriptorParser{}
}

// ParseFile parses a JSON descriptor file into a Descriptor entity
func (p *DescriptorParser) ParseFile(filePath string) (*entities.Descriptor, error) {
	//nolint:gosec // G304: filePath is the descriptor path from configuration
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", entities.ErrDescriptorMissing, filePath)
		}
		return nil, fmt.Errorf("failed to read descriptor %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses JSON bytes into a Descriptor entity
func (p *DescriptorParser) Parse(data []byte) (*entities.Descriptor, error) {
	var desc entities.Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrDescriptorInvalid, err)
	}
	return &desc, nil
}
