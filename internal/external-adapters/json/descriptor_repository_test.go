package json

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/decant/internal/domain/entities"
)

// Test that the descriptor file is read once and the result memoized
func TestDescriptorRepository_Load_Memoizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptor.json")
	if err := os.WriteFile(path, []byte(sampleDescriptor), 0600); err != nil {
		t.Fatal(err)
	}

	repo := NewDescriptorRepository(path)
	first, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Corrupt the file; a second Load must still serve the parsed result.
	if err := os.WriteFile(path, []byte("{broken"), 0600); err != nil {
		t.Fatal(err)
	}

	second, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}
	if second != first {
		t.Error("Load returned a different descriptor instance")
	}
}

// Test that a load failure is memoized too
func TestDescriptorRepository_Load_MemoizesFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descriptor.json")

	repo := NewDescriptorRepository(path)
	_, err := repo.Load(context.Background())
	if !errors.Is(err, entities.ErrDescriptorMissing) {
		t.Fatalf("Expected ErrDescriptorMissing, got: %v", err)
	}

	// Create the file after the fact; the failure stays cached.
	if err := os.WriteFile(path, []byte(sampleDescriptor), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Load(context.Background()); !errors.Is(err, entities.ErrDescriptorMissing) {
		t.Errorf("Expected memoized ErrDescriptorMissing, got: %v", err)
	}
}
