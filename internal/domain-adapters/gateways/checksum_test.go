package gateways

import (
	"os"
	"path/filepath"
	"testing"
)

// Test digest of known content
func TestDigester_SHA256(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "artifact.bin")
	if err := os.WriteFile(path, []byte("hello world"), 0600); err != nil {
		t.Fatal(err)
	}

	digest, err := NewDigester().SHA256(path)
	if err != nil {
		t.Fatalf("SHA256 failed: %v", err)
	}

	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

// Test digest of an empty file
func TestDigester_SHA256_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.bin")
	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}

	digest, err := NewDigester().SHA256(path)
	if err != nil {
		t.Fatalf("SHA256 failed: %v", err)
	}

	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if digest != want {
		t.Errorf("digest = %s, want %s", digest, want)
	}
}

// Test digest of a missing file
func TestDigester_SHA256_MissingFile(t *testing.T) {
	_, err := NewDigester().SHA256("/nonexistent/artifact.bin")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}
