package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digester computes content digests for resolved uploads. Pure Go, no
// external sha256sum binary needed.
type Digester struct{}

// NewDigester creates a new digester
func NewDigester() *Digester {
	return &Digester{}
}

// SHA256 returns the hex-encoded SHA256 digest of a file
func (d *Digester) SHA256(filePath string) (string, error) {
	//nolint:gosec // G304: file path comes from the resolved upload manifest
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
