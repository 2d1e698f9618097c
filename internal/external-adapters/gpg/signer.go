// Package gpg provides GPG signing for upload artifacts.
package gpg

import (
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
)

// Signer produces detached armored signatures using ProtonMail's
// go-crypto, a maintained, modern fork of golang.org/x/crypto/openpgp.
// This is in external-adapters to isolate the external dependency.
type Signer struct {
	entity *openpgp.Entity
}

// NewSignerFromFile loads a private key from an armored (or binary) key
// file and decrypts it with the passphrase when it is protected.
func NewSignerFromFile(keyPath, passphrase string) (*Signer, error) {
	//nolint:gosec // G304: keyPath is user-provided for signing key import
	f, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	//nolint:errcheck // Defer close
	defer f.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(f)
	if err != nil {
		// Try reading as binary
		if _, seekErr := f.Seek(0, 0); seekErr != nil {
			return nil, fmt.Errorf("failed to reset file: %w", seekErr)
		}
		keyring, err = openpgp.ReadKeyRing(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	entity := signingEntity(keyring)
	if entity == nil {
		return nil, fmt.Errorf("no private key found in %s", keyPath)
	}

	if entity.PrivateKey.Encrypted {
		if passphrase == "" {
			return nil, fmt.Errorf("signing key is encrypted and no passphrase was provided")
		}
		if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
			return nil, fmt.Errorf("failed to decrypt signing key: %w", err)
		}
	}

	return &Signer{entity: entity}, nil
}

// SignDetached writes an armored detached signature next to the file and
// returns the signature path.
func (s *Signer) SignDetached(filePath string) (string, error) {
	//nolint:gosec // G304: filePath comes from the resolved upload manifest
	in, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer in.Close()

	sigPath := filePath + ".asc"
	out, err := os.Create(sigPath)
	if err != nil {
		return "", fmt.Errorf("failed to create signature file: %w", err)
	}

	if err := openpgp.ArmoredDetachSign(out, s.entity, in, nil); err != nil {
		//nolint:errcheck,gosec // G104: Best effort cleanup of the partial signature
		out.Close()
		_ = os.Remove(sigPath)
		return "", fmt.Errorf("failed to sign: %w", err)
	}

	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to close signature file: %w", err)
	}
	return sigPath, nil
}

// signingEntity picks the first keyring entity carrying a private key
func signingEntity(keyring openpgp.EntityList) *openpgp.Entity {
	for _, entity := range keyring {
		if entity.PrivateKey != nil {
			return entity
		}
	}
	return nil
}
