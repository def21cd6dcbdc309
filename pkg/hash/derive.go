package hash

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const minSecretLength = 16

// DeriveKey expands the configured secret into a key bound to purpose, so
// one secret can back several independent signing keys.
func DeriveKey(secret, purpose string, size int) ([]byte, error) {
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("secret must be at least %d characters", minSecretLength)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid key size %d", size)
	}

	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	key := make([]byte, size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	return key, nil
}
