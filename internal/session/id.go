package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// idEntropyBytes sizes the random session identifier; 32 bytes gives
// 256 bits of entropy.
const idEntropyBytes = 32

// GenerateID returns a cryptographically random session identifier,
// URL-safe so it can travel in a cookie unescaped.
func GenerateID() (string, error) {
	b := make([]byte, idEntropyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
