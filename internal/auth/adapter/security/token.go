package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// sessionTokenBytes is the entropy of an opaque session identifier.
// 32 bytes = 256 bits.
const sessionTokenBytes = 32

// GenerateSessionToken returns a cryptographically random opaque session
// identifier, base64url-encoded without padding.
func GenerateSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
