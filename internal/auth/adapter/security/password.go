package security

import (
	"errors"
	"fmt"

	apperrors "booking-system/internal/shared/errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost mirrors the work factor the booking system has always used for
// password digests. It is fixed at construction, not per call.
const DefaultCost = 10

// PasswordHasher is the credential verifier: a one-way, salted transform with
// deterministic verification. The comparison itself is constant-time.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the default work factor.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: DefaultCost}
}

// NewPasswordHasherWithCost creates a hasher with a custom work factor.
// Costs outside bcrypt's supported range fall back to the default.
func NewPasswordHasherWithCost(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash derives a salted digest from the secret.
func (h *PasswordHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify compares a secret against a stored digest. A mismatch is not an
// error; only a malformed digest is, surfaced as ErrCorruptDigest.
func (h *PasswordHasher) Verify(secret, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", apperrors.ErrCorruptDigest, err)
}
