// Package auth provides the authentication primitives of the server:
// bcrypt password hashing and HS256 bearer tokens.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dkurochkin/courier/internal/common"
)

// Hasher hashes and verifies passwords with bcrypt. The cost is fixed at
// construction time and shared process-wide.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt hash of plaintext. It fails only when the
// primitive rejects its input (e.g. passwords longer than 72 bytes).
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches the stored hash. It never
// errors: mismatches and malformed hashes both report false, so a caller
// cannot distinguish them. bcrypt's comparison is constant-time.
func (h *Hasher) Verify(plaintext, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil
}

// DummyVerify burns approximately the same CPU as a failed Verify against a
// real hash. Login uses it when the user does not exist, so "unknown user"
// and "wrong password" are not distinguishable by timing.
func (h *Hasher) DummyVerify(plaintext string) {
	// Always a mismatch; the call exists only for its cost.
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
}

// A fixed hash of an unguessable sentinel, compared against during
// DummyVerify. Generated once with bcrypt.DefaultCost.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
