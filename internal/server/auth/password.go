package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used for stored password hashes.
const DefaultBcryptCost = 12

// PasswordHasher produces salted one-way password digests.
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher returns a bcrypt hasher. A non-positive cost selects
// DefaultBcryptCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	h := &PasswordHasher{cost: cost}
	// bcrypt only fails for out-of-range costs; those make dummy nil and
	// CompareDummy then returns at once.
	h.dummy, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), cost)
	return h
}

// Hash returns the bcrypt digest of plaintext. Each call uses a fresh salt.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches digest. Malformed digests simply
// don't match.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// CompareDummy does the work of a Verify against a digest nobody knows the
// password of. Lookups for unknown accounts call it so they take as long as
// a wrong password.
func (h *PasswordHasher) CompareDummy(plaintext string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(plaintext))
}
