// Package auth provides the credential hasher and the token service. Both
// are constructed from process-wide immutable configuration so tests can
// inject cheap parameters.
package auth

import "golang.org/x/crypto/bcrypt"

// Hasher wraps bcrypt with a fixed cost factor.
type Hasher struct {
	cost int
}

// NewHasher builds a Hasher with the given bcrypt cost. Costs outside the
// range bcrypt accepts are replaced by its default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a salted bcrypt digest of plain. Repeated calls with the
// same input produce different digests.
func (h *Hasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plain matches the stored digest. A malformed
// digest verifies false rather than erroring.
func (h *Hasher) Verify(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
