package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/contactbook/contactbook/internal/apperr"
)

// Cost is the fixed bcrypt work factor used for every stored password.
const Cost = 10

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a bcrypt hasher at the fixed work factor.
func NewHasher() *Hasher {
	return &Hasher{cost: Cost}
}

// Hash returns a salted bcrypt hash of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrHashing, err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// a hash bcrypt cannot read is an ErrHashing error.
func (h *Hasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", apperr.ErrHashing, err)
	}
}
