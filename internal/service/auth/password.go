package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the salt rounds used historically for this dataset.
const bcryptCost = 10

// PasswordHasher defines one-way password hashing and verification.
type PasswordHasher interface {
	// Hash produces a randomly salted adaptive hash of the plaintext.
	// The result differs between calls for the same input.
	Hash(password string) (string, error)

	// Compare compares a hashed password with its possible plaintext
	// equivalent. Returns nil on match, or an error on mismatch. The
	// comparison is constant-time.
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a new BcryptHasher with the default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcryptCost}
}

// Hash implements the PasswordHasher interface using bcrypt.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrHashingFailed, err)
	}
	return string(hashed), nil
}

// Compare implements the PasswordHasher interface using bcrypt.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
