// Package cryptox hashes and verifies account passwords.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postbox/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is a one-way, salted password hasher. Every call to Hash
// embeds a fresh salt, so hashing the same password twice gives different
// results, and Verify reads the salt and cost back out of the hash.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher with the given bcrypt cost. Values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the encoded bcrypt hash of password. Passwords longer than
// bcrypt accepts yield common.ErrPasswordTooLong.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", common.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("error generating password hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash.
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
