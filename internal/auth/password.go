package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/q42jaap/opvault/internal/common"
)

// HashSecret hashes an account secret with bcrypt at the default cost.
func HashSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing secret: %w", err)
	}
	return string(hash), nil
}

// CheckSecret compares a plaintext secret against its stored hash and
// returns common.ErrUnauthorized on mismatch.
func CheckSecret(hash, secret string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return common.ErrUnauthorized
	}
	return nil
}
