package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/eventure/eventure-api/internal/constants"
)

// resetCodeSpace is 10^ResetCodeDigits.
var resetCodeSpace = big.NewInt(1_000_000)

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword hashes a password (or a reset code) with bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), constants.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash.
// A malformed hash is treated as a mismatch.
func CheckPassword(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CompareDummy performs one bcrypt comparison against a fixed hash and
// always returns false. Login calls it when the email is unknown so both
// failure paths cost the same.
func CompareDummy(password string) bool {
	dummyHashOnce.Do(func() {
		var err error
		dummyHash, err = bcrypt.GenerateFromPassword([]byte("eventure-dummy-password"), constants.BcryptCost)
		if err != nil {
			// GenerateFromPassword only fails on an invalid cost or an oversized input.
			panic(err)
		}
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return false
}

// GenerateResetCode returns a uniformly random 6-digit code. Leading zeros are kept.
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, resetCodeSpace)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset code: %w", err)
	}
	return fmt.Sprintf("%0*d", constants.ResetCodeDigits, n.Int64()), nil
}
