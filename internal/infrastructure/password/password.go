package password

import (
	"errors"

	"github.com/castellan/site-auth/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a resource owner credential using bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// CheckPassword reports whether a credential matches its stored hash. A
// mismatch surfaces as ErrInvalidCredentials so callers stay uniform.
func CheckPassword(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	return nil
}
