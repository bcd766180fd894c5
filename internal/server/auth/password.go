package auth

import (
	"errors"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// passwordCost matches the salt rounds of existing account records.
const passwordCost = 10

// HashPassword returns the bcrypt hash of password. bcrypt only accepts up
// to 72 bytes; longer input is a validation error.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", common.NewValidationError("Password is too long")
	}
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hash. Errors other than a
// mismatch (a corrupt hash, for instance) are returned as is.
func ComparePassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
