// Package common defines shared constants and sentinel errors used across
// the server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// ErrInvalidCredentials is a failed login: unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUpstream marks failures of external collaborators (image hosting).
	ErrUpstream = errors.New("upstream error")

	// Auth errors (invalid, forged or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrMissingToken = errors.New("missing token")
	ErrTokenExpired = errors.New("token expired")
)

// ValidationError carries a user-facing reason. It matches ErrorValidation
// through errors.Is.
type ValidationError struct {
	Reason string
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrorValidation }

// IsAuthError reports whether err belongs to the authentication class. Token
// failures of every kind collapse into it.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrorUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrTokenExpired)
}
