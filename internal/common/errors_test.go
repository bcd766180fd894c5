package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := fmt.Errorf("signup: %w", NewValidationError("Email already exist"))

	assert.True(t, errors.Is(err, ErrorValidation))
	assert.Equal(t, "signup: Email already exist", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, "Email already exist", ve.Reason)
}

func TestIsAuthError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{ErrorUnauthorized, true},
		{ErrInvalidToken, true},
		{ErrMissingToken, true},
		{ErrInvalidCredentials, true},
		{fmt.Errorf("verify: %w", ErrTokenExpired), true},
		{ErrorNotFound, false},
		{ErrorInternal, false},
		{NewValidationError("x"), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAuthError(tt.err), "%v", tt.err)
	}
}
