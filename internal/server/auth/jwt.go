// Package auth issues and verifies session tokens and carries the
// authenticated user through request contexts.
package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the standard registered claims plus the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string
}

// Authority signs session tokens and binds them to the session cookie.
type Authority struct {
	secretKey []byte
	validity  time.Duration
	secure    bool
	now       func() time.Time
}

// NewAuthority signs tokens with secretKey that stay valid for validity.
// secure marks the session cookie Secure.
func NewAuthority(secretKey string, validity time.Duration, secure bool) *Authority {
	return &Authority{
		secretKey: []byte(secretKey),
		validity:  validity,
		secure:    secure,
		now:       time.Now,
	}
}

// GenerateToken returns a signed token for userID valid for the configured
// duration.
func (a *Authority) GenerateToken(userID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(a.now().Add(a.validity)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(a.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Issue generates a token for userID and sets it as the session cookie on w.
func (a *Authority) Issue(w http.ResponseWriter, userID string) (string, error) {
	token, err := a.GenerateToken(userID)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, a.cookie(token, int(a.validity.Seconds())))
	return token, nil
}

// Revoke overwrites the session cookie with an empty, already expired one.
func (a *Authority) Revoke(w http.ResponseWriter) {
	http.SetCookie(w, a.cookie("", -1))
}

func (a *Authority) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// Verify checks the signature and expiry of tokenString and returns the user
// id it was issued for.
func (a *Authority) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", common.ErrMissingToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}

// FromRequest extracts the raw token from the session cookie.
func FromRequest(r *http.Request) (string, error) {
	c, err := r.Cookie(common.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", common.ErrMissingToken
	}
	return c.Value, nil
}
