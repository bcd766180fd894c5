package auth

import (
	"context"

	"github.com/dmitrijs2005/gopherchat/internal/server/models"
)

type userKey struct{}

// ContextWithUser returns a copy of ctx carrying u.
func ContextWithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFromContext returns the user attached by the session guard.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey{}).(*models.User)
	return u, ok && u != nil
}
