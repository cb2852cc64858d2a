package server

import (
	"context"

	"github.com/desertthunder/setlist/internal/models"
)

type contextKey int

const userContextKey contextKey = iota

// withUser returns a context carrying the authenticated user.
func withUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user resolved by the session
// middleware, or nil when the request carries no valid session.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userContextKey).(*models.User)
	return user
}
