package auth

import (
	"context"

	"online-quiz-service/internal/domain"
)

// identityKey is a private type for the identity context key.
type identityKey struct{}

// WithIdentity stores the verified identity in the request context.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext retrieves the verified identity, if any. The second
// return value is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(domain.Identity)
	return id, ok
}
