package auth

import "context"

// Identity is the authenticated caller, placed in the request context by the
// auth middleware and consumed by handlers and ownership-scoped repos.
type Identity struct {
	UserID  int
	Email   string
	IsStaff bool
}

type identityContextKey struct{}

func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}
