package shared

import "context"

// Identity is the account resolved from a valid session token. It lives only
// in the request context and is never persisted or shared across requests.
type Identity struct {
	ID        string
	FullName  string
	Email     string
	Phone     string
	AvatarURL string
}

type identityContextKey struct{}

// ContextWithIdentity stores the authenticated identity in context.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, id)
}

// IdentityFromContext extracts the authenticated identity from context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityContextKey{}).(Identity)
	return id, ok
}
