package auth

import "context"

// Identity is the caller resolved by the authorization gate
type Identity struct {
	UserID string
}

type identityKey struct{}

// WithIdentity attaches the resolved caller to ctx
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller attached by WithIdentity
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok && id.UserID != ""
}
