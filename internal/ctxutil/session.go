// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// SessionTokenKey is the context key for the caller's session token.
type SessionTokenKey struct{}

// WithSessionToken returns a context carrying the session token.
func WithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, SessionTokenKey{}, token)
}

// SessionTokenFromContext returns the session token from context, or empty string if not set.
func SessionTokenFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(SessionTokenKey{}).(string); ok {
		return v
	}
	return ""
}
