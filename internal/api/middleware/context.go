package middleware

import (
	"context"
	"net/http"

	"github.com/waveorder/waveorder/internal/auth"
)

type contextKey string

const identityKey contextKey = "identity"

// SetIdentity stores the authenticated identity in the context. Exposed for
// handler tests.
func SetIdentity(ctx context.Context, id *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity returns the identity set by the authentication middleware.
func GetIdentity(r *http.Request) (*auth.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(*auth.Identity)
	return id, ok
}
