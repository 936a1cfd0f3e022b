package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/catslideshow/api/internal/api/response"
	"github.com/catslideshow/api/internal/identity"
	"github.com/catslideshow/api/internal/user"
)

const currentUserKey contextKey = "currentUser"

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*identity.Claims, error)
}

// BearerAuth is middleware that extracts the Authorization bearer token,
// verifies it against the identity provider's signing keys, and resolves the
// token subject to a local user stored in the request context.
//
// A valid token whose subject has no local user row yields a 401 distinct
// from token-verification failures: it means login's upsert never ran for
// this identity (e.g. a stale token from a deleted user).
func BearerAuth(verifier TokenVerifier, users user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, identity.ErrTokenExpired):
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Token has expired")
				case errors.Is(err, identity.ErrProviderUnavailable):
					response.Err(w, http.StatusServiceUnavailable, "UPSTREAM_UNAVAILABLE", fmt.Sprintf("Failed to fetch signing keys: %v", err))
				default:
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", fmt.Sprintf("Token verification failed: %v", err))
				}
				return
			}

			u, err := users.GetByCognitoSub(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "No local user for token identity")
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// WithUser returns a context carrying the authenticated user.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// GetUser retrieves the authenticated user from the request context.
func GetUser(ctx context.Context) *user.User {
	if u, ok := ctx.Value(currentUserKey).(*user.User); ok {
		return u
	}
	return nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
