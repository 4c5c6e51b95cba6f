// Package middleware provides HTTP middlewares for authentication,
// authorization, and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rmanoharan/ledgerdesk/internal/httputil"
	"github.com/rmanoharan/ledgerdesk/internal/models"
	"github.com/rmanoharan/ledgerdesk/internal/service"
)

type ctxKey string

const principalKey ctxKey = "principal"

// Principal is the authenticated caller extracted from a session token.
type Principal struct {
	// UserID is the subject id embedded in the token.
	UserID string
	// Username is the login name of the caller.
	Username string
	// Role is the caller's role, checked by RequireRole.
	Role models.Role
}

// TokenParser verifies a raw bearer token and returns its claims.
type TokenParser interface {
	Parse(raw string) (*service.Claims, error)
}

// Authenticate enforces bearer-token authentication. Requests without an
// Authorization header are rejected as missing a token; malformed or
// badly signed tokens and expired tokens get distinct messages. On
// success the Principal goes into the request context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				httputil.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					httputil.WriteError(w, http.StatusUnauthorized, "token expired")
					return
				}
				httputil.WriteError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			principal := Principal{
				UserID:   claims.Subject,
				Username: claims.Username,
				Role:     claims.Role,
			}
			next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole rejects authenticated callers whose role does not exactly
// match the required one. There is no role hierarchy.
func RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				httputil.WriteError(w, http.StatusUnauthorized, "missing token")
				return
			}
			if principal.Role != role {
				httputil.WriteError(w, http.StatusForbidden, "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withPrincipal(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalKey, principal)
}

// GetPrincipalFromContext extracts the authenticated Principal from the
// request context.
func GetPrincipalFromContext(ctx context.Context) (Principal, bool) {
	principal, ok := ctx.Value(principalKey).(Principal)
	return principal, ok
}
