// Package middleware provides HTTP middleware for authentication,
// authorization and rate limiting.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/tenant"
)

// Identity is what a verified bearer token says about the caller.
type Identity struct {
	UserID   string
	Role     string
	TenantID string
}

// Verifier turns a raw bearer token into an Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// ErrInvalidToken is returned by verifiers for any unusable token.
var ErrInvalidToken = errors.New("invalid or expired token")

// Auth validates the bearer token and injects the user's ID, role and tenant
// into the request context. Tokens without a tenant claim are scoped to the
// resolver's default tenant; unknown roles fall back to coach.
func Auth(v Verifier, tenants tenant.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			scheme, raw, ok := strings.Cut(authHeader, " ")
			if !ok || scheme != "Bearer" || raw == "" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
				return
			}

			id, err := v.Verify(r.Context(), raw)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}
			if id.UserID == "" {
				writeError(w, http.StatusUnauthorized, "Invalid token: missing user ID")
				return
			}
			if !ctxkeys.ValidRoles[id.Role] {
				id.Role = ctxkeys.RoleCoach
			}

			ctx := ctxkeys.WithIdentity(r.Context(), id.UserID, id.Role, tenants.ID(id.TenantID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireMinRole restricts access to users with at least the given role.
// Hierarchy: superadmin > admin > coach > client.
func RequireMinRole(minRole string) func(http.Handler) http.Handler {
	minLevel := ctxkeys.RoleLevel[minRole]

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ctxkeys.RoleLevel[ctxkeys.GetRole(r.Context())] < minLevel {
				writeError(w, http.StatusForbidden, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
