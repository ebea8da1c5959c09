// internal/app/system/auth/auth.go

// Package auth is the bearer-token gate in front of every protected route.
//
// The client-visible contract mirrors the console frontend's expectations:
// a missing token is 401 "Token required"; a token that fails verification
// for any reason (bad signature, malformed, expired) is 403 "Invalid
// token". Invalid and expired are collapsed on purpose so the response
// leaks nothing about why a presented token was rejected.
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/mvarner/pulseboard/internal/app/system/token"
	"github.com/mvarner/pulseboard/internal/app/system/webjson"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// CurrentClaims returns the verified token claims attached to the request
// by RequireAuth, and a found flag.
func CurrentClaims(r *http.Request) (*token.Claims, bool) {
	c, ok := r.Context().Value(claimsKey).(*token.Claims)
	return c, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <tok>"
// header. It returns "" when the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth verifies the bearer token with svc and attaches the claims to
// the request context for downstream handlers.
func RequireAuth(svc *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok := BearerToken(r)
			if tok == "" {
				webjson.Error(w, http.StatusUnauthorized, "Token required", nil)
				return
			}

			claims, err := svc.Verify(tok)
			if err != nil {
				webjson.Error(w, http.StatusForbidden, "Invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose attached claims do not carry the
// admin role. It must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CurrentClaims(r)
		if !ok || claims.Role != models.RoleAdmin {
			webjson.Error(w, http.StatusForbidden, "Admin access required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithTestClaims attaches claims to the request context directly,
// bypassing token verification. Test use only.
func WithTestClaims(r *http.Request, claims *token.Claims) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), claimsKey, claims))
}
