// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mvarner/pulseboard/internal/app/system/auth"
	"github.com/mvarner/pulseboard/internal/app/system/token"
	"github.com/mvarner/pulseboard/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Claims builds verified-token claims for a user id and role, as RequireAuth
// would attach them.
func Claims(userID, email, role string) *token.Claims {
	return &token.Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
}

// AdminRequest returns a request carrying admin claims, bypassing token
// verification.
func AdminRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	return auth.WithTestClaims(r, Claims(primitive.NewObjectID().Hex(), "admin@test.com", models.RoleAdmin))
}

// UserRequest returns a request carrying regular-user claims.
func UserRequest(method, target string) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	return auth.WithTestClaims(r, Claims(primitive.NewObjectID().Hex(), "user@test.com", models.RoleUser))
}
