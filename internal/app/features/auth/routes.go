// internal/app/features/auth/routes.go
package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the auth endpoints. requireAuth gates /me; the login
// endpoints are open by nature.
func Routes(h *Handler, requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.HandleLogin)
	r.Post("/google-login", h.HandleGoogleLogin)
	r.Get("/google", h.ServeGoogleRedirect)
	r.Get("/google/callback", h.ServeGoogleCallback)
	r.With(requireAuth).Get("/me", h.ServeMe)
	return r
}
