// internal/app/features/seed/routes.go
package seed

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the reseed endpoint behind the admin gate.
func Routes(h *Handler, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(requireAdmin).Post("/", h.HandleReseed)
	return r
}
