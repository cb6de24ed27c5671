// internal/app/features/applications/routes.go
package applications

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

// Routes wires the staff review endpoints. The public submission endpoint
// is mounted separately via PublicRoutes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleAdmin))

	r.Get("/", h.HandleList)
	r.Get("/{number}", h.HandleGet)
	r.Post("/{number}/status", h.HandleChangeStatus)
	r.Post("/{number}/accept", h.HandleAccept)

	return r
}

// PublicRoutes wires the unauthenticated application submission.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubmit)
	return r
}
