// internal/app/features/learners/routes.go
package learners

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleStudent))
		pr.Get("/me", h.HandleMe)
		pr.Put("/me", h.HandleUpdateMe)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleAdmin))
		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleGet)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleFinance))
		pr.Post("/{id}/subscription", h.HandleRenewSubscription)
	})

	return r
}

// PublicRoutes serves the unauthenticated alumni directory.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/directory", h.HandlePublicAlumni)
	return r
}
