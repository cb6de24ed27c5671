// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

// Routes wires the group endpoints. Admins manage groups; tutors work
// only with their own, enforced inside the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleAdmin))
		pr.Post("/", h.HandleCreate)
		pr.Delete("/{id}", h.HandleDelete)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleTutor))
		pr.Get("/", h.HandleList)
		pr.Get("/{id}", h.HandleGet)
		pr.Get("/{id}/progress", h.HandleProgress)
		pr.Post("/{id}/students", h.HandleAddStudent)
		pr.Delete("/{id}/students/{studentID}", h.HandleRemoveStudent)
		pr.Post("/{id}/transfer", h.HandleTransferStudent)
	})

	return r
}
