// internal/app/features/finance/routes.go
package finance

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleFinance))
	r.Get("/tutors", h.HandleOverview)
	r.Post("/settlements", h.HandleSettle)
	return r
}
