// internal/app/features/admissions/routes.go
package admissions

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleAdmin))
	r.Post("/", h.HandleAdmit)
	return r
}
