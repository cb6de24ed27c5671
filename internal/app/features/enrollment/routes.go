// internal/app/features/enrollment/routes.go
package enrollment

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleAdmin, auth.RoleStudent))
	r.Post("/", h.HandleEnroll)
	return r
}
