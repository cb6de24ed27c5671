// internal/app/features/payments/routes.go
package payments

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

// Routes are the authenticated payment endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/stk", h.HandleInitiateSTK)
	r.Get("/{transactionID}", h.HandleStatus)
	return r
}

// CallbackRoutes is the unauthenticated Daraja result endpoint. It is
// mounted under an unguessable path segment configured at startup.
func CallbackRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCallback)
	return r
}
