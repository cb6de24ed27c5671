// internal/app/features/certification/routes.go
package certification

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleAdmin, auth.RoleTutor))

	r.Get("/students", h.HandleListCandidates)
	r.Post("/{studentID}/{courseID}/exams", h.HandleAddExam)
	r.Delete("/{studentID}/{courseID}/exams/{examID}", h.HandleRemoveExam)
	r.Post("/{studentID}/{courseID}/graduate", h.HandleGraduate)

	return r
}
