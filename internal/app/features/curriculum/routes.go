// internal/app/features/curriculum/routes.go
package curriculum

import (
	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/system/auth"
)

// TemplateRoutes wires the /curricula template endpoints.
func TemplateRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleAdmin, auth.RoleTutor))

	r.Get("/", h.HandleListTemplates)
	r.Post("/", h.HandleCreateTemplate)
	r.Get("/{id}", h.HandleGetTemplate)
	r.Delete("/{id}", h.HandleDeleteTemplate)
	r.Post("/{id}/items", h.HandleAddTemplateItem)
	r.Put("/{id}/items/{itemID}", h.HandleUpdateTemplateItem)
	r.Delete("/{id}/items/{itemID}", h.HandleDeleteTemplateItem)
	r.Post("/{id}/reorder", h.HandleReorderTemplate)

	return r
}

// GroupRoutes wires the /group-curriculum endpoints. Item management is
// restricted to admins and the group's tutor; response endpoints admit
// learners and do ownership checks in the handlers.
func GroupRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(auth.RoleAdmin, auth.RoleTutor))
		pr.Get("/{groupID}", h.HandleGetGroupCurriculum)
		pr.Post("/{groupID}/items", h.HandleAddItem)
		pr.Put("/{groupID}/items/{itemID}", h.HandleUpdateItem)
		pr.Delete("/{groupID}/items/{itemID}", h.HandleDeleteItem)
		pr.Post("/{groupID}/import/{curriculumID}", h.HandleImportCurriculum)
		pr.Post("/{groupID}/import/{curriculumID}/{itemID}", h.HandleImportItem)
		pr.Post("/{groupID}/reorder", h.HandleReorder)
		pr.Post("/{groupID}/items/{itemID}/responses/{responseID}/remark", h.HandleRemark)
	})

	r.Post("/{groupID}/items/{itemID}/responses", h.HandleSubmitResponse)
	r.Put("/{groupID}/items/{itemID}/responses/{responseID}", h.HandleUpdateResponse)
	r.Delete("/{groupID}/items/{itemID}/responses/{responseID}", h.HandleDeleteResponse)

	return r
}

// LearnerRoutes wires the signed-in learner's curriculum view.
func LearnerRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn, auth.RequireRole(auth.RoleStudent))
	r.Get("/", h.HandleMyCurriculum)
	return r
}
