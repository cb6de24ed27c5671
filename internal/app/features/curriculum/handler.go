// internal/app/features/curriculum/handler.go

// Package curriculum manages reusable syllabus templates and the
// curriculum items embedded in groups: item CRUD and ordering, release
// scheduling, completion marking, template import, and learner responses
// with tutor remarks. Rich-text fields are sanitized before storage.
package curriculum

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type Handler struct {
	Curricula *curriculumstore.Store
	Groups    *groupstore.Store
	Learners  *learnerstore.Store
	Tutors    *tutorstore.Store
	Log       *zap.Logger
}

func NewHandler(curricula *curriculumstore.Store, groups *groupstore.Store, learners *learnerstore.Store, tutors *tutorstore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Curricula: curricula,
		Groups:    groups,
		Learners:  learners,
		Tutors:    tutors,
		Log:       logger,
	}
}

// cleanAttachments drops entries without a type, URL and title, and gives
// each kept attachment an id.
func cleanAttachments(in []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, 0, len(in))
	for _, a := range in {
		if a.Type == "" || a.Type == "none" || a.URL == "" || a.Title == "" {
			continue
		}
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		out = append(out, a)
	}
	return out
}

func validItemType(t string) bool {
	switch t {
	case models.ItemLesson, models.ItemEvent, models.ItemCAT, models.ItemExam:
		return true
	}
	return false
}

// loadOwnedGroup fetches the group from the URL and rejects tutors who do
// not own it. Admins pass.
func (h *Handler) loadOwnedGroup(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "groupID"))
	if !ok {
		return models.Group{}, false
	}
	group, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{groupstore.ErrNotFound: http.StatusNotFound})
		return models.Group{}, false
	}
	if user, _ := auth.CurrentUser(r); user != nil && user.Role == auth.RoleTutor && user.ID != group.TutorID.Hex() {
		respond.Error(w, http.StatusForbidden, "not your group")
		return models.Group{}, false
	}
	return group, true
}
