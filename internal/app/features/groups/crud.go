// internal/app/features/groups/crud.go
package groups

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/lifecycle/assignment"
	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	curriculumstore "github.com/shulehub/shulehub/internal/app/store/curricula"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type createGroupRequest struct {
	Name         string `json:"name"`
	TutorID      string `json:"tutor_id"`
	CourseID     string `json:"course_id"`
	CurriculumID string `json:"curriculum_id"`
}

// HandleCreate handles POST /groups. A curriculum template named in the
// request is copied into the group; later edits to the template leave the
// group's copy alone.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	tutorID, err := primitive.ObjectIDFromHex(req.TutorID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid tutor id")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course id")
		return
	}

	tutor, err := h.Tutors.GetByID(r.Context(), tutorID)
	if err != nil {
		respond.FromError(w, err, map[error]int{tutorstore.ErrNotFound: http.StatusNotFound})
		return
	}
	course, err := h.Courses.GetByID(r.Context(), courseID)
	if err != nil {
		respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
		return
	}
	if !tutor.IsActive {
		respond.Error(w, http.StatusConflict, "tutor is inactive")
		return
	}
	if !tutorTeaches(tutor, course.ID) {
		respond.Error(w, http.StatusConflict, "tutor does not teach this course")
		return
	}

	group := models.Group{
		Name:       req.Name,
		TutorID:    tutor.ID,
		CourseID:   course.ID,
		CourseName: course.Name,
	}

	if req.CurriculumID != "" {
		curriculumID, err := primitive.ObjectIDFromHex(req.CurriculumID)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid curriculum id")
			return
		}
		template, err := h.Curricula.GetByID(r.Context(), curriculumID)
		if err != nil {
			respond.FromError(w, err, map[error]int{curriculumstore.ErrNotFound: http.StatusNotFound})
			return
		}
		group.CurriculumItems = importTemplate(template)
	}

	created, err := h.Groups.Create(r.Context(), group)
	if err != nil {
		h.Log.Error("group create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Audit.GroupCreated(r.Context(), actorID(r), created.ID, created.CourseID)
	respond.JSON(w, http.StatusCreated, created)
}

// importTemplate copies template items into fresh group items. Each copy
// gets its own id and remembers its source item.
func importTemplate(template models.Curriculum) []models.CurriculumItem {
	items := make([]models.CurriculumItem, 0, len(template.Items))
	for _, t := range template.Items {
		items = append(items, models.CurriculumItem{
			ID:           primitive.NewObjectID(),
			Position:     t.Position,
			Type:         t.Type,
			Name:         t.Name,
			Description:  t.Description,
			Attachments:  t.Attachments,
			ReleaseTime:  "00:00",
			DueTime:      "23:59",
			SourceItemID: t.ID,
			CreatedAt:    time.Now().UTC(),
		})
	}
	return items
}

func tutorTeaches(t models.Tutor, courseID primitive.ObjectID) bool {
	for _, c := range t.Courses {
		if c == courseID {
			return true
		}
	}
	return false
}

// HandleGet handles GET /groups/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, group)
}

// HandleList handles GET /groups filtered by tutor or course. Tutors see
// their own groups without a filter.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		list []models.Group
		err  error
	)
	switch {
	case q.Get("tutor_id") != "":
		id, ok := respond.ObjectID(w, q.Get("tutor_id"))
		if !ok {
			return
		}
		list, err = h.Groups.ListByTutor(ctx, id)
	case q.Get("course_id") != "":
		id, ok := respond.ObjectID(w, q.Get("course_id"))
		if !ok {
			return
		}
		list, err = h.Groups.ListByCourse(ctx, id)
	default:
		user, _ := auth.CurrentUser(r)
		if user != nil && user.Role == auth.RoleTutor {
			tutorID, idErr := primitive.ObjectIDFromHex(user.ID)
			if idErr != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid token subject")
				return
			}
			list, err = h.Groups.ListByTutor(ctx, tutorID)
		} else {
			respond.Error(w, http.StatusBadRequest, "tutor_id or course_id filter is required")
			return
		}
	}
	if err != nil {
		h.Log.Error("group list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleDelete handles DELETE /groups/{id}. Every learner on the roster
// is released in the same transaction that removes the group.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if err := h.Assignment.DeleteGroup(r.Context(), actorID(r), id); err != nil {
		respond.FromError(w, err, map[error]int{assignment.ErrGroupNotFound: http.StatusNotFound})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleProgress handles GET /groups/{id}/progress.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	completion, err := h.Progress.ForGroup(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{progress.ErrGroupNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, completion)
}

// loadGroup fetches the group from the URL id, enforcing that tutors only
// see their own groups.
func (h *Handler) loadGroup(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return models.Group{}, false
	}
	group, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "group not found")
		} else {
			respond.Error(w, http.StatusInternalServerError, "internal error")
		}
		return models.Group{}, false
	}
	if user, _ := auth.CurrentUser(r); user != nil && user.Role == auth.RoleTutor && user.ID != group.TutorID.Hex() {
		respond.Error(w, http.StatusForbidden, "not your group")
		return models.Group{}, false
	}
	return group, true
}

// actorID pulls the acting user's id for audit entries; zero when absent.
func actorID(r *http.Request) primitive.ObjectID {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
