// internal/app/features/courses/crud.go
package courses

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	coursestore "github.com/shulehub/shulehub/internal/app/store/courses"
	"github.com/shulehub/shulehub/internal/app/system/htmlsanitize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type courseRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CourseType   string   `json:"course_type"`
	CourseTier   string   `json:"course_tier"`
	Duration     int      `json:"duration"`
	DurationType string   `json:"duration_type"`
	CourseFee    float64  `json:"course_fee"`
	OfferPrice   *float64 `json:"offer_price"`
}

func (req courseRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Duration <= 0 {
		return "duration must be positive"
	}
	if req.CourseFee < 0 {
		return "course fee cannot be negative"
	}
	return ""
}

// HandleList handles GET /courses. Staff see archived courses with
// ?include_archived=1; everyone else gets the live catalog.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	includeArchived := r.URL.Query().Get("include_archived") == "1"
	courses, err := h.Courses.List(r.Context(), includeArchived)
	if err != nil {
		h.Log.Error("course list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, courses)
}

// HandleGet handles GET /courses/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	course, err := h.Courses.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

// HandleCreate handles POST /courses.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.Courses.Create(r.Context(), models.Course{
		Name:         req.Name,
		Description:  htmlsanitize.Sanitize(req.Description),
		CourseType:   req.CourseType,
		CourseTier:   req.CourseTier,
		Duration:     req.Duration,
		DurationType: req.DurationType,
		CourseFee:    req.CourseFee,
		OfferPrice:   req.OfferPrice,
	})
	if err != nil {
		if errors.Is(err, coursestore.ErrDuplicateCourseName) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("course create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /courses/{id}. The enrollment roster is
// preserved; only catalog fields change.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req courseRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		respond.Error(w, http.StatusBadRequest, msg)
		return
	}

	course, err := h.Courses.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
		return
	}

	course.Name = req.Name
	course.Description = htmlsanitize.Sanitize(req.Description)
	course.CourseType = req.CourseType
	course.CourseTier = req.CourseTier
	course.Duration = req.Duration
	course.DurationType = req.DurationType
	course.CourseFee = req.CourseFee
	course.OfferPrice = req.OfferPrice

	if err := h.Courses.Save(r.Context(), course); err != nil {
		respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

// HandleArchive handles POST /courses/{id}/archive and its inverse
// /unarchive. Archived courses stay out of the public catalog and refuse
// new enrollments.
func (h *Handler) HandleArchive(archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
		if !ok {
			return
		}
		if err := h.Courses.SetArchived(r.Context(), id, archived); err != nil {
			respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
			return
		}
		respond.JSON(w, http.StatusOK, map[string]bool{"is_archived": archived})
	}
}

// HandleDelete handles DELETE /courses/{id}. Courses with enrolled
// students must be archived instead.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	course, err := h.Courses.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{coursestore.ErrNotFound: http.StatusNotFound})
		return
	}
	if len(course.EnrolledStudents) > 0 {
		respond.Error(w, http.StatusConflict, "course has enrolled students; archive it instead")
		return
	}
	if _, err := h.Courses.Delete(r.Context(), id); err != nil {
		h.Log.Error("course delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
