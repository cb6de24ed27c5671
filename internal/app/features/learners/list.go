// internal/app/features/learners/list.go
package learners

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/domain/models"
)

// HandleList handles GET /learners?kind=student|alumni for staff.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = models.KindStudent
	}
	if kind != models.KindStudent && kind != models.KindAlumnus {
		respond.Error(w, http.StatusBadRequest, "kind must be student or alumni")
		return
	}

	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(r.URL.Query().Get("offset"), 10, 64)

	list, err := h.Learners.List(r.Context(), kind, limit, offset)
	if err != nil {
		h.Log.Error("learner list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleGet handles GET /learners/{id}. The lookup spans both the
// students and alumni collections.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	learner, err := h.Learners.FindAnyKind(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, learner)
}

// publicAlumnus is the directory view: no contact details beyond the
// learner's chosen location.
type publicAlumnus struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	AdmissionNumber string   `json:"admission_number,omitempty"`
	CurrentLocation string   `json:"current_location,omitempty"`
	GraduationYear  int      `json:"graduation_year,omitempty"`
	Courses         []string `json:"courses"`
}

// HandlePublicAlumni handles GET /alumni/directory, the unauthenticated
// listing of alumni who opted into a public profile.
func (h *Handler) HandlePublicAlumni(w http.ResponseWriter, r *http.Request) {
	alumni, err := h.Learners.ListPublicAlumni(r.Context())
	if err != nil {
		h.Log.Error("public alumni list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]publicAlumnus, 0, len(alumni))
	for _, a := range alumni {
		entry := publicAlumnus{
			ID:              a.ID.Hex(),
			Name:            a.FullName(),
			AdmissionNumber: a.AdmissionNumber,
			CurrentLocation: a.CurrentLocation,
			Courses:         []string{},
		}
		if a.GraduationDate != nil {
			entry.GraduationYear = a.GraduationDate.Year()
		}
		for _, c := range a.Courses {
			if c.CertificationStatus == models.CertificationGraduated {
				entry.Courses = append(entry.Courses, c.Name)
			}
		}
		out = append(out, entry)
	}
	respond.JSON(w, http.StatusOK, out)
}
