// internal/app/features/tutors/crud.go
package tutors

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/inputval"
	"github.com/shulehub/shulehub/internal/app/system/normalize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type tutorRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	KRAPin    string   `json:"kra_pin"`
	Password  string   `json:"password"`
	Courses   []string `json:"courses"`
}

// HandleList handles GET /tutors. ?active=1 restricts to active tutors.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "1"
	tutors, err := h.Tutors.List(r.Context(), activeOnly)
	if err != nil {
		h.Log.Error("tutor list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, tutors)
}

// HandleGet handles GET /tutors/{id}. Tutors may read their own record;
// everything else is admin only (enforced in routes).
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	if user, _ := auth.CurrentUser(r); user != nil && user.Role == auth.RoleTutor && user.ID != id.Hex() {
		respond.Error(w, http.StatusForbidden, "not your record")
		return
	}
	tutor, err := h.Tutors.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{tutorstore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, tutor)
}

// HandleCreate handles POST /tutors.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req tutorRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	req.Email = normalize.Email(req.Email)
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		respond.Error(w, http.StatusBadRequest, "first name, last name and email are required")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.Error(w, http.StatusBadRequest, "email is not a valid address")
		return
	}
	if len(req.Password) < 8 {
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	courseIDs, err := parseObjectIDs(req.Courses)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course id")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	created, err := h.Tutors.Create(r.Context(), models.Tutor{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		KRAPin:    req.KRAPin,
		Password:  string(hash),
		Courses:   courseIDs,
		IsActive:  true,
	})
	if err != nil {
		if errors.Is(err, tutorstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, err.Error())
			return
		}
		h.Log.Error("tutor create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusCreated, created)
}

type tutorUpdateRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Phone     string   `json:"phone"`
	KRAPin    string   `json:"kra_pin"`
	Courses   []string `json:"courses"`
	IsActive  *bool    `json:"is_active"`
}

// HandleUpdate handles PUT /tutors/{id}. Email is immutable; rosters are
// only touched by the lifecycle services.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req tutorUpdateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	tutor, err := h.Tutors.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{tutorstore.ErrNotFound: http.StatusNotFound})
		return
	}

	if req.FirstName != "" {
		tutor.FirstName = req.FirstName
	}
	if req.LastName != "" {
		tutor.LastName = req.LastName
	}
	if req.Phone != "" {
		tutor.Phone = req.Phone
	}
	if req.KRAPin != "" {
		tutor.KRAPin = req.KRAPin
	}
	if req.Courses != nil {
		courseIDs, err := parseObjectIDs(req.Courses)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid course id")
			return
		}
		tutor.Courses = courseIDs
	}
	if req.IsActive != nil {
		tutor.IsActive = *req.IsActive
	}

	if err := h.Tutors.Save(r.Context(), tutor); err != nil {
		respond.FromError(w, err, map[error]int{tutorstore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, tutor)
}

// HandleDelete handles DELETE /tutors/{id}. Tutors with active students
// are deactivated rather than removed.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	tutor, err := h.Tutors.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{tutorstore.ErrNotFound: http.StatusNotFound})
		return
	}
	if len(tutor.MyStudents) > 0 {
		respond.Error(w, http.StatusConflict, "tutor has active students; deactivate instead")
		return
	}
	if _, err := h.Tutors.Delete(r.Context(), id); err != nil {
		h.Log.Error("tutor delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
