// internal/app/features/applications/review.go
package applications

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/lifecycle/admissions"
	applicationstore "github.com/shulehub/shulehub/internal/app/store/applications"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

// HandleList handles GET /applications?status=&limit=&offset= for staff.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	switch status {
	case "", models.ApplicationPending, models.ApplicationReviewed,
		models.ApplicationAccepted, models.ApplicationRejected:
	default:
		respond.Error(w, http.StatusBadRequest, "unknown status filter")
		return
	}

	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)
	offset, _ := strconv.ParseInt(q.Get("offset"), 10, 64)

	list, err := h.Applications.List(r.Context(), status, limit, offset)
	if err != nil {
		h.Log.Error("application list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// HandleGet handles GET /applications/{number}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadApplication(w, r)
	if !ok {
		return
	}
	respond.JSON(w, http.StatusOK, app)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleChangeStatus handles POST /applications/{number}/status. Accepting
// goes through the accept endpoint so a student record is created.
func (h *Handler) HandleChangeStatus(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadApplication(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	switch req.Status {
	case models.ApplicationPending, models.ApplicationReviewed, models.ApplicationRejected:
	case models.ApplicationAccepted:
		respond.Error(w, http.StatusBadRequest, "use the accept endpoint to accept an application")
		return
	default:
		respond.Error(w, http.StatusBadRequest, "unknown status")
		return
	}

	if err := h.Applications.SetStatus(r.Context(), app.ID, req.Status); err != nil {
		respond.FromError(w, err, map[error]int{applicationstore.ErrNotFound: http.StatusNotFound})
		return
	}
	h.Audit.ApplicationReviewed(r.Context(), actorID(r), app.ID, app.Status, req.Status)

	app.Status = req.Status
	respond.JSON(w, http.StatusOK, app)
}

// HandleAccept handles POST /applications/{number}/accept: the application
// becomes a student via the admissions service, which assigns the
// admission number and sends the welcome email.
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	app, ok := h.loadApplication(w, r)
	if !ok {
		return
	}
	if app.Status == models.ApplicationAccepted {
		respond.Error(w, http.StatusConflict, "application already accepted")
		return
	}

	student, err := h.Admissions.AdmitStudent(r.Context(), actorID(r), admissions.NewStudent{
		FirstName: app.FirstName,
		LastName:  app.LastName,
		Email:     app.Email,
		Phone:     app.Phone,
		IDNumber:  app.IDNumber,
		DOB:       app.DateOfBirth,

		NextOfKinName:         app.NextOfKinName,
		NextOfKinRelationship: app.NextOfKinRelationship,
		NextOfKinPhone:        app.NextOfKinPhone,
	})
	if err != nil {
		respond.FromError(w, err, map[error]int{
			admissions.ErrDuplicateEmail: http.StatusConflict,
			admissions.ErrMissingPhone:   http.StatusBadRequest,
		})
		return
	}

	if err := h.Applications.SetStatus(r.Context(), app.ID, models.ApplicationAccepted); err != nil {
		// The student exists; surface the stale application rather than fail.
		h.Log.Warn("application status update failed after admit",
			zap.String("application", app.ApplicationNumber), zap.Error(err))
	}
	h.Audit.ApplicationReviewed(r.Context(), actorID(r), app.ID, app.Status, models.ApplicationAccepted)

	respond.JSON(w, http.StatusCreated, student)
}

func (h *Handler) loadApplication(w http.ResponseWriter, r *http.Request) (models.Application, bool) {
	number := chi.URLParam(r, "number")
	if number == "" {
		respond.Error(w, http.StatusBadRequest, "application number is required")
		return models.Application{}, false
	}
	app, err := h.Applications.GetByNumber(r.Context(), number)
	if err != nil {
		respond.FromError(w, err, map[error]int{applicationstore.ErrNotFound: http.StatusNotFound})
		return models.Application{}, false
	}
	return app, true
}

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
