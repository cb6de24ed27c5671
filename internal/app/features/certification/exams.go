// internal/app/features/certification/exams.go
package certification

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/system/auth"
)

type examRequest struct {
	Name  string `json:"exam_name"`
	Grade string `json:"grade"`
}

// HandleAddExam handles POST /certification/{studentID}/{courseID}/exams.
// GPA and final grade on the enrollment are recomputed by the service.
func (h *Handler) HandleAddExam(w http.ResponseWriter, r *http.Request) {
	studentID, courseID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	var req examRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "exam_name is required")
		return
	}

	exam, err := h.Cert.AddExam(r.Context(), actorID(r), studentID, courseID, req.Name, req.Grade)
	if err != nil {
		respond.FromError(w, err, statusFor)
		return
	}
	respond.JSON(w, http.StatusCreated, exam)
}

// HandleRemoveExam handles
// DELETE /certification/{studentID}/{courseID}/exams/{examID}.
func (h *Handler) HandleRemoveExam(w http.ResponseWriter, r *http.Request) {
	studentID, courseID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	examID, ok := respond.ObjectID(w, chi.URLParam(r, "examID"))
	if !ok {
		return
	}

	if err := h.Cert.RemoveExam(r.Context(), actorID(r), studentID, courseID, examID); err != nil {
		respond.FromError(w, err, statusFor)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathIDs(w http.ResponseWriter, r *http.Request) (student, course primitive.ObjectID, ok bool) {
	student, ok = respond.ObjectID(w, chi.URLParam(r, "studentID"))
	if !ok {
		return
	}
	course, ok = respond.ObjectID(w, chi.URLParam(r, "courseID"))
	return
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
