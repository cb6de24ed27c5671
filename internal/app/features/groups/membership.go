// internal/app/features/groups/membership.go
package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/lifecycle/assignment"
)

type memberRequest struct {
	StudentID string `json:"student_id"`
}

type transferRequest struct {
	StudentID string `json:"student_id"`
	ToGroupID string `json:"to_group_id"`
}

var membershipStatus = map[error]int{
	assignment.ErrGroupNotFound:   http.StatusNotFound,
	assignment.ErrLearnerNotFound: http.StatusNotFound,
	assignment.ErrNotEnrolled:     http.StatusConflict,
	assignment.ErrNoTutorAssigned: http.StatusConflict,
	assignment.ErrTutorMismatch:   http.StatusConflict,
	assignment.ErrAlreadyInGroup:  http.StatusConflict,
	assignment.ErrNotInGroup:      http.StatusConflict,
	assignment.ErrTutorNotFound:   http.StatusConflict,
}

// HandleAddStudent handles POST /groups/{id}/students.
func (h *Handler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	var req memberRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	studentID, ok := respond.ObjectID(w, req.StudentID)
	if !ok {
		return
	}
	if err := h.Assignment.AddToGroup(r.Context(), actorID(r), group.ID, studentID); err != nil {
		respond.FromError(w, err, membershipStatus)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "added"})
}

// HandleRemoveStudent handles DELETE /groups/{id}/students/{studentID}.
func (h *Handler) HandleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	studentID, ok := respond.ObjectID(w, chi.URLParam(r, "studentID"))
	if !ok {
		return
	}
	if err := h.Assignment.RemoveFromGroup(r.Context(), actorID(r), group.ID, studentID); err != nil {
		respond.FromError(w, err, membershipStatus)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleTransferStudent handles POST /groups/{id}/transfer. The learner
// moves from this group to the target group in one transaction.
func (h *Handler) HandleTransferStudent(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadGroup(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	studentID, ok := respond.ObjectID(w, req.StudentID)
	if !ok {
		return
	}
	toID, ok := respond.ObjectID(w, req.ToGroupID)
	if !ok {
		return
	}
	if err := h.Assignment.TransferGroup(r.Context(), actorID(r), group.ID, toID, studentID); err != nil {
		respond.FromError(w, err, membershipStatus)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "transferred"})
}
