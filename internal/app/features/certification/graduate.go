// internal/app/features/certification/graduate.go
package certification

import (
	"net/http"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
)

type graduateRequest struct {
	GroupID string `json:"group_id"`
}

// HandleGraduate handles POST /certification/{studentID}/{courseID}/graduate.
// On success the learner's record has moved to the alumni collection and
// the issued certificate is returned.
func (h *Handler) HandleGraduate(w http.ResponseWriter, r *http.Request) {
	studentID, courseID, ok := pathIDs(w, r)
	if !ok {
		return
	}
	var req graduateRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	groupID, ok := respond.ObjectID(w, req.GroupID)
	if !ok {
		return
	}

	cert, err := h.Cert.Graduate(r.Context(), actorID(r), studentID, courseID, groupID)
	if err != nil {
		respond.FromError(w, err, statusFor)
		return
	}
	respond.JSON(w, http.StatusOK, cert)
}
