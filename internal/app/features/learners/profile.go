// internal/app/features/learners/profile.go
package learners

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/app/system/auth"
)

// currentLearner resolves the signed-in user to their learner document.
func (h *Handler) currentLearner(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid token subject")
		return primitive.NilObjectID, false
	}
	return id, true
}

// HandleMe handles GET /learners/me.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentLearner(w, r)
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

type profileUpdateRequest struct {
	Phone                 string `json:"phone"`
	CurrentLocation       string `json:"current_location"`
	PublicProfile         *bool  `json:"is_public_profile_enabled"`
	NextOfKinName         string `json:"next_of_kin_name"`
	NextOfKinRelationship string `json:"next_of_kin_relationship"`
	NextOfKinPhone        string `json:"next_of_kin_phone"`
}

// HandleUpdateMe handles PUT /learners/me. Identity fields (name, email,
// admission number) are staff-managed and not editable here.
func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.currentLearner(w, r)
	if !ok {
		return
	}
	var req profileUpdateRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	learner, err := h.Learners.FindAnyKind(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}

	if req.Phone != "" {
		learner.Phone = req.Phone
	}
	if req.CurrentLocation != "" {
		learner.CurrentLocation = req.CurrentLocation
	}
	if req.PublicProfile != nil {
		learner.PublicProfile = *req.PublicProfile
	}
	if req.NextOfKinName != "" {
		learner.NextOfKinName = req.NextOfKinName
	}
	if req.NextOfKinRelationship != "" {
		learner.NextOfKinRelationship = req.NextOfKinRelationship
	}
	if req.NextOfKinPhone != "" {
		learner.NextOfKinPhone = req.NextOfKinPhone
	}

	if err := h.Learners.Save(r.Context(), learner); err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}
	respond.JSON(w, http.StatusOK, learner)
}
