// internal/app/features/curriculum/responses.go
package curriculum

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/app/system/htmlsanitize"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type responseRequest struct {
	ResponseText string              `json:"response_text"`
	Attachments  []models.Attachment `json:"attachments"`
	IsQuestion   bool                `json:"is_question"`
	IsPublic     bool                `json:"is_public"`
}

type remarkRequest struct {
	TutorRemark string `json:"tutor_remark"`
}

// tutorContact is the slice of a tutor record shown to learners.
type tutorContact struct {
	ID        primitive.ObjectID `json:"id"`
	FirstName string             `json:"first_name"`
	LastName  string             `json:"last_name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
}

// HandleMyCurriculum handles GET /my-curriculum?course_id=... for the
// signed-in learner: their group for the course, its curriculum, and the
// tutor's contact details.
func (h *Handler) HandleMyCurriculum(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}
	learnerID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid token subject")
		return
	}
	courseID, ok := respond.ObjectID(w, r.URL.Query().Get("course_id"))
	if !ok {
		return
	}

	learner, err := h.Learners.FindAnyKind(r.Context(), learnerID)
	if err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}
	enrollment := learner.EnrollmentFor(courseID)
	if enrollment == nil {
		respond.Error(w, http.StatusNotFound, "not enrolled in this course")
		return
	}
	if enrollment.AssignedGroup == nil {
		respond.Error(w, http.StatusNotFound, "not assigned to a group yet")
		return
	}

	group, err := h.Groups.GetByID(r.Context(), enrollment.AssignedGroup.GroupID)
	if err != nil {
		respond.FromError(w, err, map[error]int{groupstore.ErrNotFound: http.StatusNotFound})
		return
	}

	payload := map[string]interface{}{
		"group":      group,
		"enrollment": enrollment,
	}
	if tutor, err := h.Tutors.GetByID(r.Context(), group.TutorID); err == nil {
		payload["tutor"] = tutorContact{
			ID:        tutor.ID,
			FirstName: tutor.FirstName,
			LastName:  tutor.LastName,
			Email:     tutor.Email,
			Phone:     tutor.Phone,
		}
	} else if !errors.Is(err, tutorstore.ErrNotFound) {
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, payload)
}

// HandleSubmitResponse handles
// POST /group-curriculum/{groupID}/items/{itemID}/responses. Only group
// members may respond, and only once the item is released.
func (h *Handler) HandleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}
	studentID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "invalid token subject")
		return
	}

	group, ok := h.loadGroupAnyRole(w, r)
	if !ok {
		return
	}
	member := rosterEntry(&group, studentID)
	if member == nil {
		respond.Error(w, http.StatusForbidden, "not in this group")
		return
	}
	item, ok := h.itemFromURL(w, r, &group)
	if !ok {
		return
	}
	if at := item.ReleaseAt(); at != nil && at.After(time.Now()) {
		respond.Error(w, http.StatusForbidden, "item not yet released")
		return
	}

	var req responseRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	item.Responses = append(item.Responses, models.StudentResponse{
		ID:           primitive.NewObjectID(),
		StudentID:    studentID,
		StudentName:  member.Name,
		ResponseText: htmlsanitize.Sanitize(req.ResponseText),
		Attachments:  cleanAttachments(req.Attachments),
		IsQuestion:   req.IsQuestion,
		IsPublic:     req.IsPublic,
		CreatedAt:    time.Now().UTC(),
	})

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusCreated, item)
}

// HandleUpdateResponse handles
// PUT /group-curriculum/{groupID}/items/{itemID}/responses/{responseID}.
// Learners edit only their own response; the tutor's remark is untouched.
func (h *Handler) HandleUpdateResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}
	group, ok := h.loadGroupAnyRole(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromURL(w, r, &group)
	if !ok {
		return
	}
	response, ok := h.responseFromURL(w, r, item)
	if !ok {
		return
	}
	if response.StudentID.Hex() != user.ID {
		respond.Error(w, http.StatusForbidden, "not your response")
		return
	}

	var req responseRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	response.ResponseText = htmlsanitize.Sanitize(req.ResponseText)
	if req.Attachments != nil {
		response.Attachments = cleanAttachments(req.Attachments)
	}
	response.IsQuestion = req.IsQuestion
	response.IsPublic = req.IsPublic

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

// HandleDeleteResponse handles
// DELETE /group-curriculum/{groupID}/items/{itemID}/responses/{responseID}.
// The owning learner, the group's tutor, and admins may delete.
func (h *Handler) HandleDeleteResponse(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}
	group, ok := h.loadGroupAnyRole(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromURL(w, r, &group)
	if !ok {
		return
	}
	response, ok := h.responseFromURL(w, r, item)
	if !ok {
		return
	}

	allowed := user.Role == auth.RoleAdmin ||
		response.StudentID.Hex() == user.ID ||
		group.TutorID.Hex() == user.ID
	if !allowed {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	kept := item.Responses[:0]
	for _, resp := range item.Responses {
		if resp.ID != response.ID {
			kept = append(kept, resp)
		}
	}
	item.Responses = kept

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRemark handles
// POST /group-curriculum/{groupID}/items/{itemID}/responses/{responseID}/remark.
// Only the group's tutor or an admin may remark.
func (h *Handler) HandleRemark(w http.ResponseWriter, r *http.Request) {
	group, ok := h.loadOwnedGroup(w, r)
	if !ok {
		return
	}
	item, ok := h.itemFromURL(w, r, &group)
	if !ok {
		return
	}
	response, ok := h.responseFromURL(w, r, item)
	if !ok {
		return
	}

	var req remarkRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	response.TutorRemark = htmlsanitize.Sanitize(req.TutorRemark)
	response.TutorRemarkAt = &now

	if err := h.saveGroup(w, r, group); err != nil {
		return
	}
	respond.JSON(w, http.StatusOK, item)
}

// loadGroupAnyRole fetches the group without the tutor-ownership check;
// response handlers do their own member and owner checks.
func (h *Handler) loadGroupAnyRole(w http.ResponseWriter, r *http.Request) (models.Group, bool) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "groupID"))
	if !ok {
		return models.Group{}, false
	}
	group, err := h.Groups.GetByID(r.Context(), id)
	if err != nil {
		respond.FromError(w, err, map[error]int{groupstore.ErrNotFound: http.StatusNotFound})
		return models.Group{}, false
	}
	return group, true
}

func (h *Handler) responseFromURL(w http.ResponseWriter, r *http.Request, item *models.CurriculumItem) (*models.StudentResponse, bool) {
	responseID, ok := respond.ObjectID(w, chi.URLParam(r, "responseID"))
	if !ok {
		return nil, false
	}
	response := item.ResponseByID(responseID)
	if response == nil {
		respond.Error(w, http.StatusNotFound, "response not found")
		return nil, false
	}
	return response, true
}

func rosterEntry(g *models.Group, studentID primitive.ObjectID) *models.GroupStudent {
	for i := range g.Students {
		if g.Students[i].StudentID == studentID {
			return &g.Students[i]
		}
	}
	return nil
}
