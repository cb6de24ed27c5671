// internal/app/features/certification/candidates.go
package certification

import (
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	"github.com/shulehub/shulehub/internal/app/lifecycle/progress"
	groupstore "github.com/shulehub/shulehub/internal/app/store/groups"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

// candidate is one roster student with everything a tutor needs to judge
// graduation readiness.
type candidate struct {
	StudentID   primitive.ObjectID `json:"student_id"`
	StudentName string             `json:"student_name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	IDNumber    string             `json:"id_number,omitempty"`
	UserType    string             `json:"user_type"`

	Completion progress.Completion `json:"completion"`

	PaymentStatus       string        `json:"payment_status"`
	Exams               []models.Exam `json:"exams"`
	GPA                 float64       `json:"gpa"`
	FinalGrade          string        `json:"final_grade,omitempty"`
	CertificationStatus string        `json:"certification_status"`
}

type candidateGroup struct {
	GroupID    primitive.ObjectID `json:"group_id"`
	GroupName  string             `json:"group_name"`
	CourseID   primitive.ObjectID `json:"course_id"`
	CourseName string             `json:"course_name"`
	Students   []candidate        `json:"students"`
}

// HandleListCandidates handles GET /certification/students. Tutors see
// their own groups; ?group_id= narrows to one group and is required for
// admins.
func (h *Handler) HandleListCandidates(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var groups []models.Group
	if raw := r.URL.Query().Get("group_id"); raw != "" {
		id, ok := respond.ObjectID(w, raw)
		if !ok {
			return
		}
		group, err := h.Groups.GetByID(r.Context(), id)
		if err != nil {
			respond.FromError(w, err, map[error]int{groupstore.ErrNotFound: http.StatusNotFound})
			return
		}
		if user.Role == auth.RoleTutor && user.ID != group.TutorID.Hex() {
			respond.Error(w, http.StatusForbidden, "not your group")
			return
		}
		groups = []models.Group{group}
	} else if user.Role == auth.RoleTutor {
		tutorID, err := primitive.ObjectIDFromHex(user.ID)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid token subject")
			return
		}
		groups, err = h.Groups.ListByTutor(r.Context(), tutorID)
		if err != nil {
			h.Log.Error("group list failed", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
	} else {
		respond.Error(w, http.StatusBadRequest, "group_id is required")
		return
	}

	out := make([]candidateGroup, 0, len(groups))
	for _, group := range groups {
		cg := candidateGroup{
			GroupID:    group.ID,
			GroupName:  group.Name,
			CourseID:   group.CourseID,
			CourseName: group.CourseName,
			Students:   make([]candidate, 0, len(group.Students)),
		}
		completion := progress.Compute(group)

		for _, entry := range group.Students {
			learner, err := h.Learners.FindAnyKind(r.Context(), entry.StudentID)
			if err != nil {
				if errors.Is(err, learnerstore.ErrNotFound) {
					// Roster entry pointing at a removed learner; skip it.
					continue
				}
				h.Log.Error("learner lookup failed", zap.Error(err))
				respond.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
			c := candidate{
				StudentID:   learner.ID,
				StudentName: learner.FullName(),
				Email:       learner.Email,
				Phone:       learner.Phone,
				IDNumber:    learner.IDNumber,
				UserType:    learner.Kind,
				Completion:  completion,
			}
			if e := learner.EnrollmentFor(group.CourseID); e != nil {
				c.PaymentStatus = e.Payment.Status
				c.Exams = e.Exams
				c.GPA = e.GPA
				c.FinalGrade = e.FinalGrade
				c.CertificationStatus = e.CertificationStatus
			}
			if c.Exams == nil {
				c.Exams = []models.Exam{}
			}
			cg.Students = append(cg.Students, c)
		}
		out = append(out, cg)
	}
	respond.JSON(w, http.StatusOK, out)
}
