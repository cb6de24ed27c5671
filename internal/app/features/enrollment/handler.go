// internal/app/features/enrollment/handler.go

// Package enrollment is the API surface over the enrollment service:
// students enroll themselves, staff enroll on a learner's behalf.
package enrollment

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	lifecycle "github.com/shulehub/shulehub/internal/app/lifecycle/enrollment"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type Handler struct {
	Service *lifecycle.Service
	Log     *zap.Logger
}

func NewHandler(service *lifecycle.Service, logger *zap.Logger) *Handler {
	return &Handler{Service: service, Log: logger}
}

type enrollRequest struct {
	LearnerID     string  `json:"learner_id"`
	CourseID      string  `json:"course_id"`
	Phone         string  `json:"phone"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	PaymentStatus string  `json:"payment_status"`
}

// HandleEnroll handles POST /enrollments. Students may only enroll
// themselves; admins may name any learner.
func (h *Handler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "sign in required")
		return
	}

	var req enrollRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if user.Role == auth.RoleStudent {
		req.LearnerID = user.ID
	}

	learnerID, err := primitive.ObjectIDFromHex(req.LearnerID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid learner id")
		return
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid course id")
		return
	}
	if req.PaymentStatus != "" &&
		req.PaymentStatus != models.PaymentPending &&
		req.PaymentStatus != models.PaymentPaid &&
		req.PaymentStatus != models.PaymentFailed {
		respond.Error(w, http.StatusBadRequest, "unrecognized payment status")
		return
	}
	// Only staff can assert PAID without a transaction id.
	if req.PaymentStatus == models.PaymentPaid && req.TransactionID == "" && user.Role != auth.RoleAdmin {
		respond.Error(w, http.StatusForbidden, "a transaction id is required to claim payment")
		return
	}

	enrollment, err := h.Service.Enroll(r.Context(), learnerID, courseID, lifecycle.PaymentAttempt{
		Phone:         req.Phone,
		TransactionID: req.TransactionID,
		Amount:        req.Amount,
		Status:        req.PaymentStatus,
	})
	if err != nil {
		respond.FromError(w, err, map[error]int{
			lifecycle.ErrLearnerNotFound:   http.StatusNotFound,
			lifecycle.ErrCourseNotFound:    http.StatusNotFound,
			lifecycle.ErrAlreadyEnrolled:   http.StatusConflict,
			lifecycle.ErrCourseUnavailable: http.StatusConflict,
		})
		return
	}
	respond.JSON(w, http.StatusCreated, enrollment)
}
