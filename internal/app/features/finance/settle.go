// internal/app/features/finance/settle.go
package finance

import (
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	tutorstore "github.com/shulehub/shulehub/internal/app/store/tutors"
	"github.com/shulehub/shulehub/internal/app/system/auth"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type settleRequest struct {
	TutorID       string  `json:"tutor_id"`
	StudentID     string  `json:"student_id"`
	Amount        float64 `json:"amount"`
	Phone         string  `json:"phone"`
	TransactionID string  `json:"transaction_id"`
	Notes         string  `json:"notes"`
}

// HandleSettle handles POST /finance/settlements. It records the payout
// against the tutor's roster entry for the student, wherever graduation
// has left that entry.
func (h *Handler) HandleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if req.Amount <= 0 || req.Phone == "" || req.TransactionID == "" {
		respond.Error(w, http.StatusBadRequest, "amount, phone and transaction_id are required")
		return
	}
	tutorID, ok := respond.ObjectID(w, req.TutorID)
	if !ok {
		return
	}
	studentID, ok := respond.ObjectID(w, req.StudentID)
	if !ok {
		return
	}

	now := time.Now().UTC()
	st := models.Settlement{
		Status:        models.SettlementPaid,
		Amount:        req.Amount,
		Phone:         req.Phone,
		TransactionID: req.TransactionID,
		TimeOfPayment: &now,
		Notes:         req.Notes,
	}
	if err := h.Tutors.MarkSettlement(r.Context(), tutorID, studentID, st); err != nil {
		respond.FromError(w, err, map[error]int{
			tutorstore.ErrNotFound:            http.StatusNotFound,
			tutorstore.ErrRosterEntryNotFound: http.StatusNotFound,
		})
		return
	}

	h.Audit.SettlementMarked(r.Context(), actorID(r), tutorID, studentID, st.Status)
	respond.JSON(w, http.StatusOK, map[string]string{"status": "settled"})
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
