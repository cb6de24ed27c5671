// internal/app/features/learners/subscription.go
package learners

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shulehub/shulehub/internal/app/features/shared/respond"
	learnerstore "github.com/shulehub/shulehub/internal/app/store/learners"
	"github.com/shulehub/shulehub/internal/domain/models"
)

type subscriptionRequest struct {
	Years         int     `json:"years"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
	TransactionID string  `json:"transaction_id"`
	Phone         string  `json:"phone"`
}

var paymentMethods = map[string]bool{
	"mpesa":         true,
	"cash":          true,
	"bank_transfer": true,
	"cheque":        true,
	"paypal":        true,
}

// HandleRenewSubscription handles POST /learners/{id}/subscription for
// staff recording an alumni subscription payment. The expiry extends from
// the later of now and the current expiry, so early renewal never loses
// time.
func (h *Handler) HandleRenewSubscription(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ObjectID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	var req subscriptionRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	if req.Years < 1 {
		respond.Error(w, http.StatusBadRequest, "years must be at least 1")
		return
	}
	if !paymentMethods[req.PaymentMethod] {
		respond.Error(w, http.StatusBadRequest, "unrecognized payment method")
		return
	}

	learner, err := h.Learners.Get(r.Context(), models.KindAlumnus, id)
	if err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}

	now := time.Now().UTC()
	base := now
	if learner.Subscription != nil && learner.Subscription.ExpiryDate != nil && learner.Subscription.ExpiryDate.After(now) {
		base = *learner.Subscription.ExpiryDate
	}
	expiry := base.AddDate(req.Years, 0, 0)

	years := req.Years
	if learner.Subscription != nil {
		years += learner.Subscription.YearsSubscribed
	}
	learner.Subscription = &models.Subscription{
		Active:          true,
		ExpiryDate:      &expiry,
		YearsSubscribed: years,
		LastPaymentDate: &now,
	}
	learner.SubscriptionPayments = append(learner.SubscriptionPayments, models.SubscriptionPayment{
		Years:         req.Years,
		Amount:        req.Amount,
		PaymentDate:   now,
		ExpiryDate:    expiry,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
		Phone:         req.Phone,
		Status:        "paid",
		CreatedAt:     now,
	})

	if err := h.Learners.Save(r.Context(), learner); err != nil {
		respond.FromError(w, err, map[error]int{learnerstore.ErrNotFound: http.StatusNotFound})
		return
	}

	if req.TransactionID != "" {
		if err := h.Payments.MarkUsed(r.Context(), req.TransactionID, models.PurposeSubscription, map[string]string{
			"student_id": learner.ID.Hex(),
		}); err != nil {
			h.Log.Warn("could not mark subscription transaction consumed",
				zap.String("transaction_id", req.TransactionID),
				zap.Error(err))
		} else {
			h.Audit.TransactionConsumed(r.Context(), learner.ID, req.TransactionID, models.PurposeSubscription)
		}
	}
	respond.JSON(w, http.StatusOK, learner.Subscription)
}
